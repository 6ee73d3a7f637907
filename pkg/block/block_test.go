package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBlock64(t *testing.T) {
	data := make([]byte, Size64)
	for i := range data {
		data[i] = byte(i)
	}
	b, err := NewBlock64(data)
	assert.NoError(t, err)
	assert.Equal(t, data, b[:])

	_, err = NewBlock64(data[:63])
	assert.ErrorIs(t, err, ErrBlockSize)
	_, err = NewBlock32(data)
	assert.ErrorIs(t, err, ErrBlockSize)
}

func TestBlock64_AliasedViews(t *testing.T) {
	var b Block64
	b.SetUint64(0, 0x1122334455667788)
	assert.Equal(t, uint32(0x55667788), b.Uint32(0))
	assert.Equal(t, uint32(0x11223344), b.Uint32(1))
	assert.Equal(t, uint16(0x7788), b.Uint16(0))
	assert.Equal(t, byte(0x88), b[0])

	b.SetUint32(0, 0)
	assert.Equal(t, uint64(0x1122334400000000), b.Uint64(0))

	b.SetUint16(2, 0xbeef)
	assert.Equal(t, uint32(0xbeef), b.Uint32(1))
}

func TestBlock64_Words(t *testing.T) {
	var ws [Words64]uint32
	for i := range ws {
		ws[i] = uint32(i) * 0x01010101
	}
	b := FromWords(ws)
	assert.Equal(t, ws, b.Words())

	ws[3] = 0xdeadbeef
	b.SetWords(ws)
	assert.Equal(t, uint32(0xdeadbeef), b.Uint32(3))
}

func TestBlock64_Xor(t *testing.T) {
	var a, b Block64
	for i := range a {
		a[i] = byte(i)
		b[i] = 0xff
	}
	c := Xor(&a, &b)
	for i := range c {
		assert.Equal(t, byte(i)^0xff, c[i])
	}
	// a and b untouched by the value form
	assert.Equal(t, byte(1), a[1])

	a.XorAssign(&a)
	assert.True(t, a.IsZero())
}

func TestBlock64_WipeAndZero(t *testing.T) {
	var b Block64
	assert.True(t, b.IsZero())
	b[17] = 1
	assert.False(t, b.IsZero())
	b.Wipe()
	assert.True(t, b.IsZero())

	var k Block32
	k[0] = 0xaa
	assert.False(t, k.IsZero())
	k.Wipe()
	assert.True(t, k.IsZero())
}

func TestBlock64_Equal(t *testing.T) {
	var a, b Block64
	assert.True(t, a.Equal(&b))
	b[63] = 1
	assert.False(t, a.Equal(&b))
}

func TestWipeBytes(t *testing.T) {
	buf := []byte("secret material")
	WipeBytes(buf)
	for _, c := range buf {
		assert.Zero(t, c)
	}
	WipeBytes(nil) // must not panic
}
