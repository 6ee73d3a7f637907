package block

import (
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Size64 is the size of a Block64 in bytes.
	Size64 = 64
	// Size32 is the size of a Block32 in bytes.
	Size32 = 32
	// Words64 is the number of 32-bit words in a Block64.
	Words64 = Size64 / 4
)

var (
	ErrBlockSize = errors.New("input length does not match block size")
)

// Block64 is a fixed 64-byte buffer with little-endian word accessors.
// The byte, 16-bit, 32-bit, and 64-bit views all address the same storage,
// so a mutation through any accessor is visible through all of them.
// It is a plain value type: assignment copies, and the zero value is all zeros.
type Block64 [Size64]byte

// Block32 is a fixed 32-byte buffer, used for 256-bit keys and digests.
type Block32 [Size32]byte

var (
	zero64 [Size64]byte
	zero32 [Size32]byte
)

// NewBlock64 copies exactly 64 bytes into a new Block64.
func NewBlock64(data []byte) (Block64, error) {
	var b Block64
	if len(data) != Size64 {
		return b, fmt.Errorf("%w: got %d bytes, want %d", ErrBlockSize, len(data), Size64)
	}
	copy(b[:], data)
	return b, nil
}

// NewBlock32 copies exactly 32 bytes into a new Block32.
func NewBlock32(data []byte) (Block32, error) {
	var b Block32
	if len(data) != Size32 {
		return b, fmt.Errorf("%w: got %d bytes, want %d", ErrBlockSize, len(data), Size32)
	}
	copy(b[:], data)
	return b, nil
}

// FromWords packs 16 little-endian 32-bit words into a Block64.
func FromWords(ws [Words64]uint32) Block64 {
	var b Block64
	for i, w := range ws {
		binary.LittleEndian.PutUint32(b[4*i:], w)
	}
	return b
}

// Words unpacks the block into 16 little-endian 32-bit words.
func (b *Block64) Words() [Words64]uint32 {
	var ws [Words64]uint32
	for i := range ws {
		ws[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
	return ws
}

// SetWords overwrites the block with 16 little-endian 32-bit words.
func (b *Block64) SetWords(ws [Words64]uint32) {
	for i, w := range ws {
		binary.LittleEndian.PutUint32(b[4*i:], w)
	}
}

// Uint16 returns 16-bit word i of 32.
func (b *Block64) Uint16(i int) uint16 {
	return binary.LittleEndian.Uint16(b[2*i:])
}

// SetUint16 sets 16-bit word i of 32.
func (b *Block64) SetUint16(i int, v uint16) {
	binary.LittleEndian.PutUint16(b[2*i:], v)
}

// Uint32 returns 32-bit word i of 16.
func (b *Block64) Uint32(i int) uint32 {
	return binary.LittleEndian.Uint32(b[4*i:])
}

// SetUint32 sets 32-bit word i of 16.
func (b *Block64) SetUint32(i int, v uint32) {
	binary.LittleEndian.PutUint32(b[4*i:], v)
}

// Uint64 returns 64-bit word i of 8.
func (b *Block64) Uint64(i int) uint64 {
	return binary.LittleEndian.Uint64(b[8*i:])
}

// SetUint64 sets 64-bit word i of 8.
func (b *Block64) SetUint64(i int, v uint64) {
	binary.LittleEndian.PutUint64(b[8*i:], v)
}

// XorAssign combines other into b, byte for byte.
func (b *Block64) XorAssign(other *Block64) {
	for i := 0; i < Size64; i += 8 {
		binary.LittleEndian.PutUint64(b[i:], binary.LittleEndian.Uint64(b[i:])^binary.LittleEndian.Uint64(other[i:]))
	}
}

// Xor returns a ^ b without modifying either block.
func Xor(a, b *Block64) Block64 {
	out := *a
	out.XorAssign(b)
	return out
}

// Equal reports whether the two blocks hold identical bytes.
func (b *Block64) Equal(other *Block64) bool {
	return *b == *other
}

// IsZero reports whether every byte of the block is zero.
func (b *Block64) IsZero() bool {
	return *b == zero64
}

// Wipe overwrites the block with zeros through a write the compiler cannot
// elide. Call it whenever a block held key material or other secrets.
func (b *Block64) Wipe() {
	subtle.ConstantTimeCopy(1, b[:], zero64[:])
}

// Uint32 returns 32-bit word i of 8.
func (b *Block32) Uint32(i int) uint32 {
	return binary.LittleEndian.Uint32(b[4*i:])
}

// SetUint32 sets 32-bit word i of 8.
func (b *Block32) SetUint32(i int, v uint32) {
	binary.LittleEndian.PutUint32(b[4*i:], v)
}

// Uint64 returns 64-bit word i of 4.
func (b *Block32) Uint64(i int) uint64 {
	return binary.LittleEndian.Uint64(b[8*i:])
}

// IsZero reports whether every byte of the block is zero.
func (b *Block32) IsZero() bool {
	return *b == zero32
}

// Wipe overwrites the block with zeros through a write the compiler cannot elide.
func (b *Block32) Wipe() {
	subtle.ConstantTimeCopy(1, b[:], zero32[:])
}

// WipeBytes zeroes an arbitrary byte slice the same way Block64.Wipe does.
// Useful for transient buffers that held secrets but aren't block-shaped.
func WipeBytes(buf []byte) {
	if len(buf) == 0 {
		return
	}
	zero := make([]byte, len(buf))
	subtle.ConstantTimeCopy(1, buf, zero)
}
