package stonerng

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saylorsolutions/stonepass/pkg/block"
	"github.com/saylorsolutions/stonepass/pkg/chacha"
)

func testGenerator() *Generator {
	key := chacha.Key{1, 2, 3, 4, 5, 6, 7, 8}
	return New(&key, chacha.Nonce{9, 10}, 0)
}

func TestNew_FirstBlockIsPermutedState(t *testing.T) {
	key := chacha.Key{1, 2, 3, 4, 5, 6, 7, 8}
	nonce := chacha.Nonce{9, 10}

	want := chacha.BuildState(&key, nonce, 0)
	chacha.PermuteBlock(&want)

	g := New(&key, nonce, 0)
	for i := 0; i < wordsPerBuffer; i++ {
		assert.Equal(t, want.Uint64(i), g.Uint64(), "word %d", i)
	}

	// Second block comes from counter 1.
	next := chacha.BuildState(&key, nonce, 1)
	chacha.PermuteBlock(&next)
	assert.Equal(t, next.Uint64(0), g.Uint64())
}

func TestNewFromSeed_SplitsAndDestroysSeed(t *testing.T) {
	raw := make([]byte, block.Size64)
	for i := range raw {
		raw[i] = byte(i * 3)
	}
	seed, err := block.NewBlock64(raw)
	require.NoError(t, err)

	expanded := seed
	chacha.PermuteBlock(&expanded)

	g := NewFromSeed(&seed)
	assert.True(t, seed.IsZero(), "seed must be destroyed")

	var wantKey chacha.Key
	for i := range wantKey {
		wantKey[i] = expanded.Uint32(i)
	}
	ref := New(&wantKey, chacha.Nonce{expanded.Uint32(8), expanded.Uint32(9)}, 0)
	assert.True(t, g.Equal(ref))
}

func TestNewFromSeed32_ZeroExtends(t *testing.T) {
	raw := make([]byte, block.Size32)
	for i := range raw {
		raw[i] = byte(0xa0 + i)
	}
	seed32, err := block.NewBlock32(raw)
	require.NoError(t, err)

	var wide block.Block64
	copy(wide[:block.Size32], raw)

	a := NewFromSeed32(&seed32)
	b := NewFromSeed(&wide)
	assert.True(t, seed32.IsZero())
	assert.True(t, a.Equal(b))
}

func TestNewFromEntropy_Split(t *testing.T) {
	ent := make([]byte, entropyBytes)
	for i := range ent {
		ent[i] = byte(i + 1)
	}
	g, err := NewFromEntropy(bytes.NewReader(ent))
	require.NoError(t, err)

	var key chacha.Key
	for i := range key {
		key[i] = binary.LittleEndian.Uint32(ent[4*i:])
	}
	nonce := chacha.Nonce{
		binary.LittleEndian.Uint32(ent[32:]),
		binary.LittleEndian.Uint32(ent[36:]),
	}
	counter := binary.LittleEndian.Uint64(ent[40:])

	ref := New(&key, nonce, counter)
	assert.True(t, g.Equal(ref), "bytes 48-63 must not influence the state")
}

func TestNewFromEntropy_Errors(t *testing.T) {
	_, err := NewFromEntropy(bytes.NewReader([]byte{1, 2, 3}))
	assert.ErrorIs(t, err, ErrEntropyFailed)

	// Default OS source must work.
	g, err := NewFromEntropy(nil)
	assert.NoError(t, err)
	assert.NotNil(t, g)
}

func TestNewDeterministic(t *testing.T) {
	a := NewDeterministic(42)
	b := NewDeterministic(42)
	c := NewDeterministic(43)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	for i := 0; i < 32; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestUnbiased_ChiSquare(t *testing.T) {
	const draws = 100_000
	g := NewDeterministic(0x0123456789abcdef)

	var counts [3]int
	for i := 0; i < draws; i++ {
		v := g.Unbiased(0, 2)
		require.LessOrEqual(t, v, uint64(2))
		counts[v]++
	}

	expected := float64(draws) / 3
	var chi2 float64
	for _, c := range counts {
		d := float64(c) - expected
		chi2 += d * d / expected
	}
	// df=2, p=0.001 critical value is 13.82.
	assert.Less(t, chi2, 13.82, "counts %v", counts)
}

func TestUnbiased_DegenerateAndSwapped(t *testing.T) {
	g := testGenerator()
	snapshot, err := g.MarshalBinary()
	require.NoError(t, err)

	assert.Equal(t, uint64(5), g.Unbiased(5, 5))

	after, err := g.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, snapshot, after, "lo==hi must consume zero stream words")

	lo := g.Unbiased(9, 3)
	assert.GreaterOrEqual(t, lo, uint64(3))
	assert.LessOrEqual(t, lo, uint64(9))
}

func TestUnbiased_FullRange(t *testing.T) {
	a := testGenerator()
	b := testGenerator()
	// [0, 2^64-1] must pass the raw word through.
	assert.Equal(t, b.Uint64(), a.Unbiased(0, ^uint64(0)))
}

func TestUnbiased_StaysInRange(t *testing.T) {
	g := NewDeterministic(7)
	for i := 0; i < 10_000; i++ {
		v := g.Unbiased(100, 102)
		assert.GreaterOrEqual(t, v, uint64(100))
		assert.LessOrEqual(t, v, uint64(102))
	}
}

func TestDiscard_MatchesGenerating(t *testing.T) {
	for _, n := range []uint64{0, 1, 7, 8, 9, 1000} {
		skipped := testGenerator()
		require.NoError(t, skipped.Discard(n))

		stepped := testGenerator()
		for i := uint64(0); i < n; i++ {
			stepped.Uint64()
		}

		for i := 0; i < 16; i++ {
			assert.Equal(t, stepped.Uint64(), skipped.Uint64(),
				"n=%d diverged at word %d", n, i)
		}
	}
}

func TestDiscard_MidBuffer(t *testing.T) {
	skipped := testGenerator()
	skipped.Uint64()
	skipped.Uint64()
	require.NoError(t, skipped.Discard(3))

	stepped := testGenerator()
	for i := 0; i < 5; i++ {
		stepped.Uint64()
	}
	assert.Equal(t, stepped.Uint64(), skipped.Uint64())
}

func TestDiscard_CounterOverflow(t *testing.T) {
	key := chacha.Key{1, 2, 3, 4, 5, 6, 7, 8}
	// Start one block short of the counter's end.
	g := New(&key, chacha.Nonce{9, 10}, ^uint64(0)-1)
	err := g.Discard(1000)
	assert.ErrorIs(t, err, ErrCounterExhausted)

	// The failed discard must leave the generator usable and unchanged.
	ref := New(&key, chacha.Nonce{9, 10}, ^uint64(0)-1)
	assert.True(t, g.Equal(ref))
}

func TestEqual(t *testing.T) {
	a := testGenerator()
	b := testGenerator()
	assert.True(t, a.Equal(b))

	b.Uint64()
	assert.False(t, a.Equal(b), "index differs")
	a.Uint64()
	assert.True(t, a.Equal(b))

	key := chacha.Key{1, 2, 3, 4, 5, 6, 7, 9}
	c := New(&key, chacha.Nonce{9, 10}, 0)
	assert.False(t, a.Equal(c))
}

func TestReseed(t *testing.T) {
	g := testGenerator()
	g.Uint64()

	key := chacha.Key{11, 12, 13, 14, 15, 16, 17, 18}
	g.Reseed(&key, chacha.Nonce{1, 1})

	ref := New(&key, chacha.Nonce{1, 1}, 0)
	assert.True(t, g.Equal(ref))
	assert.Equal(t, ref.Uint64(), g.Uint64())
}

func TestWipe(t *testing.T) {
	g := testGenerator()
	g.Wipe()
	assert.Equal(t, chacha.Key{}, g.key)
	assert.True(t, g.buffer.IsZero())
}
