package stonerng

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	mathrand "math/rand/v2"

	"github.com/saylorsolutions/stonepass/pkg/block"
	"github.com/saylorsolutions/stonepass/pkg/chacha"
)

const (
	// wordsPerBuffer is the number of 64-bit words in one keystream block.
	wordsPerBuffer = 8

	entropyBytes = 64
)

var (
	ErrCounterExhausted = errors.New("key/nonce pair exhausted")
	ErrEntropyFailed    = errors.New("entropy collection failed")
)

// Generator is a buffered ChaCha keystream generator. Future output is fully
// determined by key, nonce, and counter; the buffer and consumption index are
// derived state.
//
// The zero value is not primed; construct with one of the New functions or
// restore with UnmarshalBinary. A Generator must not be copied: a duplicate
// would replay the same keystream.
type Generator struct {
	key     chacha.Key
	nonce   chacha.Nonce
	counter uint64
	buffer  block.Block64
	index   int
}

// New constructs a generator from an explicit key, nonce, and starting
// counter. This is the recommended construction when the caller already
// holds derived key material (e.g. a stonekey output).
func New(key *chacha.Key, nonce chacha.Nonce, counter uint64) *Generator {
	g := &Generator{
		key:     *key,
		nonce:   nonce,
		counter: counter,
	}
	g.refill()
	return g
}

// NewFromSeed constructs a generator from a 64-byte seed block. The block is
// run through one permutation; the first eight output words become the key,
// the next two the nonce, and the rest is discarded. The caller's seed block
// is destroyed.
func NewFromSeed(seed *block.Block64) *Generator {
	tmp := *seed
	chacha.PermuteBlock(&tmp)

	g := &Generator{}
	for i := 0; i < 8; i++ {
		g.key[i] = tmp.Uint32(i)
	}
	g.nonce[0] = tmp.Uint32(8)
	g.nonce[1] = tmp.Uint32(9)

	tmp.Wipe()
	seed.Wipe()
	g.refill()
	return g
}

// NewFromSeed32 constructs a generator from a 32-byte seed, zero-extended to
// a full block and expanded exactly like NewFromSeed. The caller's seed is
// destroyed.
func NewFromSeed32(seed *block.Block32) *Generator {
	var tmp block.Block64
	copy(tmp[:block.Size32], seed[:])
	seed.Wipe()
	g := NewFromSeed(&tmp)
	return g
}

// NewFromEntropy constructs a generator from 64 bytes of the given entropy
// source, split as key (bytes 0-31), nonce (32-39), and starting counter
// (40-47); the tail is discarded. A nil source selects crypto/rand.
//
// Randomizing the starting counter keeps output streams distinct even if the
// entropy source ever repeats a key/nonce pair.
func NewFromEntropy(entropy io.Reader) (*Generator, error) {
	if entropy == nil {
		entropy = rand.Reader
	}
	var buf [entropyBytes]byte
	if _, err := io.ReadFull(entropy, buf[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropyFailed, err)
	}

	g := &Generator{}
	for i := 0; i < 8; i++ {
		g.key[i] = binary.LittleEndian.Uint32(buf[4*i:])
	}
	g.nonce[0] = binary.LittleEndian.Uint32(buf[32:])
	g.nonce[1] = binary.LittleEndian.Uint32(buf[36:])
	g.counter = binary.LittleEndian.Uint64(buf[40:])

	block.WipeBytes(buf[:])
	g.refill()
	return g, nil
}

// NewDeterministic constructs a reproducible generator from a 64-bit seed,
// stretched through a wide-state ChaCha8 source. For tests and simulations
// only; a 64-bit seed space is NOT cryptographically secure.
func NewDeterministic(seed uint64) *Generator {
	var sb [32]byte
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(sb[8*i:], seed)
	}
	src := mathrand.NewChaCha8(sb)

	g := &Generator{}
	for i := range g.key {
		g.key[i] = uint32(src.Uint64())
	}
	for i := range g.nonce {
		g.nonce[i] = uint32(src.Uint64())
	}
	g.refill()
	return g
}

// Uint64 returns the next 64-bit keystream word.
//
// It panics with ErrCounterExhausted if the 64-bit block counter wraps,
// which happens after 2^70 bytes of output (~1.2 ZiB) on one key/nonce pair.
// Continuing past that point would silently replay keystream, so the
// generator refuses.
func (g *Generator) Uint64() uint64 {
	if g.index >= wordsPerBuffer {
		g.refill()
	}
	v := g.buffer.Uint64(g.index)
	g.index++
	return v
}

// Unbiased returns a uniform value in the inclusive range [lo, hi] using
// rejection sampling, with no modulo bias. Transposed bounds are swapped;
// lo == hi returns lo without consuming any keystream.
func (g *Generator) Unbiased(lo, hi uint64) uint64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return lo
	}
	// Full-width range: every raw word is already uniform, and span would
	// overflow below.
	if hi-lo == math.MaxUint64 {
		return g.Uint64()
	}

	span := hi - lo + 1
	// Accept raw words below the largest multiple of span that fits in
	// 2^64; -span % span is 2^64 mod span.
	limit := math.MaxUint64 - (-span % span)

	v := g.Uint64()
	for v > limit {
		v = g.Uint64()
	}
	return lo + v%span
}

// Discard advances the stream past n 64-bit words without generating them.
// Whole blocks are skipped by advancing the counter directly, so the cost is
// O(1) plus at most one refill for a partial block.
//
// A counter that would overflow is reported as ErrCounterExhausted and the
// generator is left unchanged.
func (g *Generator) Discard(n uint64) error {
	if n == 0 {
		return nil
	}
	remaining := uint64(wordsPerBuffer - g.index)
	if n < remaining {
		g.index += int(n)
		return nil
	}
	n -= remaining

	fullBlocks := n / wordsPerBuffer
	remainder := n % wordsPerBuffer

	if g.counter > math.MaxUint64-fullBlocks {
		return fmt.Errorf("%w: discard would wrap the block counter", ErrCounterExhausted)
	}
	g.index = wordsPerBuffer
	g.counter += fullBlocks

	if remainder != 0 {
		g.refill()
		g.index = int(remainder)
	}
	return nil
}

// Reseed replaces the key and nonce and restarts the counter at zero.
func (g *Generator) Reseed(key *chacha.Key, nonce chacha.Nonce) {
	g.key = *key
	g.nonce = nonce
	g.counter = 0
	g.refill()
}

// Equal reports whether both generators will produce identical future
// output. The keys are compared in constant time. The buffer is excluded:
// it is a pure function of key, nonce, counter, and index.
func (g *Generator) Equal(other *Generator) bool {
	var diff uint32
	for i := range g.key {
		diff |= g.key[i] ^ other.key[i]
	}
	return diff == 0 &&
		g.nonce == other.nonce &&
		g.counter == other.counter &&
		g.index == other.index
}

// Wipe destroys the generator's key material and buffered output.
func (g *Generator) Wipe() {
	g.key.Wipe()
	g.nonce = chacha.Nonce{}
	g.counter = 0
	g.buffer.Wipe()
	g.index = wordsPerBuffer
}

func (g *Generator) refill() {
	state := chacha.BuildState(&g.key, g.nonce, g.counter)
	chacha.PermuteBlock(&state)
	g.buffer = state
	state.Wipe()

	g.index = 0
	g.counter++
	if g.counter == 0 {
		panic(ErrCounterExhausted)
	}
}
