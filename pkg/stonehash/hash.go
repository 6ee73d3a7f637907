package stonehash

import (
	"math/bits"

	"github.com/saylorsolutions/stonepass/pkg/block"
)

const (
	// BlockSize is the absorption block size in bytes.
	BlockSize = block.Size64
	// Size is the canonical digest size in bytes. Every shorter digest is a
	// prefix of this one.
	Size = block.Size64
)

// Initialization vector occupying the first eight words of the init block
// (the fractional parts of the square roots of the first eight primes, the
// same nothing-up-my-sleeve constants SHA-256 uses).
var iv = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// Hash is a streaming, domain-separated, length-strengthened hash over the
// ChaCha permutation. The zero value is not usable; construct with New or
// NewKeyed.
//
// Update is the only mutating operation. Every digest method finalizes a copy
// of the state, so callers may probe a digest and keep writing afterward.
type Hash struct {
	comp  Compressor
	buf   block.Block64
	n     int
	total uint64
}

// New returns an unkeyed Hash.
func New() *Hash {
	var zero block.Block32
	return NewKeyed(&zero)
}

// NewKeyed returns a Hash keyed with a 256-bit key. An all-zero key selects
// unkeyed mode.
//
// The first absorbed block is the eight IV words followed by the key words.
// In unkeyed mode the key contributes nothing, which would leave the init
// state a fixed, key-independent point; to remove it, unkeyed mode absorbs
// the finalized output of the init block as a second init block.
func NewKeyed(key *block.Block32) *Hash {
	h := &Hash{}

	var init block.Block64
	for i, w := range iv {
		init.SetUint32(i, w)
	}
	for i := 0; i < 8; i++ {
		init.SetUint32(8+i, key.Uint32(i))
	}
	h.comp.Absorb(&init)

	if key.IsZero() {
		second := h.comp.Finalize(block.Size64)
		h.comp.Absorb(&second)
	}
	init.Wipe()
	return h
}

// Update absorbs p into the hash state. It never fails; the error return
// exists to satisfy io.Writer.
func (h *Hash) Update(p []byte) {
	_, _ = h.Write(p)
}

// Write implements io.Writer. Full 64-byte chunks are absorbed immediately;
// a trailing partial chunk is buffered until more input or finalization.
func (h *Hash) Write(p []byte) (int, error) {
	written := len(p)
	h.total += uint64(written)

	if h.n > 0 {
		c := copy(h.buf[h.n:], p)
		h.n += c
		p = p[c:]
		if h.n == BlockSize {
			h.comp.Absorb(&h.buf)
			h.n = 0
		}
	}
	for len(p) >= BlockSize {
		var b block.Block64
		copy(b[:], p)
		h.comp.Absorb(&b)
		p = p[BlockSize:]
	}
	if len(p) > 0 {
		h.n = copy(h.buf[:], p)
	}
	return written, nil
}

// Sum512 returns the canonical 64-byte digest of everything written so far.
// The hash state is untouched.
//
// Padding follows the usual length-strengthened scheme: 0x80, zeros, and the
// message bit length little-endian in the last eight bytes of the final
// block. When the pad does not fit alongside the pending bytes, a
// zero-padded block is flushed first.
func (h *Hash) Sum512() block.Block64 {
	comp := h.comp

	var last block.Block64
	copy(last[:], h.buf[:h.n])
	last[h.n] = 0x80
	if h.n+1 > BlockSize-8 {
		comp.Absorb(&last)
		last = block.Block64{}
	}
	last.SetUint64(7, bits.RotateLeft64(h.total, 3))
	comp.Absorb(&last)

	return comp.Finalize(h.total)
}

// Sum256 returns the first 32 bytes of the canonical digest.
func (h *Hash) Sum256() block.Block32 {
	d := h.Sum512()
	var out block.Block32
	copy(out[:], d[:block.Size32])
	d.Wipe()
	return out
}

// Sum128 returns the first 16 bytes of the canonical digest.
func (h *Hash) Sum128() [16]byte {
	d := h.Sum512()
	var out [16]byte
	copy(out[:], d[:16])
	d.Wipe()
	return out
}

// Sum64 returns the first 8 bytes of the canonical digest.
func (h *Hash) Sum64() [8]byte {
	d := h.Sum512()
	var out [8]byte
	copy(out[:], d[:8])
	d.Wipe()
	return out
}

// Wipe zeroes the accumulator and any buffered input. The Hash must not be
// used afterward.
func (h *Hash) Wipe() {
	h.comp.Wipe()
	h.buf.Wipe()
	h.n = 0
	h.total = 0
}

// Sum512 returns the unkeyed 64-byte digest of data.
func Sum512(data []byte) block.Block64 {
	h := New()
	h.Update(data)
	return h.Sum512()
}

// Sum256 returns the unkeyed 32-byte digest of data.
func Sum256(data []byte) block.Block32 {
	h := New()
	h.Update(data)
	return h.Sum256()
}
