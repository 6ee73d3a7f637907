package stonehash

import (
	"math/bits"

	"github.com/saylorsolutions/stonepass/pkg/block"
	"github.com/saylorsolutions/stonepass/pkg/chacha"
)

// Compressor accumulates full 64-byte blocks through the ChaCha permutation.
// It is the compression core underneath Hash; one Compressor is owned by
// exactly one Hash and must never be shared.
type Compressor struct {
	state block.Block64
}

// Absorb mixes one block into the accumulator: state ^= block, then one
// permutation of the result.
func (c *Compressor) Absorb(b *block.Block64) {
	c.state.XorAssign(b)
	chacha.PermuteBlock(&c.state)
}

// Finalize returns the finalized state for a message of totalBytes without
// touching the live accumulator, so the caller may keep absorbing afterward.
//
// The finalization flag (bit 0 of word 0) separates final from intermediate
// states. The message length is injected in bits as rotl(totalBytes, 3):
// equal to totalBytes*8 for anything under 2^61 bytes, and still injective
// for larger values where the multiply would overflow.
func (c *Compressor) Finalize(totalBytes uint64) block.Block64 {
	h := c.state
	h.SetUint32(0, h.Uint32(0)^0x01)

	bitLen := bits.RotateLeft64(totalBytes, 3)
	h.SetUint32(12, h.Uint32(12)^uint32(bitLen))
	h.SetUint32(13, h.Uint32(13)^uint32(bitLen>>32))

	chacha.PermuteBlock(&h)
	return h
}

// Wipe zeroes the accumulator.
func (c *Compressor) Wipe() {
	c.state.Wipe()
}
