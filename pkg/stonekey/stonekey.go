package stonekey

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/saylorsolutions/stonepass/pkg/block"
	"github.com/saylorsolutions/stonepass/pkg/chacha"
	"github.com/saylorsolutions/stonepass/pkg/stonehash"
)

const (
	// DefaultMemoryCost gives 2^20 blocks = 64 MiB, the recommended setting
	// for 2025-2030 hardware.
	DefaultMemoryCost uint32 = 20
	// DefaultTimeCost is the recommended number of mixing rounds.
	DefaultTimeCost uint32 = 3
	// MaxMemoryCost caps the workspace at 2^26 blocks = 4 GiB.
	MaxMemoryCost uint32 = 26

	wordsPerBlock = 16

	// 2^64 / phi. Weyl-sequence increment for the mixing counter; the same
	// constant feeds the index mixing of the final compression.
	goldenGamma uint64 = 0x9e3779b97f4a7c15
)

// Domain-separation tags. Changing any of these changes every derived key.
const (
	fillTag    = "StoneHash::v2::fill"
	counterTag = "StoneHash::v2::counter_seed"
	extractTag = "StoneKey::v2::final"
)

var (
	ErrEmptyPassword = errors.New("cannot derive a key from an empty password")
	ErrInvalidCost   = errors.New("invalid cost parameter")
)

type config struct {
	memoryCost uint32
	timeCost   uint32
}

type Option = func(*config) error

// SetMemoryCost sets the workspace size to 2^m 64-byte blocks. The maximum
// of 26 (4 GiB) keeps the allocation sane on common systems.
func SetMemoryCost(m uint32) Option {
	return func(cfg *config) error {
		if m > MaxMemoryCost {
			return fmt.Errorf("%w: memory cost %d exceeds max %d (4 GiB)", ErrInvalidCost, m, MaxMemoryCost)
		}
		cfg.memoryCost = m
		return nil
	}
}

// SetTimeCost sets the number of butterfly mixing rounds.
func SetTimeCost(t uint32) Option {
	return func(cfg *config) error {
		if t == 0 {
			return fmt.Errorf("%w: time cost must be >= 1", ErrInvalidCost)
		}
		cfg.timeCost = t
		return nil
	}
}

// DeriveKey turns a password and context into a uniform 256-bit key using a
// memory-hard, data-independent derivation. Identical inputs always produce
// identical keys; any change to password, context, or cost parameters
// produces an unrelated key.
//
// All parameter validation happens before the workspace is allocated, and
// the workspace is zeroed unconditionally before return on every path.
// Callers holding the result should treat it as key material and Wipe it
// when done.
func DeriveKey(password, context []byte, opts ...Option) (block.Block32, error) {
	cfg := config{
		memoryCost: DefaultMemoryCost,
		timeCost:   DefaultTimeCost,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return block.Block32{}, err
		}
	}
	if len(password) == 0 {
		return block.Block32{}, ErrEmptyPassword
	}

	ws := make([]uint32, (1<<cfg.memoryCost)*wordsPerBlock)
	defer wipeWorkspace(ws)
	return derive(password, context, cfg, ws), nil
}

// derive runs the four computation phases over a caller-provided workspace.
// It is total: every failure mode is rejected before this point.
func derive(password, context []byte, cfg config, ws []uint32) block.Block32 {
	nBlocks := 1 << cfg.memoryCost

	// Phase 1: fill. Each block is a domain-separated digest of the context
	// and its own index. Only block 0 absorbs the password, which binds the
	// whole computation to the secret while keeping the rest of the fill
	// password-independent.
	var idx [8]byte
	for i := 0; i < nBlocks; i++ {
		h := stonehash.New()
		h.Update([]byte(fillTag))
		if len(context) > 0 {
			h.Update(context)
		}
		binary.LittleEndian.PutUint64(idx[:], uint64(i))
		h.Update(idx[:])
		if i == 0 {
			h.Update(password)
		}
		d := h.Sum512()
		for j := 0; j < wordsPerBlock; j++ {
			ws[i*wordsPerBlock+j] = d.Uint32(j)
		}
		d.Wipe()
		h.Wipe()
	}

	// Phase 2: butterfly mixing, timeCost rounds. The pairing schedule and
	// per-pair operations are a pinned algorithm: every derived key depends
	// on them bit for bit.
	counter := goldenGamma
	{
		h := stonehash.New()
		h.Update([]byte(counterTag))
		h.Update(password)
		seed := h.Sum512()
		counter ^= seed.Uint64(0)
		seed.Wipe()
		h.Wipe()
	}

	for round := uint32(0); round < cfg.timeCost; round++ {
		counter += goldenGamma

		for span := 1; span < nBlocks; span *= 2 {
			for start := 0; start < nBlocks; start += 2 * span {
				for k := 0; k < span; k++ {
					a := start + k
					b := a + span
					x := ws[a*wordsPerBlock : a*wordsPerBlock+wordsPerBlock]
					y := ws[b*wordsPerBlock : b*wordsPerBlock+wordsPerBlock]

					mix := counter ^ (uint64(a)<<32 | uint64(b))

					// Three irreversible steps per pair: XOR with external
					// data, non-linear diffusion, XOR with the result.
					for i := 0; i < wordsPerBlock; i++ {
						y[i] ^= x[i] ^ uint32(mix>>(uint(i)*4))
					}
					chacha.QR(y, 0, 4, 8, 12)
					chacha.QR(y, 1, 5, 9, 13)
					chacha.QR(y, 2, 6, 10, 14)
					chacha.QR(y, 3, 7, 11, 15)
					for i := 0; i < wordsPerBlock; i++ {
						x[i] ^= y[i]
					}
				}
			}
		}
	}

	// Phase 3: compress the workspace to one block. XOR accumulation plus
	// index-derived constants, one permutation per block, one extra at the
	// end.
	var acc block.Block64
	for i := 0; i < nBlocks; i++ {
		for j := 0; j < wordsPerBlock; j++ {
			acc.SetUint32(j, acc.Uint32(j)^ws[i*wordsPerBlock+j])
		}
		acc.SetUint64(0, acc.Uint64(0)^uint64(i))
		acc.SetUint64(1, acc.Uint64(1)^(uint64(i)<<32))
		acc.SetUint64(2, acc.Uint64(2)^(uint64(i)*goldenGamma))
		acc.SetUint64(3, acc.Uint64(3)^(uint64(i)*(goldenGamma>>13)))
		chacha.PermuteBlock(&acc)
	}
	chacha.PermuteBlock(&acc)

	// Phase 4 (extraction): a fresh domain-separated hash over the original
	// inputs and the accumulator guarantees a uniform output even if the
	// XOR compression lost entropy.
	out := stonehash.New()
	out.Update([]byte(extractTag))
	out.Update(password)
	out.Update(context)
	out.Update(acc[:])
	key := out.Sum256()

	acc.Wipe()
	out.Wipe()
	return key
}

// wipeWorkspace zeroes the mixing workspace. The slab held password-derived
// state, so this runs on every exit path, success or failure.
func wipeWorkspace(ws []uint32) {
	for i := range ws {
		ws[i] = 0
	}
}
