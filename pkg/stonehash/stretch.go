package stonehash

import (
	"errors"
	"fmt"

	"github.com/saylorsolutions/stonepass/pkg/block"
)

// DefaultStretchIterations is the default hash-iteration count for
// NewStretched. Around one second of work on 2025 desktop hardware.
const DefaultStretchIterations = 2_000_000

var (
	ErrEmptyPassword    = errors.New("cannot stretch an empty password")
	ErrBadStretchConfig = errors.New("invalid stretch configuration")
)

type stretchConfig struct {
	iterations int
}

type StretchOpt = func(*stretchConfig) error

// StretchIterations overrides the iteration count. Lower counts weaken the
// stretch; only use this option if you know what you're doing.
func StretchIterations(n int) StretchOpt {
	return func(cfg *stretchConfig) error {
		if n < 1 {
			return fmt.Errorf("%w: iterations must be >= 1", ErrBadStretchConfig)
		}
		cfg.iterations = n
		return nil
	}
}

// NewStretched derives a keyed Hash from a password through iterated
// hashing: digest = hash(password‖context), then digest = hash(digest)
// repeated for the configured count, with the first 32 bytes of the final
// digest keying a fresh Hash.
//
// This raises attacker cost in time only. It is NOT memory-hard; for real
// memory-hardness derive the key with the stonekey package instead.
func NewStretched(password, context []byte, opts ...StretchOpt) (*Hash, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	cfg := stretchConfig{iterations: DefaultStretchIterations}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	h := New()
	h.Update(password)
	h.Update(context)
	digest := h.Sum512()
	h.Wipe()

	for i := 0; i < cfg.iterations; i++ {
		next := Sum512(digest[:])
		digest.Wipe()
		digest = next
	}

	var key block.Block32
	copy(key[:], digest[:block.Size32])
	digest.Wipe()
	keyed := NewKeyed(&key)
	key.Wipe()
	return keyed, nil
}
