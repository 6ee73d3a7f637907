package passgen

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/saylorsolutions/stonepass/pkg/block"
	"github.com/saylorsolutions/stonepass/pkg/stonekey"
	"github.com/saylorsolutions/stonepass/pkg/stonerng"
)

// Default character sets exclude the look-alike characters I, O, l, o, 0,
// and 1 to reduce entry errors, and keep to symbols that nearly all sites
// accept. Every set is replaceable per call for sites with unusual policies.
const (
	DefaultUppercase = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	DefaultLowercase = "abcdefghijkmnpqrstuvwxyz"
	DefaultDigits    = "23456789"
	DefaultSymbols   = "@#$%&*()[]{};:,.?"

	MinLength     = 6
	MaxLength     = 128
	DefaultLength = 20
)

// contextTag versions the derivation context. Changing it, or anything else
// about the context encoding, changes every generated password.
const contextTag = "StonePassword_v1.0"

var (
	ErrEmptyInput    = errors.New("username, master password, and site name are all required")
	ErrInvalidLength = errors.New("invalid password length")
	ErrBadVersion    = errors.New("password version must be at least 1")
	ErrBadPolicy     = errors.New("invalid character policy")
)

type generator struct {
	length  int
	version int

	uppercase string
	lowercase string
	digits    string
	symbols   string

	requireUppercase bool
	requireLowercase bool
	requireDigits    bool
	requireSymbols   bool

	kdfOpts []stonekey.Option
}

type GeneratorOpt = func(*generator) error

// SetLength sets the password length, between MinLength and MaxLength
// inclusive. The default is DefaultLength.
func SetLength(length int) GeneratorOpt {
	return func(gen *generator) error {
		if length < MinLength || length > MaxLength {
			return fmt.Errorf("%w: %d is not in [%d, %d]", ErrInvalidLength, length, MinLength, MaxLength)
		}
		gen.length = length
		return nil
	}
}

// SetVersion sets the password version counter. Bumping the version rotates
// the password for a site without changing the master password.
func SetVersion(version int) GeneratorOpt {
	return func(gen *generator) error {
		if version < 1 {
			return fmt.Errorf("%w: got %d", ErrBadVersion, version)
		}
		gen.version = version
		return nil
	}
}

// SetUppercase replaces the uppercase character set. An empty set is allowed
// only when uppercase characters are not required.
func SetUppercase(chars string, required bool) GeneratorOpt {
	return func(gen *generator) error {
		gen.uppercase = chars
		gen.requireUppercase = required
		return nil
	}
}

// SetLowercase replaces the lowercase character set. An empty set is allowed
// only when lowercase characters are not required.
func SetLowercase(chars string, required bool) GeneratorOpt {
	return func(gen *generator) error {
		gen.lowercase = chars
		gen.requireLowercase = required
		return nil
	}
}

// SetDigits replaces the digit character set. An empty set is allowed only
// when digits are not required.
func SetDigits(chars string, required bool) GeneratorOpt {
	return func(gen *generator) error {
		gen.digits = chars
		gen.requireDigits = required
		return nil
	}
}

// SetSymbols replaces the symbol character set. An empty set is allowed only
// when symbols are not required.
func SetSymbols(chars string, required bool) GeneratorOpt {
	return func(gen *generator) error {
		gen.symbols = chars
		gen.requireSymbols = required
		return nil
	}
}

// SetDerivationCosts forwards memory and time cost settings to the key
// derivation. Lowering these weakens brute-force resistance and changes
// every generated password; the defaults are right for normal use.
func SetDerivationCosts(memoryCost, timeCost uint32) GeneratorOpt {
	return func(gen *generator) error {
		gen.kdfOpts = append(gen.kdfOpts,
			stonekey.SetMemoryCost(memoryCost),
			stonekey.SetTimeCost(timeCost),
		)
		return nil
	}
}

// Generate deterministically derives a site password from the username,
// master password, and site name. The same inputs and options always produce
// the same password; nothing is stored.
//
// The password is guaranteed to contain at least one character from each
// required set, then filled from the union of required sets and shuffled so
// the guaranteed characters hold no fixed positions.
func Generate(username, master, site string, opts ...GeneratorOpt) (string, error) {
	if len(username) == 0 || len(master) == 0 || len(site) == 0 {
		return "", ErrEmptyInput
	}
	gen := &generator{
		length:           DefaultLength,
		version:          1,
		uppercase:        DefaultUppercase,
		lowercase:        DefaultLowercase,
		digits:           DefaultDigits,
		symbols:          DefaultSymbols,
		requireUppercase: true,
		requireLowercase: true,
		requireDigits:    true,
		requireSymbols:   true,
	}
	for _, opt := range opts {
		if err := opt(gen); err != nil {
			return "", err
		}
	}
	if err := gen.validate(); err != nil {
		return "", err
	}
	return gen.generate(username, master, site)
}

func (gen *generator) validate() error {
	required := gen.requiredSets()
	if len(required) == 0 {
		return fmt.Errorf("%w: at least one character set must be required", ErrBadPolicy)
	}
	for _, set := range required {
		if len(set) == 0 {
			return fmt.Errorf("%w: a required character set is empty", ErrBadPolicy)
		}
	}
	if gen.length < len(required) {
		return fmt.Errorf("%w: length %d cannot cover %d required sets", ErrInvalidLength, gen.length, len(required))
	}
	return nil
}

func (gen *generator) requiredSets() []string {
	var sets []string
	if gen.requireUppercase {
		sets = append(sets, gen.uppercase)
	}
	if gen.requireLowercase {
		sets = append(sets, gen.lowercase)
	}
	if gen.requireDigits {
		sets = append(sets, gen.digits)
	}
	if gen.requireSymbols {
		sets = append(sets, gen.symbols)
	}
	return sets
}

func (gen *generator) generate(username, master, site string) (string, error) {
	context := gen.context(username, site)
	key, err := stonekey.DeriveKey([]byte(master), context, gen.kdfOpts...)
	if err != nil {
		return "", err
	}
	rng := stonerng.NewFromSeed32(&key)
	defer rng.Wipe()

	required := gen.requiredSets()
	var pool string
	for _, set := range required {
		pool += set
	}

	password := make([]byte, 0, gen.length)
	for _, set := range required {
		password = append(password, draw(rng, set))
	}
	for len(password) < gen.length {
		password = append(password, draw(rng, pool))
	}

	// The forced category characters sit at the front; shuffle so their
	// positions carry no information.
	for i := len(password) - 1; i > 0; i-- {
		j := rng.Unbiased(0, uint64(i))
		password[i], password[j] = password[j], password[i]
	}

	result := string(password)
	block.WipeBytes(password)
	return result, nil
}

func draw(rng *stonerng.Generator, set string) byte {
	return set[rng.Unbiased(0, uint64(len(set)-1))]
}

// context builds the key derivation context from every input that must
// change the password. Fields are length-prefixed so no two distinct input
// combinations can encode to the same bytes.
func (gen *generator) context(username, site string) []byte {
	var flags byte
	if gen.requireUppercase {
		flags |= 1 << 0
	}
	if gen.requireLowercase {
		flags |= 1 << 1
	}
	if gen.requireDigits {
		flags |= 1 << 2
	}
	if gen.requireSymbols {
		flags |= 1 << 3
	}

	var buf []byte
	buf = appendField(buf, []byte(contextTag))
	buf = appendField(buf, binary.LittleEndian.AppendUint32(nil, uint32(gen.version)))
	buf = appendField(buf, []byte(username))
	buf = appendField(buf, []byte(site))
	buf = appendField(buf, binary.LittleEndian.AppendUint32(nil, uint32(gen.length)))
	buf = appendField(buf, []byte{flags})
	return buf
}

func appendField(buf, field []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(field)))
	return append(buf, field...)
}
