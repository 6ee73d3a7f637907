package chacha

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"

	"github.com/saylorsolutions/stonepass/pkg/block"
)

const (
	// Rounds is the number of add-rotate-XOR rounds applied by Permute (10 double rounds).
	Rounds = 20
	// KeySize is the key length in bytes.
	KeySize = 32
	// NonceSize is the Bernstein-layout nonce length in bytes.
	NonceSize = 8
)

// The "expand 32-byte k" constants occupying state words 0-3.
var constants = [4]uint32{0x61707865, 0x3320646e, 0x79622d32, 0x6b206574}

var (
	ErrEntropyShort = errors.New("entropy source returned short read")
)

// Key is a 256-bit key as eight little-endian 32-bit words.
type Key [8]uint32

// Nonce is a 64-bit nonce in the original Bernstein layout (two 32-bit words).
type Nonce [2]uint32

// Nonce96 is a 96-bit nonce in the IETF (RFC 8439) layout (three 32-bit words).
type Nonce96 [3]uint32

// KeyFromBytes loads a key from 32 little-endian bytes.
func KeyFromBytes(b *block.Block32) Key {
	var k Key
	for i := range k {
		k[i] = b.Uint32(i)
	}
	return k
}

// Bytes returns the key as 32 little-endian bytes.
func (k *Key) Bytes() block.Block32 {
	var b block.Block32
	for i, w := range k {
		b.SetUint32(i, w)
	}
	return b
}

// Wipe zeroes the key words.
func (k *Key) Wipe() {
	b := k.Bytes()
	b.Wipe()
	*k = Key{}
}

func quarterRound(a, b, c, d uint32) (uint32, uint32, uint32, uint32) {
	a += b
	d ^= a
	d = bits.RotateLeft32(d, 16)
	c += d
	b ^= c
	b = bits.RotateLeft32(b, 12)
	a += b
	d ^= a
	d = bits.RotateLeft32(d, 8)
	c += d
	b ^= c
	b = bits.RotateLeft32(b, 7)
	return a, b, c, d
}

// QR applies one ChaCha quarter-round to the four state words at indices
// a, b, c, d. Exposed for the butterfly mixer, which quarter-rounds the
// columns of raw 16-word blocks outside of a full permutation.
func QR(x []uint32, a, b, c, d int) {
	x[a], x[b], x[c], x[d] = quarterRound(x[a], x[b], x[c], x[d])
}

// Permute applies the 20-round core to x in place: 10 double rounds of
// column then diagonal quarter-rounds, then the feed-forward addition of
// the original input words (mod 2^32). Branch-free, no table lookups.
func Permute(x *[16]uint32) {
	in := *x
	for r := 0; r < Rounds; r += 2 {
		// columns
		x[0], x[4], x[8], x[12] = quarterRound(x[0], x[4], x[8], x[12])
		x[1], x[5], x[9], x[13] = quarterRound(x[1], x[5], x[9], x[13])
		x[2], x[6], x[10], x[14] = quarterRound(x[2], x[6], x[10], x[14])
		x[3], x[7], x[11], x[15] = quarterRound(x[3], x[7], x[11], x[15])
		// diagonals
		x[0], x[5], x[10], x[15] = quarterRound(x[0], x[5], x[10], x[15])
		x[1], x[6], x[11], x[12] = quarterRound(x[1], x[6], x[11], x[12])
		x[2], x[7], x[8], x[13] = quarterRound(x[2], x[7], x[8], x[13])
		x[3], x[4], x[9], x[14] = quarterRound(x[3], x[4], x[9], x[14])
	}
	for i := range x {
		x[i] += in[i]
	}
}

// PermuteBlock applies Permute to a 64-byte block in place, treating it as
// 16 little-endian words.
func PermuteBlock(b *block.Block64) {
	x := b.Words()
	Permute(&x)
	b.SetWords(x)
}

// BuildState assembles the original Bernstein layout: constants in words 0-3,
// key in 4-11, 64-bit counter split low/high into 12-13, nonce in 14-15.
//
// This is NOT the RFC 8439 layout used by TLS and WireGuard; see BuildStateIETF.
func BuildState(key *Key, nonce Nonce, counter uint64) block.Block64 {
	var x [16]uint32
	copy(x[0:4], constants[:])
	copy(x[4:12], key[:])
	x[12] = uint32(counter)
	x[13] = uint32(counter >> 32)
	x[14] = nonce[0]
	x[15] = nonce[1]
	return block.FromWords(x)
}

// BuildStateIETF assembles the RFC 8439 layout: 32-bit counter in word 12,
// 96-bit nonce in words 13-15. Provided for interop with standard ChaCha20
// implementations.
func BuildStateIETF(key *Key, nonce Nonce96, counter uint32) block.Block64 {
	var x [16]uint32
	copy(x[0:4], constants[:])
	copy(x[4:12], key[:])
	x[12] = counter
	x[13] = nonce[0]
	x[14] = nonce[1]
	x[15] = nonce[2]
	return block.FromWords(x)
}

// GenerateKey fills a key from the given entropy source, typically
// crypto/rand.Reader.
func GenerateKey(entropy io.Reader) (Key, error) {
	var (
		k   Key
		buf [KeySize]byte
	)
	if _, err := io.ReadFull(entropy, buf[:]); err != nil {
		return k, fmt.Errorf("%w: %v", ErrEntropyShort, err)
	}
	for i := range k {
		k[i] = binary.LittleEndian.Uint32(buf[4*i:])
	}
	block.WipeBytes(buf[:])
	return k, nil
}

// GenerateNonce fills a 64-bit nonce from the given entropy source.
func GenerateNonce(entropy io.Reader) (Nonce, error) {
	var (
		n   Nonce
		buf [NonceSize]byte
	)
	if _, err := io.ReadFull(entropy, buf[:]); err != nil {
		return n, fmt.Errorf("%w: %v", ErrEntropyShort, err)
	}
	n[0] = binary.LittleEndian.Uint32(buf[0:])
	n[1] = binary.LittleEndian.Uint32(buf[4:])
	return n, nil
}
