package chacha

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/chacha20"

	"github.com/saylorsolutions/stonepass/pkg/block"
)

func testKey(t *testing.T) *Key {
	t.Helper()
	raw := make([]byte, KeySize)
	for i := range raw {
		raw[i] = byte(i)
	}
	kb, err := block.NewBlock32(raw)
	require.NoError(t, err)
	k := KeyFromBytes(&kb)
	return &k
}

// Quarter-round vector from RFC 8439 section 2.1.1.
func TestQuarterRound(t *testing.T) {
	x := []uint32{0x11111111, 0x01020304, 0x9b8d6f43, 0x01234567}
	QR(x, 0, 1, 2, 3)
	assert.Equal(t, []uint32{0xea2a92f4, 0xcb1cf8ce, 0x4581472e, 0x5881c4bb}, x)
}

// Block-function vector from RFC 8439 section 2.3.2 (IETF layout, counter 1).
func TestPermute_RFC8439Block(t *testing.T) {
	key := testKey(t)
	nonce := Nonce96{0x09000000, 0x4a000000, 0x00000000}

	state := BuildStateIETF(key, nonce, 1)
	PermuteBlock(&state)

	want := [16]uint32{
		0xe4e7f110, 0x15593bd1, 0x1fdd0f50, 0xc47120a3,
		0xc7f4d1c7, 0x0368c033, 0x9aaa2204, 0x4e6cd4c3,
		0x466482d2, 0x09aa9f07, 0x05d7c214, 0xa2028bd9,
		0xd19c12b5, 0xb94e16de, 0xe883d0cb, 0x4e3c50a2,
	}
	assert.Equal(t, want, state.Words())
}

// The IETF-layout keystream must match golang.org/x/crypto/chacha20 exactly.
func TestPermute_MatchesReferenceChaCha20(t *testing.T) {
	keyBytes := make([]byte, KeySize)
	nonceBytes := make([]byte, chacha20.NonceSize)
	_, err := rand.Read(keyBytes)
	require.NoError(t, err)
	_, err = rand.Read(nonceBytes)
	require.NoError(t, err)

	ref, err := chacha20.NewUnauthenticatedCipher(keyBytes, nonceBytes)
	require.NoError(t, err)
	refStream := make([]byte, 2*block.Size64)
	ref.XORKeyStream(refStream, make([]byte, 2*block.Size64))

	kb, err := block.NewBlock32(keyBytes)
	require.NoError(t, err)
	key := KeyFromBytes(&kb)
	nonce := Nonce96{
		binary.LittleEndian.Uint32(nonceBytes[0:]),
		binary.LittleEndian.Uint32(nonceBytes[4:]),
		binary.LittleEndian.Uint32(nonceBytes[8:]),
	}

	for counter := uint32(0); counter < 2; counter++ {
		state := BuildStateIETF(&key, nonce, counter)
		PermuteBlock(&state)
		off := int(counter) * block.Size64
		assert.True(t, bytes.Equal(state[:], refStream[off:off+block.Size64]),
			"keystream block %d differs from x/crypto/chacha20", counter)
	}
}

func TestBuildState_BernsteinLayout(t *testing.T) {
	key := testKey(t)
	state := BuildState(key, Nonce{0xaabbccdd, 0x11223344}, 0x0123456789abcdef)
	ws := state.Words()

	assert.Equal(t, constants, [4]uint32(ws[0:4]))
	assert.Equal(t, key[:], ws[4:12])
	assert.Equal(t, uint32(0x89abcdef), ws[12], "counter low word")
	assert.Equal(t, uint32(0x01234567), ws[13], "counter high word")
	assert.Equal(t, uint32(0xaabbccdd), ws[14])
	assert.Equal(t, uint32(0x11223344), ws[15])
}

func TestPermute_NotIdempotent(t *testing.T) {
	key := testKey(t)
	state := BuildState(key, Nonce{1, 2}, 3)

	once := state
	PermuteBlock(&once)
	twice := once
	PermuteBlock(&twice)

	assert.False(t, once.Equal(&state))
	assert.False(t, twice.Equal(&once))
}

// The 20-round mix before the feed-forward must not collapse distinct random
// inputs. Collisions here would mean the rounds lose state, which would be a
// catastrophic implementation bug, not a statistical fluke.
func TestPermute_CoreDoesNotCollapse(t *testing.T) {
	const samples = 4096
	seen := make(map[[16]uint32]struct{}, samples)
	raw := make([]byte, block.Size64)
	for i := 0; i < samples; i++ {
		_, err := rand.Read(raw)
		require.NoError(t, err)
		b, err := block.NewBlock64(raw)
		require.NoError(t, err)

		in := b.Words()
		out := in
		Permute(&out)
		// Subtract the feed-forward to observe the raw 20-round mix.
		var core [16]uint32
		for j := range core {
			core[j] = out[j] - in[j]
		}
		_, dup := seen[core]
		assert.False(t, dup, "round function collapsed two inputs")
		seen[core] = struct{}{}
	}
}

func TestPermute_InPlaceSafe(t *testing.T) {
	key := testKey(t)
	state := BuildState(key, Nonce{7, 8}, 9)

	viaWords := state.Words()
	Permute(&viaWords)

	PermuteBlock(&state)
	assert.Equal(t, viaWords, state.Words())
}

func TestGenerateKeyNonce(t *testing.T) {
	src := bytes.NewReader(bytes.Repeat([]byte{0x42}, KeySize+NonceSize))
	k, err := GenerateKey(src)
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x42424242), k[0])

	n, err := GenerateNonce(src)
	assert.NoError(t, err)
	assert.Equal(t, Nonce{0x42424242, 0x42424242}, n)

	_, err = GenerateKey(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrEntropyShort)
	_, err = GenerateNonce(bytes.NewReader([]byte{1}))
	assert.ErrorIs(t, err, ErrEntropyShort)
}

func TestKey_BytesRoundTrip(t *testing.T) {
	k := testKey(t)
	b := k.Bytes()
	back := KeyFromBytes(&b)
	assert.Equal(t, *k, back)

	back.Wipe()
	assert.Equal(t, Key{}, back)
}
