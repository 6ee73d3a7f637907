package stream

import (
	"encoding/binary"

	"github.com/saylorsolutions/stonepass/pkg/block"
	"github.com/saylorsolutions/stonepass/pkg/chacha"
	"github.com/saylorsolutions/stonepass/pkg/stonerng"
)

// keyScreen XORs bytes against the keystream of a generator, eight bytes per
// stream word. Reset rebuilds the generator from the retained key and nonce,
// restarting the stream from the beginning.
type keyScreen struct {
	key   chacha.Key
	nonce chacha.Nonce
	gen   *stonerng.Generator
	word  [8]byte
	used  int
}

func newKeyScreen(key *chacha.Key, nonce chacha.Nonce) *keyScreen {
	s := &keyScreen{
		key:   *key,
		nonce: nonce,
	}
	s.reset()
	return s
}

func (s *keyScreen) screen(b byte) byte {
	if s.used == len(s.word) {
		binary.LittleEndian.PutUint64(s.word[:], s.gen.Uint64())
		s.used = 0
	}
	b ^= s.word[s.used]
	s.used++
	return b
}

func (s *keyScreen) reset() {
	if s.gen != nil {
		s.gen.Wipe()
	}
	s.gen = stonerng.New(&s.key, s.nonce, 0)
	s.used = len(s.word)
}

func (s *keyScreen) wipe() {
	s.key.Wipe()
	s.nonce = chacha.Nonce{}
	s.gen.Wipe()
	block.WipeBytes(s.word[:])
	s.used = len(s.word)
}
