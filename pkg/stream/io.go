package stream

import (
	"bytes"
	"io"

	"github.com/saylorsolutions/stonepass/pkg/chacha"
)

// Reader extends io.Reader, and provides a way to reuse the key with a
// different source.
type Reader interface {
	io.Reader
	// Reset will use the provided io.Reader and restart the keystream from
	// the beginning.
	Reset(source io.Reader)
	// Wipe destroys the retained key material. The Reader is unusable after.
	Wipe()
}

// Writer extends io.Writer, and provides a way to reuse the key with a
// different target.
type Writer interface {
	io.Writer
	// Reset will use the provided io.Writer and restart the keystream from
	// the beginning.
	Reset(target io.Writer)
	// Wipe destroys the retained key material. The Writer is unusable after.
	Wipe()
}

var _ Reader = (*reader)(nil)

type reader struct {
	source io.Reader
	scr    *keyScreen
}

// NewReader constructs a Reader that XORs all bytes read against the
// keystream of the given key and nonce.
func NewReader(source io.Reader, key *chacha.Key, nonce chacha.Nonce) Reader {
	return &reader{
		source: source,
		scr:    newKeyScreen(key, nonce),
	}
}

func (r *reader) Read(out []byte) (n int, err error) {
	n, err = r.source.Read(out)
	for i := 0; i < n; i++ {
		out[i] = r.scr.screen(out[i])
	}
	return n, err
}

func (r *reader) Reset(source io.Reader) {
	r.source = source
	r.scr.reset()
}

func (r *reader) Wipe() {
	r.scr.wipe()
}

var _ Writer = (*writer)(nil)

type writer struct {
	target io.Writer
	scr    *keyScreen
}

// NewWriter constructs a Writer that XORs all bytes written against the
// keystream of the given key and nonce.
func NewWriter(target io.Writer, key *chacha.Key, nonce chacha.Nonce) Writer {
	return &writer{
		target: target,
		scr:    newKeyScreen(key, nonce),
	}
}

func (w *writer) Write(in []byte) (n int, err error) {
	var buf bytes.Buffer
	buf.Grow(len(in))
	for i := 0; i < len(in); i++ {
		buf.WriteByte(w.scr.screen(in[i]))
	}
	return w.target.Write(buf.Bytes())
}

func (w *writer) Reset(target io.Writer) {
	w.target = target
	w.scr.reset()
}

func (w *writer) Wipe() {
	w.scr.wipe()
}
