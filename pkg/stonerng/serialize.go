package stonerng

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"

	bin "github.com/saylorsolutions/binmap"
)

const (
	// RecordSize is the length of a serialized generator in bytes.
	RecordSize = 65
	// recordMagic is "StoneRNG" read as a little-endian uint64.
	recordMagic uint64 = 0x474e52656e6f7453

	recordVersion uint8 = 1
)

var (
	ErrInvalidRecord      = errors.New("invalid or corrupted generator record")
	ErrUnsupportedVersion = errors.New("unsupported generator record version")
)

var (
	_ encoding.BinaryMarshaler   = (*Generator)(nil)
	_ encoding.BinaryUnmarshaler = (*Generator)(nil)
)

// record is the on-the-wire layout: magic, version, key, nonce, counter,
// consumption index, and seven reserved zero bytes. 65 bytes total.
type record struct {
	magic    uint64
	version  uint8
	key      [8]uint32
	nonce    [2]uint32
	counter  uint64
	index    uint8
	reserved [7]uint8
}

func (r *record) mapper() bin.Mapper {
	seq := []bin.Mapper{
		bin.Int(&r.magic),
		bin.Byte(&r.version),
	}
	for i := range r.key {
		seq = append(seq, bin.Int(&r.key[i]))
	}
	for i := range r.nonce {
		seq = append(seq, bin.Int(&r.nonce[i]))
	}
	seq = append(seq, bin.Int(&r.counter), bin.Byte(&r.index))
	for i := range r.reserved {
		seq = append(seq, bin.Byte(&r.reserved[i]))
	}
	return bin.MapSequence(seq...)
}

// MarshalBinary serializes the complete generator state as a 65-byte record.
//
// The record contains the raw 256-bit key: it lets the holder predict every
// future output of this generator. Persist it only in trusted, encrypted
// contexts.
func (g *Generator) MarshalBinary() ([]byte, error) {
	r := record{
		magic:   recordMagic,
		version: recordVersion,
		key:     [8]uint32(g.key),
		nonce:   [2]uint32(g.nonce),
		counter: g.counter,
		index:   uint8(g.index),
	}
	var buf bytes.Buffer
	buf.Grow(RecordSize)
	if err := r.mapper().Write(&buf, binary.LittleEndian); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary restores a generator from a record produced by
// MarshalBinary, reconstructing the output buffer so the stream resumes at
// exactly the serialized position.
//
// A bad magic, version, or index makes the whole record untrustworthy; the
// caller must discard it.
func (g *Generator) UnmarshalBinary(data []byte) error {
	if len(data) != RecordSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidRecord, len(data), RecordSize)
	}
	var r record
	if err := r.mapper().Read(bytes.NewReader(data), binary.LittleEndian); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if r.magic != recordMagic {
		return fmt.Errorf("%w: bad magic", ErrInvalidRecord)
	}
	if r.version != recordVersion {
		return fmt.Errorf("%w: version %d", ErrUnsupportedVersion, r.version)
	}
	if r.index > wordsPerBuffer {
		return fmt.Errorf("%w: index %d out of range", ErrInvalidRecord, r.index)
	}

	g.key = r.key
	g.nonce = r.nonce
	g.counter = r.counter
	g.index = int(r.index)
	g.buffer = [64]byte{}

	if g.index < wordsPerBuffer {
		// Mid-buffer state: the buffer was generated from counter-1, so
		// rewind and re-run that refill.
		if g.counter == 0 {
			return fmt.Errorf("%w: mid-buffer index with counter 0", ErrInvalidRecord)
		}
		saved := g.index
		g.counter--
		g.refill()
		g.index = saved
	}
	return nil
}
