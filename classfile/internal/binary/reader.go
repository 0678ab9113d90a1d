package binary

import (
	"encoding/binary"

	"github.com/wippyai/classrefs/errors"
)

// Reader is a forward-only cursor over an immutable byte buffer.
// Multi-byte integers are big-endian. A failed read does not advance.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// need reserves n bytes and returns the start offset of the reservation.
func (r *Reader) need(n int) (int, error) {
	if n < 0 || r.Remaining() < n {
		return 0, errors.Truncated(errors.PhaseDecode, r.pos, n, r.Remaining())
	}
	start := r.pos
	r.pos += n
	return start, nil
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() (uint8, error) {
	start, err := r.need(1)
	if err != nil {
		return 0, err
	}
	return r.data[start], nil
}

// ReadU16 reads a big-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	start, err := r.need(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(r.data[start:]), nil
}

// ReadU32 reads a big-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	start, err := r.need(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(r.data[start:]), nil
}

// ReadBytes reads exactly n bytes. The returned slice aliases the
// underlying buffer and must not be modified.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	start, err := r.need(n)
	if err != nil {
		return nil, err
	}
	return r.data[start : start+n : start+n], nil
}

// Skip advances past n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.need(n)
	return err
}

// SkipBlob reads a 32-bit length and skips that many bytes.
// It returns the number of bytes consumed including the length prefix.
func (r *Reader) SkipBlob() (int, error) {
	start := r.pos
	n, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	if int64(n) > int64(r.Remaining()) {
		err := errors.Truncated(errors.PhaseDecode, r.pos, int(n), r.Remaining())
		r.pos = start
		return 0, err
	}
	r.pos += int(n)
	return r.pos - start, nil
}

// Exhausted fails with a trailing data error unless every byte was consumed.
func (r *Reader) Exhausted() error {
	if rem := r.Remaining(); rem > 0 {
		return errors.TrailingData(errors.PhaseDecode, r.pos, rem)
	}
	return nil
}
