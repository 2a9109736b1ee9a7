package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// The opaque parameter is a protobuf-style wire encoding: each field is a
// varint key (field number shifted left three bits, ORed with a wire type)
// followed by either a varint value or a length-prefixed byte run. Only the
// two wire types the remote format uses are implemented.
const (
	wireVarint = 0
	wireBytes  = 2
)

var errTruncated = errors.New("truncated field")

// writer accumulates wire-encoded fields. Fields must be appended in
// ascending field-number order so identical inputs always produce
// identical bytes.
type writer struct {
	buf []byte
}

func (w *writer) varintField(field int, v uint64) {
	w.key(field, wireVarint)
	w.buf = binary.AppendUvarint(w.buf, v)
}

func (w *writer) bytesField(field int, b []byte) {
	w.key(field, wireBytes)
	w.buf = binary.AppendUvarint(w.buf, uint64(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *writer) stringField(field int, s string) {
	w.bytesField(field, []byte(s))
}

func (w *writer) key(field, wireType int) {
	w.buf = binary.AppendUvarint(w.buf, uint64(field)<<3|uint64(wireType))
}

// reader consumes wire-encoded fields from a byte slice.
type reader struct {
	buf []byte
	pos int
}

// next reads one field key. ok is false at a clean end of input; any
// other shortfall is an error.
func (r *reader) next() (field, wireType int, ok bool, err error) {
	if r.pos >= len(r.buf) {
		return 0, 0, false, nil
	}
	key, n := binary.Uvarint(r.buf[r.pos:])
	if n <= 0 {
		return 0, 0, false, fmt.Errorf("field key at offset %d: %w", r.pos, errTruncated)
	}
	r.pos += n
	return int(key >> 3), int(key & 0x7), true, nil
}

func (r *reader) varint() (uint64, error) {
	v, n := binary.Uvarint(r.buf[r.pos:])
	if n <= 0 {
		return 0, fmt.Errorf("varint at offset %d: %w", r.pos, errTruncated)
	}
	r.pos += n
	return v, nil
}

func (r *reader) bytes() ([]byte, error) {
	length, err := r.varint()
	if err != nil {
		return nil, err
	}
	if uint64(len(r.buf)-r.pos) < length {
		return nil, fmt.Errorf("byte run at offset %d wants %d bytes: %w", r.pos, length, errTruncated)
	}
	b := r.buf[r.pos : r.pos+int(length)]
	r.pos += int(length)
	return b, nil
}

// skip discards a field of the given wire type. Unknown fields are
// tolerated so minor remote-format drift does not break decoding.
func (r *reader) skip(wireType int) error {
	switch wireType {
	case wireVarint:
		_, err := r.varint()
		return err
	case wireBytes:
		_, err := r.bytes()
		return err
	default:
		return fmt.Errorf("unsupported wire type %d", wireType)
	}
}
