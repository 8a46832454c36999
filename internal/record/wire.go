// Package record implements the message codec: decoding and encoding
// the two top-level structured records a deobfuscated envelope payload
// carries, Character and Profile, plus their nested submessages.
//
// The wire format is a simple length-prefixed, fixed-field-order
// encoding rather than a byte-compatible reproduction of the game's
// real protobuf schema (recovering the exact field numbers the game
// uses is out of scope — see DESIGN.md). Every record still exposes
// the same field names used in the spec's data model and round-trips
// decode->encode exactly, which is what the core promises.
//
// Grounded on the teacher's internal/gslistener/packet/reader.go
// sequential-typed-read style, generalized here with a matching
// Writer and string/bool/slice helpers.
package record

import (
	"encoding/binary"
	"math"

	"github.com/borderlands3/bl3save/internal/errs"
)

// Reader sequentially decodes fixed-width and length-prefixed fields
// from a byte slice, little-endian, tracking position like the
// teacher's packet.Reader.
type Reader struct {
	data []byte
	pos  int
}

// NewReader wraps data for sequential decoding.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining reports how many unread bytes are left.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

func (r *Reader) need(n int, op string) error {
	if n < 0 || r.pos+n > len(r.data) {
		return errs.New(op, errs.BadFormat, "pos", r.pos, "need", n, "len", len(r.data))
	}
	return nil
}

// ReadByte reads one byte.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.need(1, "record.ReadByte"); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBool reads one byte as a boolean (nonzero is true).
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	return b != 0, err
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	if err := r.need(4, "record.ReadU32"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadI32 reads a little-endian int32.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadF32 reads a little-endian IEEE-754 float32.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	return math.Float32frombits(v), err
}

// ReadBytes reads n raw bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n, "record.ReadBytes"); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// ReadBlob reads a u32-length-prefixed byte string.
func (r *Reader) ReadBlob() ([]byte, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(int(n))
}

// ReadString reads a length-prefixed UTF-8 string using the same
// nil/empty/trailing-NUL convention as the envelope's str encoding
// (see internal/envelope): len==0 -> nil, len==1 -> "", else strip the
// trailing NUL.
func (r *Reader) ReadString() (*string, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	switch {
	case n == 0:
		return nil, nil
	case n == 1:
		s := ""
		return &s, nil
	}
	raw, err := r.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	s := string(raw[:len(raw)-1])
	return &s, nil
}

// Writer is the encode-direction counterpart to Reader.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// WriteByte appends one byte.
func (w *Writer) WriteByte(b byte) {
	w.buf = append(w.buf, b)
}

// WriteBool appends one byte, 1 for true and 0 for false.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
}

// WriteU32 appends a little-endian uint32.
func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteI32 appends a little-endian int32.
func (w *Writer) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

// WriteF32 appends a little-endian IEEE-754 float32.
func (w *Writer) WriteF32(v float32) {
	w.WriteU32(math.Float32bits(v))
}

// WriteBytes appends raw bytes verbatim, with no length prefix.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteBlob appends a u32-length prefix followed by b.
func (w *Writer) WriteBlob(b []byte) {
	w.WriteU32(uint32(len(b)))
	w.WriteBytes(b)
}

// WriteString appends s using the envelope string convention: nil ->
// len 0, empty -> len 1 (no payload), else the UTF-8 bytes plus a
// trailing NUL.
func (w *Writer) WriteString(s *string) {
	if s == nil {
		w.WriteU32(0)
		return
	}
	if *s == "" {
		w.WriteU32(1)
		return
	}
	raw := append([]byte(*s), 0)
	w.WriteU32(uint32(len(raw)))
	w.WriteBytes(raw)
}
