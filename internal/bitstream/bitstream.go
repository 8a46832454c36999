// Package bitstream implements the bit-granular packing convention used
// by Borderlands 3 item serials: byte 0 holds the least-significant
// group of bits, and within each byte bit 0 (LSB) is consumed first.
// Equivalently, the buffer is an MSB-first bitstring of the reversed
// byte order.
package bitstream

import (
	"fmt"

	"github.com/borderlands3/bl3save/internal/errs"
)

// Bits is an opaque, previously-captured run of bits, as returned by
// EatRest and accepted verbatim by AppendBits. Its zero value is an
// empty run.
type Bits struct {
	bits []bool
}

// Len returns the number of bits captured.
func (b Bits) Len() int {
	return len(b.bits)
}

// BitStream reads and writes arbitrary-width unsigned integers over a
// byte buffer using the convention described in the package doc. A
// BitStream is not safe for concurrent use.
type BitStream struct {
	bits []bool // bit 0 is the next bit Eat will consume; new bits are appended at the back
}

// New wraps raw for reading, loading its bits LSB-first starting from
// byte 0.
func New(raw []byte) *BitStream {
	bs := &BitStream{bits: make([]bool, 0, len(raw)*8)}
	for _, b := range raw {
		for i := 0; i < 8; i++ {
			bs.bits = append(bs.bits, (b>>uint(i))&1 == 1)
		}
	}
	return bs
}

// Empty returns a BitStream with no bits, ready for AppendValue/AppendBits.
func Empty() *BitStream {
	return &BitStream{}
}

// FromBits wraps a previously captured Bits run for reading, without
// any byte re-packing — the inverse of EatRest.
func FromBits(b Bits) *BitStream {
	return &BitStream{bits: append([]bool(nil), b.bits...)}
}

// Len returns the number of unconsumed bits.
func (bs *BitStream) Len() int {
	return len(bs.bits)
}

// Eat consumes n (0 <= n <= 32) bits from the front and returns them as
// an unsigned integer, least-significant bit first. It fails with
// errs.BadFormat if fewer than n bits remain.
func (bs *BitStream) Eat(n int) (uint32, error) {
	if n < 0 || n > 32 {
		return 0, errs.New("bitstream.Eat", errs.BadFormat, "n", n)
	}
	if n == 0 {
		return 0, nil
	}
	if len(bs.bits) < n {
		return 0, errs.New("bitstream.Eat", errs.BadFormat, "want", n, "have", len(bs.bits))
	}
	var v uint32
	for i := 0; i < n; i++ {
		if bs.bits[i] {
			v |= 1 << uint(i)
		}
	}
	bs.bits = bs.bits[n:]
	return v, nil
}

// AppendValue writes the low n bits of v (LSB first) at the back of the
// stream.
func (bs *BitStream) AppendValue(v uint32, n int) {
	for i := 0; i < n; i++ {
		bs.bits = append(bs.bits, (v>>uint(i))&1 == 1)
	}
}

// EatRest consumes every remaining bit and returns it as an opaque Bits
// value, for later verbatim re-emission via AppendBits.
func (bs *BitStream) EatRest() Bits {
	rest := Bits{bits: append([]bool(nil), bs.bits...)}
	bs.bits = bs.bits[:0]
	return rest
}

// PeekAllZero reports whether every remaining bit is zero, without
// consuming them — used to verify the item-serial trailing-padding
// invariant.
func (bs *BitStream) PeekAllZero() bool {
	for _, bit := range bs.bits {
		if bit {
			return false
		}
	}
	return true
}

// AppendBits appends a previously captured tail of bits verbatim.
func (bs *BitStream) AppendBits(b Bits) {
	bs.bits = append(bs.bits, b.bits...)
}

// GetData flushes the stream to a byte buffer, zero-padded at the high
// end if the bit count isn't a multiple of 8.
func (bs *BitStream) GetData() []byte {
	n := len(bs.bits)
	out := make([]byte, (n+7)/8)
	for i, bit := range bs.bits {
		if bit {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

// String renders the remaining bits for debugging, most-significant
// (last appended) bit first.
func (bs *BitStream) String() string {
	out := make([]byte, len(bs.bits))
	for i, bit := range bs.bits {
		c := byte('0')
		if bit {
			c = '1'
		}
		out[len(bs.bits)-1-i] = c
	}
	return fmt.Sprintf("%s (%d bits)", out, len(bs.bits))
}
