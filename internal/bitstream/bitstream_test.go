package bitstream

import "testing"

func TestEatRoundTripsAppendValue(t *testing.T) {
	bs := Empty()
	bs.AppendValue(0x1A, 5) // 0x1A fits in 5 bits (0..31)
	bs.AppendValue(7, 3)

	got, err := bs.Eat(5)
	if err != nil {
		t.Fatalf("Eat(5): %v", err)
	}
	if want := uint32(0x1A); got != want {
		t.Fatalf("first field = %#x, want %#x", got, want)
	}
	got, err = bs.Eat(3)
	if err != nil {
		t.Fatalf("Eat(3): %v", err)
	}
	if want := uint32(7); got != want {
		t.Fatalf("second field = %d, want %d", got, want)
	}
	if bs.Len() != 0 {
		t.Fatalf("expected stream exhausted, %d bits remain", bs.Len())
	}
}

func TestEatFailsWhenTooFewBitsRemain(t *testing.T) {
	bs := Empty()
	bs.AppendValue(1, 2)
	if _, err := bs.Eat(10); err == nil {
		t.Fatal("expected error eating past the end of the stream")
	}
}

func TestEatRejectsWidthOutOfRange(t *testing.T) {
	bs := New([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	if _, err := bs.Eat(-1); err == nil {
		t.Fatal("expected error for negative width")
	}
	if _, err := bs.Eat(33); err == nil {
		t.Fatal("expected error for width > 32")
	}
}

func TestEatZeroWidthReturnsZeroWithoutConsuming(t *testing.T) {
	bs := New([]byte{0xFF})
	v, err := bs.Eat(0)
	if err != nil {
		t.Fatalf("Eat(0): %v", err)
	}
	if v != 0 {
		t.Fatalf("Eat(0) = %d, want 0", v)
	}
	if bs.Len() != 8 {
		t.Fatalf("Eat(0) consumed bits: %d remain, want 8", bs.Len())
	}
}

func TestNewLoadsLSBFirstPerByte(t *testing.T) {
	// byte 0 = 0b00000001 -> bit 0 is the first bit Eat sees.
	bs := New([]byte{0x01})
	v, err := bs.Eat(1)
	if err != nil {
		t.Fatalf("Eat(1): %v", err)
	}
	if v != 1 {
		t.Fatalf("first bit = %d, want 1", v)
	}
	rest, err := bs.Eat(7)
	if err != nil {
		t.Fatalf("Eat(7): %v", err)
	}
	if rest != 0 {
		t.Fatalf("remaining bits = %d, want 0", rest)
	}
}

func TestGetDataRoundTripsThroughNew(t *testing.T) {
	raw := []byte{0x12, 0x34, 0x56}
	bs := New(raw)
	out := bs.GetData()
	if len(out) != len(raw) {
		t.Fatalf("GetData length = %d, want %d", len(out), len(raw))
	}
	for i := range raw {
		if out[i] != raw[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, out[i], raw[i])
		}
	}
}

func TestGetDataZeroPadsPartialFinalByte(t *testing.T) {
	bs := Empty()
	bs.AppendValue(0x3, 3) // 3 bits: 011
	out := bs.GetData()
	if len(out) != 1 {
		t.Fatalf("GetData length = %d, want 1", len(out))
	}
	if out[0] != 0x3 {
		t.Fatalf("GetData = %#x, want %#x", out[0], 0x3)
	}
}

func TestEatRestAndAppendBitsRoundTrip(t *testing.T) {
	bs := New([]byte{0xAB, 0xCD})
	_, err := bs.Eat(4)
	if err != nil {
		t.Fatalf("Eat(4): %v", err)
	}
	rest := bs.EatRest()
	if bs.Len() != 0 {
		t.Fatalf("expected stream drained after EatRest, %d bits remain", bs.Len())
	}
	if rest.Len() != 12 {
		t.Fatalf("captured rest length = %d, want 12", rest.Len())
	}

	replayed := FromBits(rest)
	if replayed.Len() != 12 {
		t.Fatalf("replayed length = %d, want 12", replayed.Len())
	}

	dst := Empty()
	dst.AppendValue(0xF, 4)
	dst.AppendBits(rest)
	if dst.Len() != 16 {
		t.Fatalf("dst length after AppendBits = %d, want 16", dst.Len())
	}
}

func TestPeekAllZero(t *testing.T) {
	zeros := Empty()
	zeros.AppendValue(0, 5)
	if !zeros.PeekAllZero() {
		t.Fatal("expected all-zero stream to report PeekAllZero true")
	}
	if zeros.Len() != 5 {
		t.Fatalf("PeekAllZero must not consume bits, %d remain, want 5", zeros.Len())
	}

	nonzero := Empty()
	nonzero.AppendValue(1, 5)
	if nonzero.PeekAllZero() {
		t.Fatal("expected non-zero stream to report PeekAllZero false")
	}
}

func TestStringRendersMostSignificantBitFirst(t *testing.T) {
	bs := Empty()
	bs.AppendValue(0b101, 3)
	s := bs.String()
	const want = "101 (3 bits)"
	if s != want {
		t.Fatalf("String() = %q, want %q", s, want)
	}
}
