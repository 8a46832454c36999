package record

import "testing"

func TestWriteStringReadStringNilEmptyNonEmpty(t *testing.T) {
	cases := []*string{nil, strPtr(""), strPtr("hello")}
	for _, want := range cases {
		w := NewWriter()
		w.WriteString(want)

		r := NewReader(w.Bytes())
		got, err := r.ReadString()
		if err != nil {
			t.Fatalf("ReadString: %v", err)
		}
		if (want == nil) != (got == nil) {
			t.Fatalf("nil-ness mismatch: want %v, got %v", want, got)
		}
		if want != nil && *want != *got {
			t.Fatalf("value mismatch: want %q, got %q", *want, *got)
		}
		if r.Remaining() != 0 {
			t.Fatalf("expected no trailing bytes after ReadString(%v), %d remain", want, r.Remaining())
		}
	}
}

func TestReadStringDoesNotOverreadOnEmptyStringField(t *testing.T) {
	// Two consecutive non-nil empty strings: if ReadString over-reads
	// the first, it eats a byte belonging to the second field.
	first, second := "", ""
	w := NewWriter()
	w.WriteString(&first)
	w.WriteString(&second)
	w.WriteU32(0xCAFEBABE) // a third field that must decode untouched

	r := NewReader(w.Bytes())
	gotFirst, err := r.ReadString()
	if err != nil {
		t.Fatalf("ReadString #1: %v", err)
	}
	if gotFirst == nil || *gotFirst != "" {
		t.Fatalf("first string = %v, want empty string", gotFirst)
	}
	gotSecond, err := r.ReadString()
	if err != nil {
		t.Fatalf("ReadString #2: %v", err)
	}
	if gotSecond == nil || *gotSecond != "" {
		t.Fatalf("second string = %v, want empty string", gotSecond)
	}
	marker, err := r.ReadU32()
	if err != nil {
		t.Fatalf("ReadU32: %v", err)
	}
	if marker != 0xCAFEBABE {
		t.Fatalf("trailing marker = %#x, want 0xCAFEBABE", marker)
	}
}

func TestWriteBlobReadBlobRoundTrip(t *testing.T) {
	want := []byte{1, 2, 3, 4, 5}
	w := NewWriter()
	w.WriteBlob(want)

	r := NewReader(w.Bytes())
	got, err := r.ReadBlob()
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func strPtr(s string) *string { return &s }
