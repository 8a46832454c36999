package errs

import (
	"errors"
	"strings"
	"testing"
)

func TestNewWrapsKindForErrorsIs(t *testing.T) {
	err := New("record.Decode", BadFormat, "offset", 12)
	if !errors.Is(err, BadFormat) {
		t.Fatal("expected errors.Is(err, BadFormat) to hold")
	}
	if errors.Is(err, BadChecksum) {
		t.Fatal("did not expect errors.Is(err, BadChecksum) to hold")
	}
}

func TestErrorMessageIncludesOpAndFields(t *testing.T) {
	err := New("itemserial.Parse", OutOfRange, "level", 150)
	msg := err.Error()
	if msg == "" {
		t.Fatal("expected non-empty error message")
	}
	if want := "itemserial.Parse"; !strings.Contains(msg, want) {
		t.Fatalf("message %q does not mention op %q", msg, want)
	}
	if want := "out of range"; !strings.Contains(msg, want) {
		t.Fatalf("message %q does not mention kind %q", msg, want)
	}
	if want := "level:150"; !strings.Contains(msg, want) {
		t.Fatalf("message %q does not mention field %q", msg, want)
	}
}

func TestErrorMessageWithoutFieldsOmitsFieldMap(t *testing.T) {
	err := New("save.SetMoney", InvariantViolation)
	msg := err.Error()
	const want = "save.SetMoney: invariant violation"
	if msg != want {
		t.Fatalf("message = %q, want %q", msg, want)
	}
}

func TestNewIgnoresOddTrailingKeyAndNonStringKeys(t *testing.T) {
	err := New("op", BadFormat, "a", 1, 2, "b", "dangling")
	if err.Fields["a"] != 1 {
		t.Fatalf("expected field a=1, got %v", err.Fields["a"])
	}
	if len(err.Fields) != 1 {
		t.Fatalf("expected exactly one field, got %v", err.Fields)
	}
}
