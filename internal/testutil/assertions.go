// Package testutil holds small binary-assertion helpers shared across
// this module's codec test suites. Adapted from the teacher's packet
// assertion helpers (same byte/offset-at-a-time style), generalized
// from "packet" to any encoded blob (envelope payload, item serial,
// record message).
package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"
)

// AssertByteAtOffset fails the test unless blob[offset] == expected.
func AssertByteAtOffset(t testing.TB, expected byte, blob []byte, offset int) {
	t.Helper()

	if len(blob) <= offset {
		t.Fatalf("blob too short: need %d bytes, got %d", offset+1, len(blob))
	}
	if actual := blob[offset]; actual != expected {
		t.Fatalf("byte mismatch at offset %d: expected 0x%02X, got 0x%02X", offset, expected, actual)
	}
}

// AssertInt32LE fails the test unless the little-endian int32 at
// offset matches expected.
func AssertInt32LE(t testing.TB, expected int32, blob []byte, offset int) {
	t.Helper()

	if len(blob) < offset+4 {
		t.Fatalf("blob too short: need %d bytes for int32 at offset %d, got %d", offset+4, offset, len(blob))
	}
	if actual := int32(binary.LittleEndian.Uint32(blob[offset:])); actual != expected {
		t.Fatalf("int32 mismatch at offset %d: expected %d, got %d", offset, expected, actual)
	}
}

// AssertInt64LE fails the test unless the little-endian int64 at
// offset matches expected.
func AssertInt64LE(t testing.TB, expected int64, blob []byte, offset int) {
	t.Helper()

	if len(blob) < offset+8 {
		t.Fatalf("blob too short: need %d bytes for int64 at offset %d, got %d", offset+8, offset, len(blob))
	}
	if actual := int64(binary.LittleEndian.Uint64(blob[offset:])); actual != expected {
		t.Fatalf("int64 mismatch at offset %d: expected %d, got %d", offset, expected, actual)
	}
}

// AssertBytesEqual fails the test unless expected and actual hold the
// same bytes, reporting msg as context.
func AssertBytesEqual(t testing.TB, expected, actual []byte, msg string) {
	t.Helper()

	if !bytes.Equal(expected, actual) {
		t.Fatalf("%s: bytes mismatch\nexpected: %v\nactual:   %v", msg, expected, actual)
	}
}

// AssertBlobLength fails the test unless len(blob) == expected.
func AssertBlobLength(t testing.TB, expected int, blob []byte) {
	t.Helper()

	if actual := len(blob); actual != expected {
		t.Fatalf("blob length mismatch: expected %d bytes, got %d bytes", expected, actual)
	}
}

// AssertBlobMinLength fails the test unless len(blob) >= minLength.
func AssertBlobMinLength(t testing.TB, minLength int, blob []byte) {
	t.Helper()

	if actual := len(blob); actual < minLength {
		t.Fatalf("blob too short: expected at least %d bytes, got %d bytes", minLength, actual)
	}
}

// DumpBytes renders blob as a classic hex-dump (offset, hex, ASCII)
// for use in test failure messages.
func DumpBytes(blob []byte) string {
	var buf bytes.Buffer
	for i := 0; i < len(blob); i += 16 {
		end := i + 16
		if end > len(blob) {
			end = len(blob)
		}
		chunk := blob[i:end]

		fmt.Fprintf(&buf, "%04x  ", i)

		for j, b := range chunk {
			if j == 8 {
				buf.WriteString(" ")
			}
			fmt.Fprintf(&buf, "%02x ", b)
		}
		for j := len(chunk); j < 16; j++ {
			if j == 8 {
				buf.WriteString(" ")
			}
			buf.WriteString("   ")
		}

		buf.WriteString(" |")
		for _, b := range chunk {
			if b >= 32 && b <= 126 {
				buf.WriteByte(b)
			} else {
				buf.WriteByte('.')
			}
		}
		buf.WriteString("|\n")
	}
	return buf.String()
}
