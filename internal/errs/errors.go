// Package errs defines the error kinds shared across the codec and
// mutation layers.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Callers should compare with errors.Is, not
// type assertion — every failure surfaced by this module wraps one
// of these.
var (
	// BadFormat covers a missing/wrong magic, an undecodable structured
	// message, trailing bytes after a length-prefixed payload, a
	// bitstream underrun, unexpected non-zero padding in an item serial,
	// or a nonzero customization count.
	BadFormat = errors.New("bad format")

	// BadChecksum is an item-serial CRC-16 mismatch.
	BadChecksum = errors.New("bad checksum")

	// WrongRecordKind is returned when a Character payload is decoded as
	// a Profile, or vice versa.
	WrongRecordKind = errors.New("wrong record kind")

	// UnknownPart is returned when a caller asks to set a part or
	// generic-part name the part database has no entry for.
	UnknownPart = errors.New("unknown part")

	// InvariantViolation covers playthrough copy/clear requests that
	// would leave a gap, clear a non-terminal playthrough, copy a
	// playthrough onto itself, or unlock a challenge that doesn't exist.
	InvariantViolation = errors.New("invariant violation")

	// OutOfRange covers a level outside [1, max], a negative currency
	// amount, or an item level outside [1, 100].
	OutOfRange = errors.New("out of range")

	// IoError wraps an underlying file read/write failure.
	IoError = errors.New("io error")
)

// Error attaches operation context to one of the sentinel kinds above.
// It unwraps to Kind, so errors.Is(err, errs.BadFormat) works whether
// the caller received an *Error or the bare sentinel.
type Error struct {
	Kind   error
	Op     string
	Fields map[string]any
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v %v", e.Op, e.Kind, e.Fields)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// New builds an *Error for op/kind with optional key-value field pairs,
// e.g. New("itemserial.Parse", BadFormat, "offset", 5).
func New(op string, kind error, kv ...any) *Error {
	e := &Error{Kind: kind, Op: op}
	if len(kv) == 0 {
		return e
	}
	e.Fields = make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e.Fields[key] = kv[i+1]
	}
	return e
}
