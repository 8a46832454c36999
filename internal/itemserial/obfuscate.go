package itemserial

import (
	"encoding/binary"

	"github.com/borderlands3/bl3save/internal/errs"
)

// VersionMarker is the fixed first byte of every canonical (obfuscated)
// item serial.
const VersionMarker = 3

// xorSchedule runs the seed-keyed multiplicative XOR stream over data
// in place. It's self-inverse: running it twice with the same seed is
// a no-op, which is how the encode direction reuses it unchanged.
//
// The shape — a running 32-bit state updated by one multiply-mod step
// per byte, XORed into the byte stream — is the same idea as the
// GameServer rolling-XOR key in the teacher's internal/crypto/game_crypt.go
// (there: additive key-index rotation; here: a linear-congruential-style
// multiplicative step), generalized from a 16-byte repeating key table
// to a single evolving 32-bit register.
func xorSchedule(data []byte, seed int32) {
	if seed == 0 {
		return
	}
	x := uint32(seed) >> 5
	for i := range data {
		x = uint32(uint64(x) * 0x10A860C1 % 0xFFFFFFFB)
		data[i] = byte(uint32(data[i]) ^ x)
	}
}

// rotateRight returns a new slice equal to data rotated right by s
// bytes: the last s bytes move to the front.
func rotateRight(data []byte, s int) []byte {
	n := len(data)
	if n == 0 || s == 0 {
		return append([]byte(nil), data...)
	}
	s %= n
	out := make([]byte, n)
	copy(out, data[n-s:])
	copy(out[s:], data[:n-s])
	return out
}

// rotateLeft returns a new slice equal to data rotated left by s bytes:
// the first s bytes move to the back.
func rotateLeft(data []byte, s int) []byte {
	n := len(data)
	if n == 0 || s == 0 {
		return append([]byte(nil), data...)
	}
	s %= n
	out := make([]byte, n)
	copy(out, data[s:])
	copy(out[n-s:], data[:s])
	return out
}

func rotateAmount(seed int32, bodyLen int) int {
	if bodyLen == 0 {
		return 0
	}
	return int(uint32(seed)&0x1F) % bodyLen
}

// Deobfuscate splits a canonical item serial into its seed and
// plaintext body: version marker check, seed extraction, XOR-then-
// rotate-right reversal, then CRC-16 verification. The returned
// plaintext still carries its 2-byte CRC prefix (callers that only
// need the bit-packed fields should skip it).
func Deobfuscate(serial []byte) (plaintext []byte, seed int32, err error) {
	const op = "itemserial.Deobfuscate"
	if len(serial) < 5 {
		return nil, 0, errs.New(op, errs.BadFormat, "reason", "serial shorter than header", "len", len(serial))
	}
	if serial[0] != VersionMarker {
		return nil, 0, errs.New(op, errs.BadFormat, "reason", "bad version marker", "got", serial[0])
	}
	seed = int32(binary.BigEndian.Uint32(serial[1:5]))
	body := append([]byte(nil), serial[5:]...)

	xorSchedule(body, seed)
	s := rotateAmount(seed, len(body))
	plaintext = rotateRight(body, s)

	if err := verifyCRC(serial[:5], plaintext); err != nil {
		return nil, 0, err
	}
	return plaintext, seed, nil
}

// Obfuscate is the inverse of Deobfuscate: it CRC-prefixes plaintext
// (the caller-supplied body must NOT already carry a CRC — Obfuscate
// computes and prepends it), rotates left, applies the XOR schedule,
// and assembles the canonical [marker, seed, body] serial.
func Obfuscate(fields []byte, seed int32) []byte {
	plaintext := prependCRC(seed, fields)

	s := rotateAmount(seed, len(plaintext))
	body := rotateLeft(plaintext, s)
	xorSchedule(body, seed)

	out := make([]byte, 5+len(body))
	out[0] = VersionMarker
	binary.BigEndian.PutUint32(out[1:5], uint32(seed))
	copy(out[5:], body)
	return out
}
