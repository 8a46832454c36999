package envelope

// The game applies a fixed, keyless XOR scan to the GVAS payload before
// it ever reaches structured-message decoding. Two independent 32-byte
// table pairs exist: one for savegames, one for profiles. The shape is
// the same "index two fixed tables by i mod N and roll in an earlier
// obfuscated byte" idea as the GameServer packet cipher's rolling-XOR key
// schedule (internal/crypto/game_crypt.go in the teacher), generalized
// from a 16-byte rolling key to these fixed 32-byte tables and a
// lag-32 feedback term instead of lag-1.

var savePrefixMagic = [32]byte{
	0x71, 0x34, 0x36, 0xB3, 0x56, 0x63, 0x25, 0x5F,
	0xEA, 0xE2, 0x83, 0x73, 0xF4, 0x98, 0xB8, 0x18,
	0x2E, 0xE5, 0x42, 0x2E, 0x50, 0xA2, 0x0F, 0x49,
	0x87, 0x24, 0xE6, 0x65, 0x9A, 0xF0, 0x7C, 0xD7,
}

var saveXorMagic = [32]byte{
	0x7C, 0x07, 0x69, 0x83, 0x31, 0x7E, 0x0C, 0x82,
	0x5F, 0x2E, 0x36, 0x7F, 0x76, 0xB4, 0xA2, 0x71,
	0x38, 0x2B, 0x6E, 0x87, 0x39, 0x05, 0x02, 0xC6,
	0xCD, 0xD8, 0xB1, 0xCC, 0xA1, 0x33, 0xF9, 0xB6,
}

var profilePrefixMagic = [32]byte{
	0xD8, 0x04, 0xB9, 0x08, 0x5C, 0x4E, 0x2B, 0xC0,
	0x61, 0x9F, 0x7C, 0x8D, 0x5D, 0x34, 0x00, 0x56,
	0xE7, 0x7B, 0x4E, 0xC0, 0xA4, 0xD6, 0xA7, 0x01,
	0x14, 0x15, 0xA9, 0x93, 0x1F, 0x27, 0x2C, 0x8F,
}

var profileXorMagic = [32]byte{
	0xE8, 0xDC, 0x3A, 0x66, 0xF7, 0xEF, 0x85, 0xE0,
	0xBD, 0x4A, 0xA9, 0x73, 0x57, 0x99, 0x30, 0x8C,
	0x94, 0x63, 0x59, 0xA8, 0xC9, 0xAE, 0xD9, 0x58,
	0x7D, 0x51, 0xB0, 0x1E, 0xBE, 0xD0, 0x77, 0x43,
}

// Kind selects which obfuscation table pair applies to a payload.
type Kind int

const (
	// KindSave obfuscates a per-character savegame payload.
	KindSave Kind = iota
	// KindProfile obfuscates the shared profile payload.
	KindProfile
)

func tables(kind Kind) (prefix, xor [32]byte) {
	if kind == KindProfile {
		return profilePrefixMagic, profileXorMagic
	}
	return savePrefixMagic, saveXorMagic
}

// Deobfuscate reverses the container's byte-level obfuscation in place,
// turning the on-disk payload into decryptable structured-message bytes.
// It scans from the last byte to the first, per spec: the key byte for
// index i is the table entry for i<32, or the *still-obfuscated*
// payload byte 32 positions earlier otherwise — still-obfuscated because
// this downward scan hasn't reached that lower index yet.
func Deobfuscate(payload []byte, kind Kind) {
	prefix, xor := tables(kind)
	for i := len(payload) - 1; i >= 0; i-- {
		var k byte
		if i < 32 {
			k = prefix[i]
		} else {
			k = payload[i-32]
		}
		payload[i] ^= k ^ xor[i%32]
	}
}

// Obfuscate is the inverse of Deobfuscate: it scans from the first byte
// to the last, so the key byte for index i>=32 is the payload byte 32
// positions earlier *after* it has already been obfuscated in this same
// scan — matching what Deobfuscate expects to find there on read-back.
func Obfuscate(payload []byte, kind Kind) {
	prefix, xor := tables(kind)
	for i := 0; i < len(payload); i++ {
		var k byte
		if i < 32 {
			k = prefix[i]
		} else {
			k = payload[i-32]
		}
		payload[i] ^= k ^ xor[i%32]
	}
}
