package itemserial

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/borderlands3/bl3save/internal/errs"
)

// crc16 derives the 16-bit checksum BL3 stores from the standard IEEE
// CRC-32 of buf, per spec: ((crc32>>16) XOR crc32) & 0xFFFF.
func crc16(buf []byte) uint16 {
	c := crc32.ChecksumIEEE(buf)
	return uint16((c >> 16) ^ c)
}

// crcBuffer builds the byte sequence the checksum is computed over:
// the 5-byte canonical header (version marker + seed), two placeholder
// 0xFF bytes standing in for the CRC field itself, and everything in
// the plaintext body after the 2-byte CRC prefix.
func crcBuffer(header5 []byte, bodyAfterCRC []byte) []byte {
	buf := make([]byte, 0, len(header5)+2+len(bodyAfterCRC))
	buf = append(buf, header5...)
	buf = append(buf, 0xFF, 0xFF)
	buf = append(buf, bodyAfterCRC...)
	return buf
}

// verifyCRC checks the 2-byte big-endian CRC prefix of plaintext
// against the recomputed checksum, failing with errs.BadChecksum on
// mismatch.
func verifyCRC(header5 []byte, plaintext []byte) error {
	const op = "itemserial.verifyCRC"
	if len(plaintext) < 2 {
		return errs.New(op, errs.BadFormat, "reason", "plaintext shorter than CRC prefix")
	}
	want := binary.BigEndian.Uint16(plaintext[:2])
	got := crc16(crcBuffer(header5, plaintext[2:]))
	if want != got {
		return errs.New(op, errs.BadChecksum, "want", want, "got", got)
	}
	return nil
}

// prependCRC computes the CRC-16 for fields (the bit-packed payload,
// without any CRC prefix) under the given seed's canonical header, and
// returns crc || fields.
func prependCRC(seed int32, fields []byte) []byte {
	var header5 [5]byte
	header5[0] = VersionMarker
	binary.BigEndian.PutUint32(header5[1:5], uint32(seed))

	crc := crc16(crcBuffer(header5[:], fields))
	out := make([]byte, 2+len(fields))
	binary.BigEndian.PutUint16(out[:2], crc)
	copy(out[2:], fields)
	return out
}
