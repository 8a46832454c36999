// Package envelope reads and writes the outer GVAS container that wraps
// every Borderlands 3 savegame and profile file, and applies the
// container's byte-level payload obfuscation (see obfuscation.go).
//
// Grounded on the teacher's internal/protocol/packet.go: a fixed header,
// a length-prefixed body, explicit size checks on every read, bounds
// errors instead of panics.
package envelope

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/borderlands3/bl3save/internal/errs"
)

// Magic is the literal 4-byte signature every envelope must begin with.
const Magic = "GVAS"

// GUID is a raw 16-byte custom-format identifier; the container never
// interprets it beyond carrying it through unchanged.
type GUID [16]byte

// FormatEntry is one (GUID, version) row of the custom-format table.
type FormatEntry struct {
	GUID  GUID
	Entry uint32
}

// Header holds every envelope field except the payload itself.
type Header struct {
	SaveGameVersion     uint32
	PackageVersion      uint32
	EngineMajor         uint16
	EngineMinor         uint16
	EnginePatch         uint16
	EngineChangelist    uint32
	BuildID             *string
	CustomFormatVersion uint32
	CustomFormats       []FormatEntry
	SaveGameType        *string
}

// Envelope is a fully parsed container: header plus the deobfuscated
// payload bytes ready for structured-message decoding.
type Envelope struct {
	Header  Header
	Payload []byte
}

// Read parses one envelope from r and deobfuscates its payload in
// place using the table pair selected by kind. It fails with
// errs.BadFormat on a missing magic, a truncated header, or trailing
// bytes after the declared payload length.
func Read(r io.Reader, kind Kind) (*Envelope, error) {
	const op = "envelope.Read"

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, errs.New(op, errs.BadFormat, "reason", "short magic", "err", err)
	}
	if string(magic[:]) != Magic {
		return nil, errs.New(op, errs.BadFormat, "reason", "bad magic", "got", string(magic[:]))
	}

	var h Header
	var err error
	if h.SaveGameVersion, err = readU32(r); err != nil {
		return nil, errs.New(op, errs.BadFormat, "field", "sg_version", "err", err)
	}
	if h.PackageVersion, err = readU32(r); err != nil {
		return nil, errs.New(op, errs.BadFormat, "field", "pkg_version", "err", err)
	}
	if h.EngineMajor, err = readU16(r); err != nil {
		return nil, errs.New(op, errs.BadFormat, "field", "engine_major", "err", err)
	}
	if h.EngineMinor, err = readU16(r); err != nil {
		return nil, errs.New(op, errs.BadFormat, "field", "engine_minor", "err", err)
	}
	if h.EnginePatch, err = readU16(r); err != nil {
		return nil, errs.New(op, errs.BadFormat, "field", "engine_patch", "err", err)
	}
	if h.EngineChangelist, err = readU32(r); err != nil {
		return nil, errs.New(op, errs.BadFormat, "field", "engine_changelist", "err", err)
	}
	if h.BuildID, err = readStr(r); err != nil {
		return nil, errs.New(op, errs.BadFormat, "field", "build_id", "err", err)
	}
	if h.CustomFormatVersion, err = readU32(r); err != nil {
		return nil, errs.New(op, errs.BadFormat, "field", "fmt_version", "err", err)
	}
	count, err := readU32(r)
	if err != nil {
		return nil, errs.New(op, errs.BadFormat, "field", "fmt_count", "err", err)
	}
	h.CustomFormats = make([]FormatEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		var g GUID
		if _, err := io.ReadFull(r, g[:]); err != nil {
			return nil, errs.New(op, errs.BadFormat, "field", "fmt_guid", "index", i, "err", err)
		}
		entry, err := readU32(r)
		if err != nil {
			return nil, errs.New(op, errs.BadFormat, "field", "fmt_entry", "index", i, "err", err)
		}
		h.CustomFormats = append(h.CustomFormats, FormatEntry{GUID: g, Entry: entry})
	}
	if h.SaveGameType, err = readStr(r); err != nil {
		return nil, errs.New(op, errs.BadFormat, "field", "sg_type", "err", err)
	}

	payloadLen, err := readU32(r)
	if err != nil {
		return nil, errs.New(op, errs.BadFormat, "field", "payload_len", "err", err)
	}
	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, errs.New(op, errs.BadFormat, "field", "payload", "err", err)
	}

	// The file must end exactly here.
	var extra [1]byte
	if n, err := r.Read(extra[:]); err != io.EOF || n != 0 {
		return nil, errs.New(op, errs.BadFormat, "reason", "trailing bytes after payload")
	}

	Deobfuscate(payload, kind)

	return &Envelope{Header: h, Payload: payload}, nil
}

// Write obfuscates a copy of plainPayload with the table pair selected
// by kind and writes the full envelope to w. The input slice is not
// modified.
func Write(w io.Writer, h Header, plainPayload []byte, kind Kind) error {
	const op = "envelope.Write"

	payload := append([]byte(nil), plainPayload...)
	Obfuscate(payload, kind)

	var buf bytes.Buffer
	buf.WriteString(Magic)
	writeU32(&buf, h.SaveGameVersion)
	writeU32(&buf, h.PackageVersion)
	writeU16(&buf, h.EngineMajor)
	writeU16(&buf, h.EngineMinor)
	writeU16(&buf, h.EnginePatch)
	writeU32(&buf, h.EngineChangelist)
	writeStr(&buf, h.BuildID)
	writeU32(&buf, h.CustomFormatVersion)
	writeU32(&buf, uint32(len(h.CustomFormats)))
	for _, f := range h.CustomFormats {
		buf.Write(f.GUID[:])
		writeU32(&buf, f.Entry)
	}
	writeStr(&buf, h.SaveGameType)
	writeU32(&buf, uint32(len(payload)))
	buf.Write(payload)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return errs.New(op, errs.IoError, "err", err)
	}
	return nil
}

func readU32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readU16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func writeU32(w io.Writer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func writeU16(w io.Writer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.Write(b[:])
}

// readStr implements the len==0 -> nil, len==1 -> "", else
// (len bytes UTF-8, trailing NUL stripped) convention.
func readStr(r io.Reader) (*string, error) {
	n, err := readU32(r)
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
	raw := make([]byte, n)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, err
	}
	if raw[len(raw)-1] != 0 {
		return nil, fmt.Errorf("string missing trailing NUL")
	}
	s := string(raw[:len(raw)-1])
	return &s, nil
}

func writeStr(w io.Writer, s *string) {
	switch {
	case s == nil:
		writeU32(w, 0)
	case *s == "":
		writeU32(w, 1)
	default:
		data := append([]byte(*s), 0)
		writeU32(w, uint32(len(data)))
		w.Write(data)
	}
}
