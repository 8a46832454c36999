// Package importexport implements the BL3(<base64>) text and CSV item
// serial exchange format described in the external-interfaces section
// of the spec this module implements. Grounded on the teacher's
// internal/protocol line-oriented parsing style (read, trim, skip
// blank/comment lines); a malformed BL3(...) payload aborts the import
// with an error naming its line.
package importexport

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/borderlands3/bl3save/internal/config"
	"github.com/borderlands3/bl3save/internal/errs"
	"github.com/borderlands3/bl3save/internal/itemserial"
	"github.com/borderlands3/bl3save/internal/partdb"
)

// lineMarker matches a line that is, in its entirety, BL3(<base64>),
// ignoring surrounding whitespace.
var lineMarker = regexp.MustCompile(`(?i)^\s*BL3\(([A-Za-z0-9+/=]+)\)\s*$`)

// cellMarker matches BL3(<base64>) anywhere inside a larger string,
// for CSV cell scanning.
var cellMarker = regexp.MustCompile(`(?i)bl3\(([A-Za-z0-9+/=]+)\)`)

// ParseSerial decodes the base64 payload of one BL3(...) marker into
// an obfuscated item serial.
func ParseSerial(base64Body string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(base64Body)
	if err != nil {
		return nil, errs.New("importexport.ParseSerial", errs.BadFormat, "err", err)
	}
	return raw, nil
}

// FormatSerial renders an obfuscated item serial as a BL3(<base64>)
// marker.
func FormatSerial(obfuscated []byte) string {
	return "BL3(" + base64.StdEncoding.EncodeToString(obfuscated) + ")"
}

func isFabricatorBalance(balance string) bool {
	return strings.Contains(strings.ToLower(balance), "fabricator")
}

// acceptItem applies the shared known-balance / Fabricator skip policy
// to a freshly constructed Item, returning a non-empty skip reason
// when the item should be dropped rather than imported.
func acceptItem(item *itemserial.Item, db *partdb.DB, cfg config.Options) string {
	balance := item.Balance()
	if balance == "" {
		return "" // header-unparseable items are still carried opaquely, not skipped
	}
	if _, ok := db.BalanceInvKey(balance); !ok {
		return fmt.Sprintf("unknown balance %q", balance)
	}
	if isFabricatorBalance(balance) && !cfg.AllowFabricator {
		return fmt.Sprintf("Fabricator balance %q (allow_fabricator=false)", balance)
	}
	return ""
}

// ImportText reads newline-delimited BL3(<base64>) lines. Blank lines,
// #/;-commented lines, and any other line that isn't a BL3(...)
// marker are skipped silently rather than failing the import. Items
// with an unknown balance, or a Fabricator balance when
// cfg.AllowFabricator is false, are dropped with a soft stderr warning.
func ImportText(r io.Reader, db *partdb.DB, cfg config.Options) ([]*itemserial.Item, error) {
	const op = "importexport.ImportText"
	var items []*itemserial.Item

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		m := lineMarker.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		obfuscated, err := ParseSerial(m[1])
		if err != nil {
			return nil, errs.New(op, errs.BadFormat, "line", lineNo, "err", err)
		}
		item := itemserial.New(db, obfuscated)
		if reason := acceptItem(item, db, cfg); reason != "" {
			slog.Warn("skipping item on import", "line", lineNo, "reason", reason)
			continue
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.New(op, errs.IoError, "err", err)
	}
	return items, nil
}

// ExportText writes one BL3(<base64>) line per item, re-seeded to 0
// per the codec's "unobfuscated but still CRC-valid" export
// convention (spec: the codec accepts any valid seed on import and
// emits seed=0 on export).
func ExportText(w io.Writer, items []*itemserial.Item) error {
	const op = "importexport.ExportText"
	for _, item := range items {
		reseeded, err := reseedToZero(item.Serial())
		if err != nil {
			return errs.New(op, errs.BadFormat, "err", err)
		}
		if _, err := fmt.Fprintln(w, FormatSerial(reseeded)); err != nil {
			return errs.New(op, errs.IoError, "err", err)
		}
	}
	return nil
}

// reseedToZero rewrites a canonical item serial with seed=0, leaving
// its decoded fields unchanged.
func reseedToZero(canonical []byte) ([]byte, error) {
	plaintext, seed, err := itemserial.Deobfuscate(canonical)
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		return canonical, nil
	}
	return itemserial.Obfuscate(plaintext[2:], 0), nil
}
