package importexport

import (
	"encoding/csv"
	"io"
	"log/slog"

	"github.com/borderlands3/bl3save/internal/config"
	"github.com/borderlands3/bl3save/internal/errs"
	"github.com/borderlands3/bl3save/internal/itemserial"
	"github.com/borderlands3/bl3save/internal/partdb"
)

// ImportCSV scans every cell of every row for a bl3(...) substring
// (case-insensitive), decoding each match into an Item. Cells without
// a match are ignored; the same known-balance/Fabricator skip policy
// as ImportText applies per matched item.
func ImportCSV(r io.Reader, db *partdb.DB, cfg config.Options) ([]*itemserial.Item, error) {
	const op = "importexport.ImportCSV"
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may have a ragged column count

	var items []*itemserial.Item
	rowNo := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.New(op, errs.BadFormat, "row", rowNo, "err", err)
		}
		rowNo++
		for col, cell := range row {
			for _, m := range cellMarker.FindAllStringSubmatch(cell, -1) {
				obfuscated, err := ParseSerial(m[1])
				if err != nil {
					return nil, errs.New(op, errs.BadFormat, "row", rowNo, "col", col, "err", err)
				}
				item := itemserial.New(db, obfuscated)
				if reason := acceptItem(item, db, cfg); reason != "" {
					slog.Warn("skipping item on csv import", "row", rowNo, "col", col, "reason", reason)
					continue
				}
				items = append(items, item)
			}
		}
	}
	return items, nil
}
