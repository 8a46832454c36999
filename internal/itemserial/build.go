package itemserial

import (
	"github.com/borderlands3/bl3save/internal/errs"
	"github.com/borderlands3/bl3save/internal/partdb"
)

// Build assembles a brand-new canonical item serial from typed fields,
// resolving part names through db rather than requiring the caller to
// already hold indices. Complements New/Item, which only wrap a serial
// a caller already has in hand (imported from text, copied from
// another save); Build is for minting one from scratch. invKey is the
// InventoryData path written into the header; the parts category is
// looked up from balance. An unknown balance or part name fails with
// UnknownPart.
func Build(db *partdb.DB, balance, invKey, manufacturer string, level int, partNames, genericPartNames []string, seed int32) ([]byte, error) {
	const op = "itemserial.Build"
	partsKey, ok := db.BalanceInvKey(balance)
	if !ok {
		return nil, errs.New(op, errs.UnknownPart, "balance", balance)
	}
	h := header{
		Version:      db.MaxVersion(),
		Balance:      balance,
		InventoryKey: invKey,
		Manufacturer: manufacturer,
		Level:        level,
	}

	var p parts
	for _, name := range partNames {
		idx, ok := db.GetPartIndex(partsKey, name)
		if !ok {
			return nil, errs.New(op, errs.UnknownPart, "part", name)
		}
		p.PartIndices = append(p.PartIndices, idx)
	}
	for _, name := range genericPartNames {
		idx, ok := db.GetPartIndex("InventoryGenericPartData", name)
		if !ok {
			return nil, errs.New(op, errs.UnknownPart, "part", name)
		}
		p.GenericPartIndices = append(p.GenericPartIndices, idx)
	}

	body, err := encodeFull(h, p, db, partsKey)
	if err != nil {
		return nil, err
	}
	return Obfuscate(body, seed), nil
}
