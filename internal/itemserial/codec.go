package itemserial

import (
	"github.com/borderlands3/bl3save/internal/bitstream"
	"github.com/borderlands3/bl3save/internal/errs"
	"github.com/borderlands3/bl3save/internal/partdb"
)

// headerSentinel is the fixed first byte of the bit-packed plaintext
// body (distinct from VersionMarker, which is the outer obfuscation
// envelope's first byte).
const headerSentinel = 128

const (
	levelBits      = 7
	versionBits    = 7
	partCountBits  = 6
	genericCntBits = 4
	extraDataBits  = 8
	customCntBits  = 4
)

// header is the always-parseable prefix of an item serial: version,
// the three balance/inventory/manufacturer asset references, and the
// character level.
type header struct {
	Version      int
	Balance      string
	InventoryKey string
	Manufacturer string
	Level        int
}

// parts is the optional, balance-gated tier layered on top of header.
// It's only populated when the balance's inventory key resolves to a
// known part category.
type parts struct {
	PartIndices        []int
	GenericPartIndices []int
	AdditionalData     []byte
}

// decodeHeader reads the fixed-shape header fields from bs. The
// returned opaque tail is every bit left in bs after the header,
// captured for verbatim passthrough when parts aren't touched.
func decodeHeader(bs *bitstream.BitStream, db *partdb.DB) (header, bitstream.Bits, error) {
	const op = "itemserial.decodeHeader"
	var h header

	sentinel, err := bs.Eat(8)
	if err != nil {
		return h, bitstream.Bits{}, errs.New(op, errs.BadFormat, "reason", "truncated before sentinel")
	}
	if sentinel != headerSentinel {
		return h, bitstream.Bits{}, errs.New(op, errs.BadFormat, "reason", "bad sentinel", "got", sentinel)
	}

	version, err := bs.Eat(versionBits)
	if err != nil {
		return h, bitstream.Bits{}, errs.New(op, errs.BadFormat, "reason", "truncated reading version")
	}
	h.Version = int(version)
	if h.Version > db.MaxVersion() {
		// Not an invariant violation: a newer client simply wrote a
		// version this database doesn't know yet. Same opaque-carry
		// outcome as any other header decode failure (UnparseableHeader).
		return h, bitstream.Bits{}, errs.New(op, errs.BadFormat, "reason", "version exceeds max known version", "version", h.Version, "max", db.MaxVersion())
	}

	balance, err := decodeAsset(bs, db, "InventoryBalanceData", h.Version)
	if err != nil {
		return h, bitstream.Bits{}, err
	}
	h.Balance = balance

	invData, err := decodeAsset(bs, db, "InventoryData", h.Version)
	if err != nil {
		return h, bitstream.Bits{}, err
	}
	h.InventoryKey = invData

	manufacturer, err := decodeAsset(bs, db, "ManufacturerData", h.Version)
	if err != nil {
		return h, bitstream.Bits{}, err
	}
	h.Manufacturer = manufacturer

	level, err := bs.Eat(levelBits)
	if err != nil {
		return h, bitstream.Bits{}, errs.New(op, errs.BadFormat, "reason", "truncated reading level")
	}
	h.Level = int(level)

	tail := bs.EatRest()
	return h, tail, nil
}

// decodeAsset eats the category's version-appropriate bit-width and
// resolves it to an asset name. An unresolved index is permitted per
// spec — it degrades to a blank name rather than an error — since the
// fixture/real catalogs may not cover every index a live save exercises.
func decodeAsset(bs *bitstream.BitStream, db *partdb.DB, category string, version int) (string, error) {
	const op = "itemserial.decodeAsset"
	bits, ok := db.GetNumBits(category, version)
	if !ok {
		return "", errs.New(op, errs.UnknownPart, "reason", "unknown category", "category", category)
	}
	idx, err := bs.Eat(bits)
	if err != nil {
		return "", errs.New(op, errs.BadFormat, "reason", "truncated reading index", "category", category)
	}
	name, _ := db.GetPart(category, int(idx))
	return name, nil
}

// decodeParts reads the parts tier from a fresh BitStream built over
// the opaque tail, provided the balance's inventory key resolves to a
// known category. Any structural violation (non-zero trailing bits,
// nonzero customization count) is reported as an error; callers demote
// the item to parts-unparseable rather than propagating it.
func decodeParts(tail bitstream.Bits, db *partdb.DB, invKey string, version int) (parts, error) {
	const op = "itemserial.decodeParts"
	var p parts

	bs := bitstream.FromBits(tail)

	partBits, ok := db.GetNumBits(invKey, version)
	if !ok {
		return p, errs.New(op, errs.UnknownPart, "reason", "unknown parts category", "category", invKey)
	}

	partCount, err := bs.Eat(partCountBits)
	if err != nil {
		return p, errs.New(op, errs.BadFormat, "reason", "truncated reading part count")
	}
	p.PartIndices = make([]int, partCount)
	for i := range p.PartIndices {
		idx, err := bs.Eat(partBits)
		if err != nil {
			return p, errs.New(op, errs.BadFormat, "reason", "truncated reading part index")
		}
		p.PartIndices[i] = int(idx)
	}

	genericBits, ok := db.GetNumBits("InventoryGenericPartData", version)
	if !ok {
		return p, errs.New(op, errs.UnknownPart, "reason", "unknown generic-part category")
	}
	genericCount, err := bs.Eat(genericCntBits)
	if err != nil {
		return p, errs.New(op, errs.BadFormat, "reason", "truncated reading generic-part count")
	}
	p.GenericPartIndices = make([]int, genericCount)
	for i := range p.GenericPartIndices {
		idx, err := bs.Eat(genericBits)
		if err != nil {
			return p, errs.New(op, errs.BadFormat, "reason", "truncated reading generic-part index")
		}
		p.GenericPartIndices[i] = int(idx)
	}

	dataCount, err := bs.Eat(extraDataBits)
	if err != nil {
		return p, errs.New(op, errs.BadFormat, "reason", "truncated reading additional-data count")
	}
	p.AdditionalData = make([]byte, dataCount)
	for i := range p.AdditionalData {
		b, err := bs.Eat(8)
		if err != nil {
			return p, errs.New(op, errs.BadFormat, "reason", "truncated reading additional-data byte")
		}
		p.AdditionalData[i] = byte(b)
	}

	customCount, err := bs.Eat(customCntBits)
	if err != nil {
		return p, errs.New(op, errs.BadFormat, "reason", "truncated reading customization count")
	}
	if customCount != 0 {
		return p, errs.New(op, errs.BadFormat, "reason", "nonzero customization count", "got", customCount)
	}
	if !bs.PeekAllZero() {
		return p, errs.New(op, errs.BadFormat, "reason", "nonzero trailing padding")
	}
	return p, nil
}

// encodeHeader writes the fixed header fields, then appends tail
// verbatim — used when only header fields (level) were mutated.
func encodeHeader(h header, db *partdb.DB, tail bitstream.Bits) ([]byte, error) {
	bs := bitstream.Empty()
	bs.AppendValue(headerSentinel, 8)
	bs.AppendValue(uint32(h.Version), versionBits)

	if err := encodeAsset(bs, db, "InventoryBalanceData", h.Version, h.Balance); err != nil {
		return nil, err
	}
	if err := encodeAsset(bs, db, "InventoryData", h.Version, h.InventoryKey); err != nil {
		return nil, err
	}
	if err := encodeAsset(bs, db, "ManufacturerData", h.Version, h.Manufacturer); err != nil {
		return nil, err
	}
	bs.AppendValue(uint32(h.Level), levelBits)
	bs.AppendBits(tail)
	return bs.GetData(), nil
}

func encodeAsset(bs *bitstream.BitStream, db *partdb.DB, category string, version int, name string) error {
	const op = "itemserial.encodeAsset"
	bits, ok := db.GetNumBits(category, version)
	if !ok {
		return errs.New(op, errs.UnknownPart, "reason", "unknown category", "category", category)
	}
	idx, ok := db.GetPartIndex(category, name)
	if !ok {
		idx = 0
	}
	bs.AppendValue(uint32(idx), bits)
	return nil
}

// encodeFull rewrites header and parts together at db.MaxVersion(), as
// required whenever parts were mutated.
func encodeFull(h header, p parts, db *partdb.DB, invKey string) ([]byte, error) {
	h.Version = db.MaxVersion()
	bs := bitstream.Empty()
	bs.AppendValue(headerSentinel, 8)
	bs.AppendValue(uint32(h.Version), versionBits)

	if err := encodeAsset(bs, db, "InventoryBalanceData", h.Version, h.Balance); err != nil {
		return nil, err
	}
	if err := encodeAsset(bs, db, "InventoryData", h.Version, h.InventoryKey); err != nil {
		return nil, err
	}
	if err := encodeAsset(bs, db, "ManufacturerData", h.Version, h.Manufacturer); err != nil {
		return nil, err
	}
	bs.AppendValue(uint32(h.Level), levelBits)

	partBits, ok := db.GetNumBits(invKey, h.Version)
	if !ok {
		return nil, errs.New("itemserial.encodeFull", errs.UnknownPart, "reason", "unknown parts category", "category", invKey)
	}
	bs.AppendValue(uint32(len(p.PartIndices)), partCountBits)
	for _, idx := range p.PartIndices {
		bs.AppendValue(uint32(idx), partBits)
	}

	genericBits, ok := db.GetNumBits("InventoryGenericPartData", h.Version)
	if !ok {
		return nil, errs.New("itemserial.encodeFull", errs.UnknownPart, "reason", "unknown generic-part category")
	}
	bs.AppendValue(uint32(len(p.GenericPartIndices)), genericCntBits)
	for _, idx := range p.GenericPartIndices {
		bs.AppendValue(uint32(idx), genericBits)
	}

	bs.AppendValue(uint32(len(p.AdditionalData)), extraDataBits)
	for _, b := range p.AdditionalData {
		bs.AppendValue(uint32(b), 8)
	}
	bs.AppendValue(0, customCntBits)

	return bs.GetData(), nil
}
