package itemserial

import (
	"github.com/borderlands3/bl3save/internal/bitstream"
	"github.com/borderlands3/bl3save/internal/errs"
	"github.com/borderlands3/bl3save/internal/partdb"
)

// Tier tracks how far an Item's lazy parse has progressed. Parsing
// happens on first accessor/mutator demand, not at construction: a
// save with thousands of items should not pay the bit-stream parse
// cost for items the caller never inspects.
type Tier int

const (
	// Unparsed means the canonical serial has not been touched yet.
	Unparsed Tier = iota
	// HeaderOnly means the header parsed but the parts tier either
	// hasn't been attempted yet or the balance's category is unknown.
	HeaderOnly
	// WithParts means both header and parts parsed cleanly.
	WithParts
	// UnparseableHeader means the header itself failed to parse (bad
	// sentinel, version newer than the database knows); the item is
	// carried opaquely and every mutator fails.
	UnparseableHeader
	// UnparseableParts means the header parsed but the parts tier
	// violated an invariant (nonzero customization count, nonzero
	// padding); level edits still work but Mayhem/anointment edits fail.
	UnparseableParts
)

// Item wraps one item_serial_number: a lazily-parsed view over the
// canonical (obfuscated) serial bytes, with typed accessors for the
// fields callers actually mutate. Grounded on the teacher's
// internal/model/character.go clamp-then-set accessor/mutator style,
// generalized here to also gate on parse tier.
type Item struct {
	db *partdb.DB

	canonical []byte // last known-good obfuscated serial
	seed      int32

	tier   Tier
	header header
	tail   bitstream.Bits
	parts  parts
	invKey string // resolved parts category for header.InventoryKey, "" if none

	partsDirty bool // parts mutated since last encode; forces encodeFull at MaxVersion
}

// New builds an Item from a canonical (obfuscated) serial, deferring
// any bit-stream parse until first use.
func New(db *partdb.DB, canonical []byte) *Item {
	return &Item{db: db, canonical: append([]byte(nil), canonical...)}
}

// Tier reports the item's current parse tier without forcing a parse.
func (it *Item) Tier() Tier {
	return it.tier
}

func (it *Item) ensureHeader() error {
	if it.tier == UnparseableHeader {
		return errs.New("itemserial.ensureHeader", errs.BadFormat, "reason", "header is unparseable")
	}
	if it.tier != Unparsed {
		return nil
	}
	plaintext, seed, err := Deobfuscate(it.canonical)
	if err != nil {
		it.tier = UnparseableHeader
		return err
	}
	it.seed = seed

	bs := bitstream.New(plaintext[2:]) // skip CRC prefix
	h, tail, err := decodeHeader(bs, it.db)
	if err != nil {
		it.tier = UnparseableHeader
		return err
	}
	it.header = h
	it.tail = tail
	it.tier = HeaderOnly
	return nil
}

func (it *Item) ensureParts() error {
	if err := it.ensureHeader(); err != nil {
		return err
	}
	if it.tier == WithParts {
		return nil
	}
	if it.tier == UnparseableParts {
		return errs.New("itemserial.ensureParts", errs.BadFormat, "reason", "parts tier is unparseable")
	}
	invKey, ok := it.db.BalanceInvKey(it.header.Balance)
	if !ok {
		// No known category for this balance: stays HeaderOnly, parts
		// edits simply aren't available.
		return errs.New("itemserial.ensureParts", errs.UnknownPart, "balance", it.header.Balance)
	}
	it.invKey = invKey

	p, err := decodeParts(it.tail, it.db, invKey, it.header.Version)
	if err != nil {
		it.tier = UnparseableParts
		return err
	}
	it.parts = p
	it.tier = WithParts
	return nil
}

// Balance returns the item's balance asset path. Requires at least a
// header parse; returns "" if the header is unparseable.
func (it *Item) Balance() string {
	if it.ensureHeader() != nil {
		return ""
	}
	return it.header.Balance
}

// EngName returns the English display name for the item's balance,
// falling back to the short balance name when the name database has
// no entry.
func (it *Item) EngName() string {
	if it.ensureHeader() != nil {
		return ""
	}
	short := partdb.ShortBalanceName(it.header.Balance)
	if name, ok := it.db.BalanceEnglishName(short); ok {
		return name
	}
	return shortName(it.header.Balance)
}

// Level returns the item's level field from the header.
func (it *Item) Level() (int, error) {
	if err := it.ensureHeader(); err != nil {
		return 0, err
	}
	return it.header.Level, nil
}

// SetLevel sets the item's level field; a level outside [1, 100] is
// rejected with OutOfRange and leaves the item unchanged. Only the
// header needs to parse cleanly; parts state (or its absence) is
// unaffected. If the parts tier has already been parsed, re-encoding
// goes through the full header+parts path so a pending parts mutation
// (SetMayhemTier/SetAnointment) isn't discarded by replaying the stale
// pre-mutation tail.
func (it *Item) SetLevel(level int) error {
	const op = "itemserial.SetLevel"
	if err := it.ensureHeader(); err != nil {
		return err
	}
	if level < 1 || level > 100 {
		return errs.New(op, errs.OutOfRange, "level", level)
	}
	it.header.Level = level
	if it.tier == WithParts {
		return it.reencodeFull()
	}
	return it.reencodeHeaderOnly()
}

// MayhemTier scans the item's generic parts for a known Mayhem marker,
// returning 0 if none is present or the parts tier can't be read.
func (it *Item) MayhemTier() int {
	if it.ensureParts() != nil {
		return 0
	}
	for _, idx := range it.parts.GenericPartIndices {
		name, ok := it.db.GetPart("InventoryGenericPartData", idx)
		if !ok {
			continue
		}
		if tier, ok := mayhemTierOf(name); ok {
			return tier
		}
	}
	return 0
}

// SetMayhemTier removes any existing Mayhem generic part, then (unless
// tier is 0) appends the part for the requested tier. Fails if the
// item's parts tier isn't parseable or doesn't accept Mayhem parts, or
// if tier has no known generic part.
func (it *Item) SetMayhemTier(tier int) error {
	const op = "itemserial.SetMayhemTier"
	if err := it.ensureParts(); err != nil {
		return err
	}
	if !CanHaveMayhem(it.header.InventoryKey) {
		return errs.New(op, errs.InvariantViolation, "reason", "item type cannot carry a Mayhem tier", "inventoryKey", it.header.InventoryKey)
	}

	filtered := it.parts.GenericPartIndices[:0:0]
	for _, idx := range it.parts.GenericPartIndices {
		name, ok := it.db.GetPart("InventoryGenericPartData", idx)
		if ok {
			if _, isMayhem := mayhemTierOf(name); isMayhem {
				continue
			}
		}
		filtered = append(filtered, idx)
	}
	it.parts.GenericPartIndices = filtered

	if tier != 0 {
		name, ok := mayhemPartName(tier)
		if !ok {
			return errs.New(op, errs.UnknownPart, "reason", "no generic part for tier", "tier", tier)
		}
		idx, ok := it.db.GetPartIndex("InventoryGenericPartData", name)
		if !ok {
			return errs.New(op, errs.UnknownPart, "reason", "tier part not in part database", "part", name)
		}
		it.parts.GenericPartIndices = append(it.parts.GenericPartIndices, idx)
	}

	it.partsDirty = true
	return it.reencodeFull()
}

// Anointment returns the name of the item's non-Mayhem generic part,
// if any.
func (it *Item) Anointment() (string, bool) {
	if it.ensureParts() != nil {
		return "", false
	}
	for _, idx := range it.parts.GenericPartIndices {
		name, ok := it.db.GetPart("InventoryGenericPartData", idx)
		if !ok {
			continue
		}
		if _, isMayhem := mayhemTierOf(name); !isMayhem {
			return name, true
		}
	}
	return "", false
}

// SetAnointment removes any existing non-Mayhem generic part, then
// prepends the named anointment part. The caller is responsible for
// anointment legality beyond the inventory-key gate CanHaveAnointment
// enforces.
func (it *Item) SetAnointment(partName string) error {
	const op = "itemserial.SetAnointment"
	if err := it.ensureParts(); err != nil {
		return err
	}
	if !CanHaveAnointment(it.header.InventoryKey) {
		return errs.New(op, errs.InvariantViolation, "reason", "item type cannot carry an anointment", "inventoryKey", it.header.InventoryKey)
	}

	filtered := it.parts.GenericPartIndices[:0:0]
	for _, idx := range it.parts.GenericPartIndices {
		name, ok := it.db.GetPart("InventoryGenericPartData", idx)
		if ok {
			if _, isMayhem := mayhemTierOf(name); !isMayhem {
				continue
			}
		}
		filtered = append(filtered, idx)
	}

	idx, ok := it.db.GetPartIndex("InventoryGenericPartData", partName)
	if !ok {
		return errs.New(op, errs.UnknownPart, "part", partName)
	}
	it.parts.GenericPartIndices = append([]int{idx}, filtered...)

	it.partsDirty = true
	return it.reencodeFull()
}

// Serial returns a copy of the item's current canonical (obfuscated)
// serial bytes. Every mutator re-encodes before returning, so these
// already reflect all successful edits.
func (it *Item) Serial() []byte {
	return append([]byte(nil), it.canonical...)
}

// Seed returns the seed recorded by the last header parse or
// re-encode. It reads 0 until the header has been parsed, whatever
// seed the wrapped serial carries.
func (it *Item) Seed() int32 {
	return it.seed
}

// reencodeHeaderOnly rebuilds the plaintext body from the parsed
// header plus the untouched opaque tail, re-CRCs and re-obfuscates at
// the item's existing seed, and stores the result as canonical.
func (it *Item) reencodeHeaderOnly() error {
	body, err := encodeHeader(it.header, it.db, it.tail)
	if err != nil {
		return err
	}
	it.canonical = Obfuscate(body, it.seed)
	return nil
}

// reencodeFull rewrites header and parts together at
// PartDatabase.MaxVersion, by convention re-obfuscating with seed 0 so
// repeated edits stay diffable; see spec's re-encoding policy.
func (it *Item) reencodeFull() error {
	body, err := encodeFull(it.header, it.parts, it.db, it.invKey)
	if err != nil {
		return err
	}
	it.header.Version = it.db.MaxVersion()
	it.seed = 0
	it.canonical = Obfuscate(body, it.seed)
	it.partsDirty = false
	return nil
}
