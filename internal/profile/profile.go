// Package profile implements BL3Profile: the profile-scoped analogue
// of internal/save's BL3Save — bank/lost-loot inventory, cosmetic
// unlocks, golden keys, and the profile's own guardian-rank block.
// Grounded on the same teacher clamp-then-set accessor/mutator style
// as internal/save/save.go.
package profile

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"
	"strings"

	"github.com/borderlands3/bl3save/internal/config"
	"github.com/borderlands3/bl3save/internal/envelope"
	"github.com/borderlands3/bl3save/internal/errs"
	"github.com/borderlands3/bl3save/internal/itemserial"
	"github.com/borderlands3/bl3save/internal/partdb"
	"github.com/borderlands3/bl3save/internal/record"
)

// CosmeticKind enumerates the four get_cur/unlock/total customization
// families plus the three path/hash-keyed families that share the
// same uniform pattern.
type CosmeticKind int

const (
	CosmeticCharacterSkin CosmeticKind = iota
	CosmeticCharacterHead
	CosmeticEchoTheme
	CosmeticEmote
	CosmeticRoomDecoration
	CosmeticWeaponSkin
	CosmeticWeaponTrinket
)

// keyedByHash reports whether kind lives in
// UnlockedInventoryCustomizationParts (hash-keyed) rather than
// UnlockedCustomizations (path-keyed). Room decorations have their own
// list and are handled separately.
func keyedByHash(kind CosmeticKind) bool {
	return kind == CosmeticWeaponSkin || kind == CosmeticWeaponTrinket
}

// defaultCosmetics lists the base-game unlocks total() folds in even
// when the profile record has no matching entry yet. The real
// default-unlock tables aren't in this module's reference material
// (see DESIGN.md); these are small placeholder sets, one universally
// granted entry per kind.
var defaultCosmetics = map[CosmeticKind][]string{
	CosmeticCharacterSkin:  {"/Game/Cosmetics/CharacterSkins/Default/Skin_Default"},
	CosmeticCharacterHead:  {"/Game/Cosmetics/Heads/Default/Head_Default"},
	CosmeticEchoTheme:      {"/Game/Cosmetics/EchoThemes/Default/Theme_Default"},
	CosmeticEmote:          {"/Game/Cosmetics/Emotes/Default/Emote_Wave"},
	CosmeticRoomDecoration: {},
	CosmeticWeaponSkin:     {},
	CosmeticWeaponTrinket:  {},
}

// Profile wraps a decoded record.Profile with typed bank, lost-loot,
// cosmetic, and guardian-rank operations.
type Profile struct {
	db  *partdb.DB
	cfg config.Options
	Env envelope.Header

	rec *record.Profile

	BankItems     []*itemserial.Item // parallel to rec.BankInventoryList
	LostLootItems []*itemserial.Item // parallel to rec.LostLootInventoryList
}

// Load decodes env's payload as a Profile and builds lazy Item models
// for the bank and lost-loot inventory lists.
func Load(db *partdb.DB, cfg config.Options, env *envelope.Envelope) (*Profile, error) {
	rec, err := record.DecodeProfile(env.Payload)
	if err != nil {
		return nil, err
	}
	p := &Profile{db: db, cfg: cfg, Env: env.Header, rec: rec}
	p.BankItems = itemsFor(db, rec.BankInventoryList)
	p.LostLootItems = itemsFor(db, rec.LostLootInventoryList)
	return p, nil
}

func itemsFor(db *partdb.DB, items []record.InventoryItem) []*itemserial.Item {
	out := make([]*itemserial.Item, len(items))
	for i, it := range items {
		out[i] = itemserial.New(db, it.ItemSerialNumber)
	}
	return out
}

// Record exposes the underlying decoded message for read-only access
// to fields this façade doesn't wrap individually.
func (p *Profile) Record() *record.Profile { return p.rec }

// --- Golden keys ---

func (p *Profile) GoldenKeys() int32 {
	hash := record.CurrencyHash(record.CurrencyGoldenKey)
	for _, c := range p.rec.BankInventoryCategoryList {
		if c.BaseCategoryDefinitionHash == hash {
			return c.Amount
		}
	}
	return 0
}

func (p *Profile) SetGoldenKeys(amount int32) error {
	if amount < 0 {
		return errs.New("profile.SetGoldenKeys", errs.OutOfRange, "amount", amount)
	}
	hash := record.CurrencyHash(record.CurrencyGoldenKey)
	for i := range p.rec.BankInventoryCategoryList {
		if p.rec.BankInventoryCategoryList[i].BaseCategoryDefinitionHash == hash {
			p.rec.BankInventoryCategoryList[i].Amount = amount
			return nil
		}
	}
	p.rec.BankInventoryCategoryList = append(p.rec.BankInventoryCategoryList, record.CurrencyEntry{
		BaseCategoryDefinitionHash: hash,
		Amount:                     amount,
	})
	return nil
}

// --- SDUs ---

func sduMap(list []record.SduEntry) map[record.SduKind]int32 {
	out := make(map[record.SduKind]int32, len(list))
	for _, sdu := range list {
		if kind, ok := record.SduKindFromPath(sdu.SduDataPath); ok {
			out[kind] = sdu.SduLevel
		}
	}
	return out
}

func (p *Profile) BankSDUs() map[record.SduKind]int32     { return sduMap(p.rec.BankSduList) }
func (p *Profile) LostLootSDUs() map[record.SduKind]int32 { return sduMap(p.rec.LostLootSduList) }

// SetMaxProfileSDUs sets the profile's bank and lost-loot SDUs to
// their known max, appending entries that don't exist yet.
func (p *Profile) SetMaxProfileSDUs() {
	p.rec.BankSduList = setMaxSDU(p.rec.BankSduList, record.SduBank)
	p.rec.LostLootSduList = setMaxSDU(p.rec.LostLootSduList, record.SduLostLoot)
}

func setMaxSDU(list []record.SduEntry, kind record.SduKind) []record.SduEntry {
	path := record.SduPath(kind)
	for i := range list {
		if list[i].SduDataPath == path {
			list[i].SduLevel = record.SduMax(kind)
			return list
		}
	}
	return append(list, record.SduEntry{SduDataPath: path, SduLevel: record.SduMax(kind)})
}

// --- Bank / lost-loot inventory ---

// AddBankItem appends item's current serial to the bank inventory and
// returns its index.
func (p *Profile) AddBankItem(item *itemserial.Item) int {
	p.rec.BankInventoryList = append(p.rec.BankInventoryList, record.InventoryItem{
		ItemSerialNumber: item.Serial(),
		PickupOrderIndex: p.nextBankPickupOrderIndex(),
		FlagBits:         record.FlagSeen,
	})
	p.BankItems = append(p.BankItems, item)
	return len(p.BankItems) - 1
}

func (p *Profile) nextBankPickupOrderIndex() int32 {
	var max int32 = -1
	for _, it := range p.rec.BankInventoryList {
		if it.PickupOrderIndex > max {
			max = it.PickupOrderIndex
		}
	}
	return max + 1
}

// --- Cosmetics ---

// GetCur returns the asset paths or hash strings currently unlocked
// for kind, exactly as stored (no defaults folded in).
func (p *Profile) GetCur(kind CosmeticKind) []string {
	if kind == CosmeticRoomDecoration {
		out := make([]string, len(p.rec.UnlockedCrewQuartersDecorations))
		for i, d := range p.rec.UnlockedCrewQuartersDecorations {
			out[i] = d.AssetPath
		}
		return out
	}
	if keyedByHash(kind) {
		out := make([]string, len(p.rec.UnlockedInventoryCustomizationParts))
		for i, e := range p.rec.UnlockedInventoryCustomizationParts {
			out[i] = hashKey(e.Hash)
		}
		return out
	}
	out := make([]string, len(p.rec.UnlockedCustomizations))
	for i, c := range p.rec.UnlockedCustomizations {
		out[i] = c.AssetPath
	}
	return out
}

// Total returns defaults ∪ currently-unlocked for kind.
func (p *Profile) Total(kind CosmeticKind) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range defaultCosmetics[kind] {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	for _, c := range p.GetCur(kind) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Unlock adds assetOrHash to kind's list if not already present.
// Decorations and path-keyed kinds pass an asset path; weapon skins
// and trinkets pass a hash rendered via hashKey.
func (p *Profile) Unlock(kind CosmeticKind, assetOrHash string) {
	if kind == CosmeticRoomDecoration {
		for _, d := range p.rec.UnlockedCrewQuartersDecorations {
			if d.AssetPath == assetOrHash {
				return
			}
		}
		p.rec.UnlockedCrewQuartersDecorations = append(p.rec.UnlockedCrewQuartersDecorations, record.DecorationEntry{
			AssetPath: assetOrHash, IsNew: true,
		})
		return
	}
	if keyedByHash(kind) {
		hash := unhashKey(assetOrHash)
		for _, e := range p.rec.UnlockedInventoryCustomizationParts {
			if e.Hash == hash {
				return
			}
		}
		p.rec.UnlockedInventoryCustomizationParts = append(p.rec.UnlockedInventoryCustomizationParts, record.InvCustomizationEntry{
			Hash: hash, IsNew: true,
		})
		return
	}
	for _, c := range p.rec.UnlockedCustomizations {
		if c.AssetPath == assetOrHash {
			return
		}
	}
	p.rec.UnlockedCustomizations = append(p.rec.UnlockedCustomizations, record.CustomizationEntry{
		AssetPath: assetOrHash, IsNew: true,
	})
}

// AlphabetizeCosmetics rewrites the decoration, weapon-skin, and
// trinket lists in case-folded alphabetical order of a display name
// derived from the asset path (or hash, for hash-keyed entries).
// Every entry gets a derived name, so none is treated as unresolved or
// moved to the end; entries with equal names keep their original
// relative order, and is_new is preserved throughout.
func (p *Profile) AlphabetizeCosmetics() {
	sortDecorations(p.rec.UnlockedCrewQuartersDecorations)
	sortInvCustomizations(p.rec.UnlockedInventoryCustomizationParts)
}

func sortDecorations(list []record.DecorationEntry) {
	sort.SliceStable(list, func(i, j int) bool {
		return strings.ToLower(displayName(list[i].AssetPath)) < strings.ToLower(displayName(list[j].AssetPath))
	})
}

func sortInvCustomizations(list []record.InvCustomizationEntry) {
	sort.SliceStable(list, func(i, j int) bool {
		return strings.ToLower(hashKey(list[i].Hash)) < strings.ToLower(hashKey(list[j].Hash))
	})
}

// displayName derives a human-readable name from an asset path; no
// English-name table exists for cosmetics, so this just takes the
// last path segment (see DESIGN.md, same fallback itemserial.Item's
// EngName uses for unrecognized balances).
func displayName(assetPath string) string {
	if idx := strings.LastIndex(assetPath, "/"); idx >= 0 {
		return assetPath[idx+1:]
	}
	return assetPath
}

func hashKey(h uint32) string {
	const hexDigits = "0123456789abcdef"
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = hexDigits[h&0xF]
		h >>= 4
	}
	return string(b)
}

func unhashKey(s string) uint32 {
	var h uint32
	for _, r := range s {
		h <<= 4
		switch {
		case r >= '0' && r <= '9':
			h |= uint32(r - '0')
		case r >= 'a' && r <= 'f':
			h |= uint32(r-'a') + 10
		case r >= 'A' && r <= 'F':
			h |= uint32(r-'A') + 10
		}
	}
	return h
}

// ClearAllCustomizations empties all three customization lists.
func (p *Profile) ClearAllCustomizations() {
	p.rec.UnlockedCustomizations = nil
	p.rec.UnlockedInventoryCustomizationParts = nil
	p.rec.UnlockedCrewQuartersDecorations = nil
}

// --- Guardian rank ---

func rewardSum(rewards []record.GuardianRewardEntry) int32 {
	var sum int32
	for _, r := range rewards {
		sum += r.NumTokens
	}
	return sum
}

// ZeroGuardianRank clears tokens, rank, experience, and both the
// reward and (there being no separate perk list in this model) reward
// list; guardian_reward_random_seed is left untouched by design (see
// DESIGN.md).
func (p *Profile) ZeroGuardianRank() {
	seed := p.rec.GuardianRank.GuardianRewardRandomSeed
	p.rec.GuardianRank = record.ProfileGuardianRank{GuardianRewardRandomSeed: seed}
}

// knownRewardKinds are the reward paths min_guardian_rank seeds to 1
// token each. The real reward catalog isn't in this module's
// reference material (see DESIGN.md); these are stable placeholders.
var knownRewardKinds = []string{
	"/Game/GuardianRank/Rewards/Reward_Health",
	"/Game/GuardianRank/Rewards/Reward_Shield",
	"/Game/GuardianRank/Rewards/Reward_GunDamage",
	"/Game/GuardianRank/Rewards/Reward_GunAccuracy",
	"/Game/GuardianRank/Rewards/Reward_MeleeDamage",
	"/Game/GuardianRank/Rewards/Reward_ElementalDamage",
	"/Game/GuardianRank/Rewards/Reward_CriticalDamage",
}

// MinGuardianRank zeroes the block, sets every known reward to 1
// token, and brings rank up to sum(tokens)+available_tokens. Returns
// the new rank.
func (p *Profile) MinGuardianRank() int32 {
	p.ZeroGuardianRank()
	rewards := make([]record.GuardianRewardEntry, len(knownRewardKinds))
	for i, path := range knownRewardKinds {
		rewards[i] = record.GuardianRewardEntry{RewardDataPath: path, NumTokens: 1}
	}
	p.rec.GuardianRank.Rewards = rewards
	p.rec.GuardianRank.GuardianRank = rewardSum(rewards) + p.rec.GuardianRank.GuardianAvailableTokens
	return p.rec.GuardianRank.GuardianRank
}

// SetGuardianRankRewardLevels sets every known reward's tokens to
// points (if force) or max(existing, points), appending any missing
// reward at points, then runs FixupGuardianRank.
func (p *Profile) SetGuardianRankRewardLevels(points int32, force bool) {
	have := make(map[string]int, len(p.rec.GuardianRank.Rewards))
	for i, r := range p.rec.GuardianRank.Rewards {
		have[r.RewardDataPath] = i
	}
	for _, path := range knownRewardKinds {
		if i, ok := have[path]; ok {
			if force || p.rec.GuardianRank.Rewards[i].NumTokens < points {
				p.rec.GuardianRank.Rewards[i].NumTokens = points
			}
			continue
		}
		p.rec.GuardianRank.Rewards = append(p.rec.GuardianRank.Rewards, record.GuardianRewardEntry{
			RewardDataPath: path, NumTokens: points,
		})
	}
	p.FixupGuardianRank(force)
}

// SetGuardianRankTokens sets available_tokens then runs
// FixupGuardianRank(force=false).
func (p *Profile) SetGuardianRankTokens(n int32) {
	p.rec.GuardianRank.GuardianAvailableTokens = n
	p.FixupGuardianRank(false)
}

// FixupGuardianRank computes min_rank = sum(reward.num_tokens) +
// available_tokens. If force, rank is assigned unconditionally;
// otherwise only if the current rank is below min_rank. Returns the
// new rank and whether it changed.
func (p *Profile) FixupGuardianRank(force bool) (int32, bool) {
	minRank := rewardSum(p.rec.GuardianRank.Rewards) + p.rec.GuardianRank.GuardianAvailableTokens
	if force {
		if p.rec.GuardianRank.GuardianRank == minRank {
			return p.rec.GuardianRank.GuardianRank, false
		}
		p.rec.GuardianRank.GuardianRank = minRank
		return minRank, true
	}
	if p.rec.GuardianRank.GuardianRank < minRank {
		p.rec.GuardianRank.GuardianRank = minRank
		return minRank, true
	}
	return p.rec.GuardianRank.GuardianRank, false
}

// --- Serialization ---

func (p *Profile) syncItemSerials() {
	for i, item := range p.BankItems {
		if i < len(p.rec.BankInventoryList) {
			p.rec.BankInventoryList[i].ItemSerialNumber = item.Serial()
		}
	}
	for i, item := range p.LostLootItems {
		if i < len(p.rec.LostLootInventoryList) {
			p.rec.LostLootInventoryList[i].ItemSerialNumber = item.Serial()
		}
	}
}

// SaveRecordTo writes the raw encoded Profile record bytes, with no
// envelope framing or obfuscation.
func (p *Profile) SaveRecordTo(w io.Writer) error {
	p.syncItemSerials()
	if _, err := w.Write(record.EncodeProfile(p.rec)); err != nil {
		return errs.New("profile.SaveRecordTo", errs.IoError, "err", err)
	}
	return nil
}

// SaveJSONTo writes the record as indented JSON text.
func (p *Profile) SaveJSONTo(w io.Writer) error {
	p.syncItemSerials()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p.rec); err != nil {
		return errs.New("profile.SaveJSONTo", errs.IoError, "err", err)
	}
	return nil
}

// SaveTo writes a full GVAS envelope wrapping the encoded,
// re-obfuscated profile record.
func (p *Profile) SaveTo(w io.Writer) error {
	p.syncItemSerials()
	payload := record.EncodeProfile(p.rec)
	return envelope.Write(w, p.Env, payload, envelope.KindProfile)
}

// ImportJSON decodes JSON-encoded Profile data produced by
// SaveJSONTo and reuses the normal load pipeline to build a Profile.
func ImportJSON(db *partdb.DB, cfg config.Options, env envelope.Header, r io.Reader) (*Profile, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, errs.New("profile.ImportJSON", errs.IoError, "err", err)
	}
	var rec record.Profile
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		return nil, errs.New("profile.ImportJSON", errs.BadFormat, "err", err)
	}
	p := &Profile{db: db, cfg: cfg, Env: env, rec: &rec}
	p.BankItems = itemsFor(db, rec.BankInventoryList)
	p.LostLootItems = itemsFor(db, rec.LostLootInventoryList)
	return p, nil
}
