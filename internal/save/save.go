// Package save implements BL3Save: the high-level mutation façade over
// a decoded Character record. Grounded on the teacher's
// internal/model/character.go clamp-then-set accessor/mutator style,
// generalized here to operate on a protocol record instead of a live
// in-memory entity, and on internal/data/seed_accessors.go's
// nil-returning lookup convention for anything keyed by kind.
package save

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/borderlands3/bl3save/internal/config"
	"github.com/borderlands3/bl3save/internal/envelope"
	"github.com/borderlands3/bl3save/internal/errs"
	"github.com/borderlands3/bl3save/internal/itemserial"
	"github.com/borderlands3/bl3save/internal/partdb"
	"github.com/borderlands3/bl3save/internal/record"
)

// statLevelPath and statCubePath are the game-stat paths the level-up
// and cube-puzzle side effects maintain. The real asset paths aren't
// in this module's reference material; these are stable, documented
// placeholders (see DESIGN.md).
const (
	statLevelPath = "/Game/GameData/Stats/Stat_PlayerLevel"
	statCubePath  = "/Game/GameData/Stats/Stat_EridianCubeFound"

	takedownCisternPath       = "/Game/Missions/Takedown/M_TakedownCistern"
	takedownSlaughterstarPath = "/Game/Missions/Takedown/M_TakedownSlaughterstar"
	missionStatusComplete     = int32(2)
)

// Save wraps a decoded Character with the typed operations the CLI and
// any other caller drive the mutation layer through.
type Save struct {
	db  *partdb.DB
	cfg config.Options
	Env envelope.Header

	char  *record.Character
	Items []*itemserial.Item // parallel to char.InventoryItems, same index
}

// Load decodes env's payload as a Character and builds lazy Item
// models for every inventory entry.
func Load(db *partdb.DB, cfg config.Options, env *envelope.Envelope) (*Save, error) {
	char, err := record.DecodeCharacter(env.Payload)
	if err != nil {
		return nil, err
	}
	s := &Save{db: db, cfg: cfg, Env: env.Header, char: char}
	s.Items = make([]*itemserial.Item, len(char.InventoryItems))
	for i, it := range char.InventoryItems {
		s.Items[i] = itemserial.New(db, it.ItemSerialNumber)
	}
	return s, nil
}

// Record exposes the underlying decoded message for read-only access
// to fields this façade doesn't wrap individually.
func (s *Save) Record() *record.Character {
	return s.char
}

// --- Name / save ID / GUID ---

func (s *Save) Name() string { return s.char.PreferredCharacterName }

func (s *Save) SetName(name string) { s.char.PreferredCharacterName = name }

func (s *Save) SaveGameID() int32 { return s.char.SaveGameId }

func (s *Save) SetSaveGameID(id int32) { s.char.SaveGameId = id }

// RandomizeGUID assigns a fresh v4 UUID, rendered as uppercase hex
// without dashes, matching the game's save-game-GUID convention.
func (s *Save) RandomizeGUID() {
	id := uuid.New()
	s.char.SaveGameGuid = strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
}

// --- XP / level ---

func (s *Save) XP() uint32 { return s.char.ExperiencePoints }

func (s *Save) Level() int {
	return levelForXP(requiredXPList(s.cfg.MaxSupportedLevel), s.char.ExperiencePoints)
}

// SetLevel writes the minimum XP for level (or, with topVal, one below
// the next threshold), then applies the documented side effects: the
// level stat, the ability-tree grade bump, and unlocking level-gated
// challenges up to the new level.
func (s *Save) SetLevel(level int, topVal bool) error {
	const op = "save.SetLevel"
	if level < 1 || level > s.cfg.MaxSupportedLevel {
		return errs.New(op, errs.OutOfRange, "level", level, "max", s.cfg.MaxSupportedLevel)
	}
	thresholds := requiredXPList(s.cfg.MaxSupportedLevel)
	s.char.ExperiencePoints = xpForLevel(thresholds, level, topVal)

	s.setGameStat(statLevelPath, int32(level))
	if level > 1 && s.char.AbilityData.TreeGrade == 0 {
		s.char.AbilityData.TreeGrade = 2
	}
	for lvl, path := range levelGatedChallenges {
		if lvl <= level {
			_ = s.UnlockChallenge(path)
		}
	}
	return nil
}

// levelGatedChallenges are challenges unlocked automatically as the
// character levels up. Exact level gates aren't in this module's
// reference material; these are placeholders spaced across the level
// range (see DESIGN.md).
var levelGatedChallenges = map[int]string{
	5:  "/Game/GameData/Challenges/Levels/Challenge_Level_05",
	13: "/Game/GameData/Challenges/Levels/Challenge_Level_13",
	30: "/Game/GameData/Challenges/Levels/Challenge_Level_30",
	57: "/Game/GameData/Challenges/Levels/Challenge_Level_57",
}

func (s *Save) setGameStat(path string, value int32) {
	for i := range s.char.GameStatsData {
		if s.char.GameStatsData[i].StatPath == path {
			s.char.GameStatsData[i].StatValue = value
			return
		}
	}
	s.char.GameStatsData = append(s.char.GameStatsData, record.GameStat{StatPath: path, StatValue: value})
}

func (s *Save) getGameStat(path string) (int32, bool) {
	for _, st := range s.char.GameStatsData {
		if st.StatPath == path {
			return st.StatValue, true
		}
	}
	return 0, false
}

func (s *Save) removeGameStat(path string) bool {
	for i, st := range s.char.GameStatsData {
		if st.StatPath == path {
			s.char.GameStatsData = append(s.char.GameStatsData[:i], s.char.GameStatsData[i+1:]...)
			return true
		}
	}
	return false
}

// --- Playthroughs ---

func (s *Save) PlaythroughsCompleted() int32 { return s.char.PlaythroughsCompleted }

func (s *Save) SetPlaythroughsCompleted(n int32) { s.char.PlaythroughsCompleted = n }

// MaxPlaythroughWithData returns the highest playthrough index (0-based)
// that has data in every per-playthrough array, or -1 if any is empty.
func (s *Save) MaxPlaythroughWithData() int {
	n := minInt(
		len(s.char.MissionPlaythroughsData),
		len(s.char.ActiveTravelStationsForPlaythrough),
		len(s.char.LastActiveTravelStationForPlaythrough),
		len(s.char.GameStatesPerPlaythrough),
	)
	return n - 1
}

func minInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// CopyPlaythroughData composes mission, active-fast-travel,
// last-station, and game-state copies for (from, to) atomically: it
// validates every invariant before mutating anything.
func (s *Save) CopyPlaythroughData(from, to int) error {
	const op = "save.CopyPlaythroughData"
	if from == to {
		return errs.New(op, errs.InvariantViolation, "reason", "self-copy", "pt", from)
	}
	n := s.MaxPlaythroughWithData() + 1 // shortest per-playthrough array
	if from < 0 || from >= n {
		return errs.New(op, errs.InvariantViolation, "reason", "from playthrough does not exist", "from", from)
	}
	if to < 0 || to > n {
		return errs.New(op, errs.InvariantViolation, "reason", "to playthrough would create a gap", "to", to)
	}

	s.copyMissionData(from, to)
	s.copyActiveTravelStations(from, to)
	s.copyLastActiveTravelStation(from, to)
	s.copyGameState(from, to)
	return nil
}

func (s *Save) copyMissionData(from, to int) {
	cp := append([]record.MissionStatus(nil), s.char.MissionPlaythroughsData[from]...)
	if to == len(s.char.MissionPlaythroughsData) {
		s.char.MissionPlaythroughsData = append(s.char.MissionPlaythroughsData, cp)
	} else {
		s.char.MissionPlaythroughsData[to] = cp
	}
}

func (s *Save) copyActiveTravelStations(from, to int) {
	cp := append([]string(nil), s.char.ActiveTravelStationsForPlaythrough[from]...)
	if to == len(s.char.ActiveTravelStationsForPlaythrough) {
		s.char.ActiveTravelStationsForPlaythrough = append(s.char.ActiveTravelStationsForPlaythrough, cp)
	} else {
		s.char.ActiveTravelStationsForPlaythrough[to] = cp
	}
}

func (s *Save) copyLastActiveTravelStation(from, to int) {
	v := s.char.LastActiveTravelStationForPlaythrough[from]
	if to == len(s.char.LastActiveTravelStationForPlaythrough) {
		s.char.LastActiveTravelStationForPlaythrough = append(s.char.LastActiveTravelStationForPlaythrough, v)
	} else {
		s.char.LastActiveTravelStationForPlaythrough[to] = v
	}
}

func (s *Save) copyGameState(from, to int) {
	v := s.char.GameStatesPerPlaythrough[from]
	if to == len(s.char.GameStatesPerPlaythrough) {
		s.char.GameStatesPerPlaythrough = append(s.char.GameStatesPerPlaythrough, v)
	} else {
		s.char.GameStatesPerPlaythrough[to] = v
	}
}

// ClearPlaythroughData pops every playthrough above pt first, then pt
// itself. Only valid on the last playthrough with data.
func (s *Save) ClearPlaythroughData(pt int) error {
	const op = "save.ClearPlaythroughData"
	if pt != s.MaxPlaythroughWithData() {
		return errs.New(op, errs.InvariantViolation, "reason", "can only clear the last playthrough", "pt", pt, "last", s.MaxPlaythroughWithData())
	}
	s.char.MissionPlaythroughsData = s.char.MissionPlaythroughsData[:pt]
	s.char.ActiveTravelStationsForPlaythrough = s.char.ActiveTravelStationsForPlaythrough[:pt]
	s.char.LastActiveTravelStationForPlaythrough = s.char.LastActiveTravelStationForPlaythrough[:pt]
	s.char.GameStatesPerPlaythrough = s.char.GameStatesPerPlaythrough[:pt]
	return nil
}

// --- Currency ---

func (s *Save) currency(kind record.CurrencyKind) int32 {
	hash := record.CurrencyHash(kind)
	for _, c := range s.char.InventoryCategoryList {
		if c.BaseCategoryDefinitionHash == hash {
			return c.Amount
		}
	}
	return 0
}

func (s *Save) setCurrency(kind record.CurrencyKind, amount int32) {
	hash := record.CurrencyHash(kind)
	for i := range s.char.InventoryCategoryList {
		if s.char.InventoryCategoryList[i].BaseCategoryDefinitionHash == hash {
			s.char.InventoryCategoryList[i].Amount = amount
			return
		}
	}
	s.char.InventoryCategoryList = append(s.char.InventoryCategoryList, record.CurrencyEntry{
		BaseCategoryDefinitionHash: hash,
		Amount:                     amount,
	})
}

func (s *Save) Money() int32 { return s.currency(record.CurrencyMoney) }

func (s *Save) SetMoney(amount int32) error {
	if amount < 0 {
		return errs.New("save.SetMoney", errs.OutOfRange, "amount", amount)
	}
	s.setCurrency(record.CurrencyMoney, amount)
	return nil
}

func (s *Save) Eridium() int32 { return s.currency(record.CurrencyEridium) }

func (s *Save) SetEridium(amount int32) error {
	if amount < 0 {
		return errs.New("save.SetEridium", errs.OutOfRange, "amount", amount)
	}
	s.setCurrency(record.CurrencyEridium, amount)
	return nil
}

// --- SDUs ---

var charSduKinds = []record.SduKind{
	record.SduBackpack, record.SduSniper, record.SduShotgun, record.SduGrenade,
	record.SduRocket, record.SduSMG, record.SduAssaultRifle, record.SduPistol,
}

// SDUs returns every known SDU pool's current level.
func (s *Save) SDUs() map[record.SduKind]int32 {
	out := make(map[record.SduKind]int32, len(s.char.SduList))
	for _, sdu := range s.char.SduList {
		if kind, ok := record.SduKindFromPath(sdu.SduDataPath); ok {
			out[kind] = sdu.SduLevel
		}
	}
	return out
}

// SetMaxSDUs sets each named kind (or every character SDU kind, if
// kinds is empty) to its known max, appending any missing entries.
func (s *Save) SetMaxSDUs(kinds []record.SduKind) {
	if len(kinds) == 0 {
		kinds = charSduKinds
	}
	want := make(map[record.SduKind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	for i := range s.char.SduList {
		if kind, ok := record.SduKindFromPath(s.char.SduList[i].SduDataPath); ok && want[kind] {
			s.char.SduList[i].SduLevel = record.SduMax(kind)
			delete(want, kind)
		}
	}
	for _, k := range kinds {
		if want[k] {
			s.char.SduList = append(s.char.SduList, record.SduEntry{
				SduDataPath: record.SduPath(k),
				SduLevel:    record.SduMax(k),
			})
		}
	}
}

// --- Ammo ---

// AmmoCounts returns every known ammo pool's current amount.
func (s *Save) AmmoCounts() map[record.AmmoKind]float32 {
	out := make(map[record.AmmoKind]float32, len(s.char.ResourcePools))
	for _, pool := range s.char.ResourcePools {
		if kind, ok := record.AmmoKindFromPath(pool.ResourcePath); ok {
			out[kind] = pool.Amount
		}
	}
	return out
}

// SetMaxAmmo sets every known, currently-present ammo pool to its max.
func (s *Save) SetMaxAmmo() {
	for i := range s.char.ResourcePools {
		if kind, ok := record.AmmoKindFromPath(s.char.ResourcePools[i].ResourcePath); ok {
			s.char.ResourcePools[i].Amount = record.AmmoMax(kind)
		}
	}
}

// --- Challenges ---

// UnlockChallenge locates the challenge record by path and marks it
// complete. Not-found is a fatal InvariantViolation.
func (s *Save) UnlockChallenge(path string) error {
	for i := range s.char.ChallengeData {
		if s.char.ChallengeData[i].ChallengeClassPath == path {
			s.char.ChallengeData[i].CompletedCount = 1
			s.char.ChallengeData[i].ProgressLevel = 0
			return nil
		}
	}
	return errs.New("save.UnlockChallenge", errs.InvariantViolation, "reason", "challenge not found", "path", path)
}

// UnlockCharComChallenge dispatches the class-mod-slot challenge by
// the character's selected class.
func (s *Save) UnlockCharComChallenge() error {
	kind, ok := record.ComSlotChallengeForClass(s.char.SelectedCustomization)
	if !ok {
		return errs.New("save.UnlockCharComChallenge", errs.InvariantViolation, "reason", "unrecognized class", "class", s.char.SelectedCustomization)
	}
	return s.UnlockChallenge(record.ChallengePath(kind))
}

// --- Equip slots ---

// UnlockSlots sets enabled=true on the named slots (or every slot, if
// kinds is empty). Unlocking ARTIFACT or a class-mod slot additionally
// unlocks the associated challenge.
func (s *Save) UnlockSlots(kinds []record.SlotKind) error {
	if len(kinds) == 0 {
		kinds = []record.SlotKind{
			record.SlotWeapon1, record.SlotWeapon2, record.SlotWeapon3, record.SlotWeapon4,
			record.SlotShield, record.SlotGrenadeMod, record.SlotClassMod, record.SlotArtifact,
		}
	}
	want := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		want[record.SlotPath(k)] = true
	}
	for i := range s.char.EquippedInventoryList {
		if want[s.char.EquippedInventoryList[i].SlotDataPath] {
			s.char.EquippedInventoryList[i].Enabled = true
		}
	}
	for _, k := range kinds {
		switch k {
		case record.SlotArtifact:
			if err := s.UnlockChallenge(record.ChallengePath(record.ChallengeArtifactSlot)); err != nil {
				slog.Warn("artifact slot challenge not found", "err", err)
			}
		case record.SlotClassMod:
			if err := s.UnlockCharComChallenge(); err != nil {
				slog.Warn("class mod slot challenge not found", "err", err)
			}
		}
	}
	return nil
}

// --- Inventory mutation ---

// AddItem appends item's current serial to the inventory list and
// returns its index.
func (s *Save) AddItem(item *itemserial.Item) int {
	s.char.InventoryItems = append(s.char.InventoryItems, record.InventoryItem{
		ItemSerialNumber: item.Serial(),
		PickupOrderIndex: s.nextPickupOrderIndex(),
		FlagBits:         record.FlagSeen | record.FlagFavorite,
	})
	s.Items = append(s.Items, item)
	return len(s.Items) - 1
}

func (s *Save) nextPickupOrderIndex() int32 {
	var max int32 = -1
	for _, it := range s.char.InventoryItems {
		if it.PickupOrderIndex > max {
			max = it.PickupOrderIndex
		}
	}
	return max + 1
}

// CreateNewItem builds and appends an Item from a canonical serial,
// with a fresh pickup-order index and favorite/seen flags set.
func (s *Save) CreateNewItem(canonicalSerial []byte) (*itemserial.Item, int) {
	item := itemserial.New(s.db, canonicalSerial)
	idx := s.AddItem(item)
	return item, idx
}

// OverwriteItemInSlot mutates the item already equipped in slot, or
// adds a new item and rebinds the slot to it if nothing was equipped.
func (s *Save) OverwriteItemInSlot(slot record.SlotKind, canonicalSerial []byte) error {
	path := record.SlotPath(slot)
	for i := range s.char.EquippedInventoryList {
		if s.char.EquippedInventoryList[i].SlotDataPath != path {
			continue
		}
		idx := s.char.EquippedInventoryList[i].InventoryListIndex
		if idx >= 0 && int(idx) < len(s.Items) {
			s.Items[idx] = itemserial.New(s.db, canonicalSerial)
			s.char.InventoryItems[idx].ItemSerialNumber = canonicalSerial
			return nil
		}
		_, newIdx := s.CreateNewItem(canonicalSerial)
		s.char.EquippedInventoryList[i].InventoryListIndex = int32(newIdx)
		s.char.EquippedInventoryList[i].Enabled = true
		return nil
	}
	return errs.New("save.OverwriteItemInSlot", errs.InvariantViolation, "reason", "slot not found", "slot", path)
}

// --- Vehicles ---

// vehicleExcludedParts lists parts a chassis should never receive
// during UnlockVehicleParts (cosmetic-only or unobtainable variants).
// Not grounded on a specific source list; kept empty by default, see
// DESIGN.md.
var vehicleExcludedParts = map[record.VehicleKind]map[string]bool{}

// UnlockVehicleChassis adds the chassis path for kind if not already
// present. Unknown kinds can't occur (VehicleKind is a closed enum);
// unrecognized paths already in the save are left untouched.
func (s *Save) UnlockVehicleChassis(kind record.VehicleKind) {
	path := record.VehicleChassisPath(kind)
	for _, existing := range s.char.VehiclesUnlocked {
		if existing == path {
			return
		}
	}
	s.char.VehiclesUnlocked = append(s.char.VehiclesUnlocked, path)
}

// UnlockVehicleParts appends every part in parts not already present
// and not on kind's exclusion list.
func (s *Save) UnlockVehicleParts(kind record.VehicleKind, parts []string) {
	excluded := vehicleExcludedParts[kind]
	have := make(map[string]bool, len(s.char.VehiclePartsUnlocked))
	for _, p := range s.char.VehiclePartsUnlocked {
		have[p] = true
	}
	for _, p := range parts {
		if have[p] || excluded[p] {
			continue
		}
		s.char.VehiclePartsUnlocked = append(s.char.VehiclePartsUnlocked, p)
		have[p] = true
	}
}

// --- Guardian rank ---

// ZeroGuardianRank clears the save-level guardian-rank block. It does
// not touch a profile's guardian-rank state.
func (s *Save) ZeroGuardianRank() {
	s.char.GuardianRank = record.SaveGuardianRank{}
}

// --- Takedown discovery / cube puzzle ---

// ClearTakedownDiscovery marks the two Takedown discovery missions
// complete in every playthrough that has mission data, injecting them
// if absent.
func (s *Save) ClearTakedownDiscovery() {
	for pt := range s.char.MissionPlaythroughsData {
		s.markMissionComplete(pt, takedownCisternPath)
		s.markMissionComplete(pt, takedownSlaughterstarPath)
	}
}

func (s *Save) markMissionComplete(pt int, path string) {
	list := s.char.MissionPlaythroughsData[pt]
	for i := range list {
		if list[i].MissionClassPath == path {
			list[i].Status = missionStatusComplete
			return
		}
	}
	s.char.MissionPlaythroughsData[pt] = append(list, record.MissionStatus{
		MissionClassPath: path,
		Status:           missionStatusComplete,
	})
}

// UnlockCubePuzzle removes the Eridian cube stat if present and resets
// its challenge record to incomplete.
func (s *Save) UnlockCubePuzzle() {
	s.removeGameStat(statCubePath)
	for i := range s.char.ChallengeData {
		if s.char.ChallengeData[i].ChallengeClassPath == record.ChallengePath(record.ChallengeCubePuzzle) {
			s.char.ChallengeData[i].CompletedCount = 0
			s.char.ChallengeData[i].ProgressLevel = 0
			return
		}
	}
}

// --- Serialization ---

// syncItemSerials flushes every Item's current (possibly re-encoded)
// serial back into the underlying inventory list before encode.
func (s *Save) syncItemSerials() {
	for i, item := range s.Items {
		if i < len(s.char.InventoryItems) {
			s.char.InventoryItems[i].ItemSerialNumber = item.Serial()
		}
	}
}

// SaveRecordTo writes the raw encoded Character record bytes, with no
// envelope framing or obfuscation.
func (s *Save) SaveRecordTo(w io.Writer) error {
	s.syncItemSerials()
	_, err := w.Write(record.EncodeCharacter(s.char))
	if err != nil {
		return errs.New("save.SaveRecordTo", errs.IoError, "err", err)
	}
	return nil
}

// SaveJSONTo writes the record as JSON text, proto-style field names
// preserved as Go struct field names (this module does not use real
// protobuf, so "defaults included" just falls out of encoding/json's
// normal zero-value behavior).
func (s *Save) SaveJSONTo(w io.Writer) error {
	s.syncItemSerials()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.char); err != nil {
		return errs.New("save.SaveJSONTo", errs.IoError, "err", err)
	}
	return nil
}

// SaveTo writes a full GVAS envelope wrapping the encoded, re-
// obfuscated record.
func (s *Save) SaveTo(w io.Writer) error {
	s.syncItemSerials()
	payload := record.EncodeCharacter(s.char)
	return envelope.Write(w, s.Env, payload, envelope.KindSave)
}

// ImportJSON decodes JSON-encoded Character data produced by
// SaveJSONTo and reuses the normal load pipeline to build a Save.
func ImportJSON(db *partdb.DB, cfg config.Options, env envelope.Header, r io.Reader) (*Save, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, errs.New("save.ImportJSON", errs.IoError, "err", err)
	}
	var char record.Character
	if err := json.Unmarshal(buf.Bytes(), &char); err != nil {
		return nil, errs.New("save.ImportJSON", errs.BadFormat, "err", err)
	}
	s := &Save{db: db, cfg: cfg, Env: env, char: &char}
	s.Items = make([]*itemserial.Item, len(char.InventoryItems))
	for i, it := range char.InventoryItems {
		s.Items[i] = itemserial.New(db, it.ItemSerialNumber)
	}
	return s, nil
}
