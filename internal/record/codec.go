package record

import "github.com/borderlands3/bl3save/internal/errs"

// RecordKind tags which top-level message a payload holds, so a
// Character decoded as a Profile (or vice versa) is caught as
// WrongRecordKind rather than silently misparsed.
type RecordKind byte

const (
	KindCharacter RecordKind = 1
	KindProfile   RecordKind = 2
)

// PeekKind reads the leading kind byte without consuming the rest of
// data, for callers that need to dispatch before choosing a decoder.
func PeekKind(data []byte) (RecordKind, error) {
	if len(data) == 0 {
		return 0, errs.New("record.PeekKind", errs.BadFormat, "reason", "empty payload")
	}
	return RecordKind(data[0]), nil
}

func requireKind(r *Reader, want RecordKind, op string) error {
	b, err := r.ReadByte()
	if err != nil {
		return errs.New(op, errs.BadFormat, "reason", "missing kind byte")
	}
	got := RecordKind(b)
	if got != want {
		return errs.New(op, errs.WrongRecordKind, "want", want, "got", got)
	}
	return nil
}

func readStringNonNil(r *Reader, op string) (string, error) {
	s, err := r.ReadString()
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", errs.New(op, errs.BadFormat, "reason", "unexpected nil string")
	}
	return *s, nil
}

func writeStringNonNil(w *Writer, s string) {
	w.WriteString(&s)
}

func readStringSlice(r *Reader, op string) ([]string, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i := range out {
		s, err := readStringNonNil(r, op)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func writeStringSlice(w *Writer, ss []string) {
	w.WriteU32(uint32(len(ss)))
	for _, s := range ss {
		writeStringNonNil(w, s)
	}
}

func readMissionList(r *Reader, op string) ([]MissionStatus, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]MissionStatus, n)
	for i := range out {
		path, err := readStringNonNil(r, op)
		if err != nil {
			return nil, err
		}
		status, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = MissionStatus{MissionClassPath: path, Status: status}
	}
	return out, nil
}

func writeMissionList(w *Writer, list []MissionStatus) {
	w.WriteU32(uint32(len(list)))
	for _, m := range list {
		writeStringNonNil(w, m.MissionClassPath)
		w.WriteI32(m.Status)
	}
}

func readGameStateList(r *Reader) ([]GameState, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]GameState, n)
	for i := range out {
		level, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		seed, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = GameState{MayhemLevel: level, MayhemRandomSeed: seed}
	}
	return out, nil
}

func writeGameStateList(w *Writer, list []GameState) {
	w.WriteU32(uint32(len(list)))
	for _, g := range list {
		w.WriteI32(g.MayhemLevel)
		w.WriteI32(g.MayhemRandomSeed)
	}
}

func readInventoryItems(r *Reader, op string) ([]InventoryItem, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]InventoryItem, n)
	for i := range out {
		serial, err := r.ReadBlob()
		if err != nil {
			return nil, err
		}
		pickup, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		flags, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		skin, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		out[i] = InventoryItem{
			ItemSerialNumber: serial,
			PickupOrderIndex: pickup,
			FlagBits:         flags,
			WeaponSkinPath:   skin,
		}
	}
	return out, nil
}

func writeInventoryItems(w *Writer, list []InventoryItem) {
	w.WriteU32(uint32(len(list)))
	for _, it := range list {
		w.WriteBlob(it.ItemSerialNumber)
		w.WriteI32(it.PickupOrderIndex)
		w.WriteU32(it.FlagBits)
		w.WriteString(it.WeaponSkinPath)
	}
}

func readEquippedSlots(r *Reader, op string) ([]EquippedSlot, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]EquippedSlot, n)
	for i := range out {
		path, err := readStringNonNil(r, op)
		if err != nil {
			return nil, err
		}
		enabled, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		idx, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = EquippedSlot{SlotDataPath: path, Enabled: enabled, InventoryListIndex: idx}
	}
	return out, nil
}

func writeEquippedSlots(w *Writer, list []EquippedSlot) {
	w.WriteU32(uint32(len(list)))
	for _, s := range list {
		writeStringNonNil(w, s.SlotDataPath)
		w.WriteBool(s.Enabled)
		w.WriteI32(s.InventoryListIndex)
	}
}

func readSduList(r *Reader, op string) ([]SduEntry, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]SduEntry, n)
	for i := range out {
		path, err := readStringNonNil(r, op)
		if err != nil {
			return nil, err
		}
		level, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = SduEntry{SduDataPath: path, SduLevel: level}
	}
	return out, nil
}

func writeSduList(w *Writer, list []SduEntry) {
	w.WriteU32(uint32(len(list)))
	for _, s := range list {
		writeStringNonNil(w, s.SduDataPath)
		w.WriteI32(s.SduLevel)
	}
}

func readResourcePools(r *Reader, op string) ([]ResourcePool, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]ResourcePool, n)
	for i := range out {
		path, err := readStringNonNil(r, op)
		if err != nil {
			return nil, err
		}
		amount, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		out[i] = ResourcePool{ResourcePath: path, Amount: amount}
	}
	return out, nil
}

func writeResourcePools(w *Writer, list []ResourcePool) {
	w.WriteU32(uint32(len(list)))
	for _, p := range list {
		writeStringNonNil(w, p.ResourcePath)
		w.WriteF32(p.Amount)
	}
}

func readCurrencyList(r *Reader) ([]CurrencyEntry, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]CurrencyEntry, n)
	for i := range out {
		hash, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		amount, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = CurrencyEntry{BaseCategoryDefinitionHash: hash, Amount: amount}
	}
	return out, nil
}

func writeCurrencyList(w *Writer, list []CurrencyEntry) {
	w.WriteU32(uint32(len(list)))
	for _, c := range list {
		w.WriteU32(c.BaseCategoryDefinitionHash)
		w.WriteI32(c.Amount)
	}
}

func readChallengeData(r *Reader, op string) ([]ChallengeEntry, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]ChallengeEntry, n)
	for i := range out {
		path, err := readStringNonNil(r, op)
		if err != nil {
			return nil, err
		}
		completed, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		progress, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = ChallengeEntry{ChallengeClassPath: path, CompletedCount: completed, ProgressLevel: progress}
	}
	return out, nil
}

func writeChallengeData(w *Writer, list []ChallengeEntry) {
	w.WriteU32(uint32(len(list)))
	for _, c := range list {
		writeStringNonNil(w, c.ChallengeClassPath)
		w.WriteI32(c.CompletedCount)
		w.WriteI32(c.ProgressLevel)
	}
}

func readGameStats(r *Reader, op string) ([]GameStat, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]GameStat, n)
	for i := range out {
		path, err := readStringNonNil(r, op)
		if err != nil {
			return nil, err
		}
		val, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = GameStat{StatPath: path, StatValue: val}
	}
	return out, nil
}

func writeGameStats(w *Writer, list []GameStat) {
	w.WriteU32(uint32(len(list)))
	for _, s := range list {
		writeStringNonNil(w, s.StatPath)
		w.WriteI32(s.StatValue)
	}
}

// DecodeCharacter decodes a Character record from a deobfuscated
// payload. Trailing bytes after the record are rejected as BadFormat.
func DecodeCharacter(data []byte) (*Character, error) {
	const op = "record.DecodeCharacter"
	r := NewReader(data)
	if err := requireKind(r, KindCharacter, op); err != nil {
		return nil, err
	}

	var c Character
	var err error

	if c.PreferredCharacterName, err = readStringNonNil(r, op); err != nil {
		return nil, err
	}
	if c.SelectedCustomization, err = readStringNonNil(r, op); err != nil {
		return nil, err
	}
	if c.ExperiencePoints, err = r.ReadU32(); err != nil {
		return nil, err
	}
	if c.PlaythroughsCompleted, err = r.ReadI32(); err != nil {
		return nil, err
	}

	ptCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	c.MissionPlaythroughsData = make([][]MissionStatus, ptCount)
	for i := range c.MissionPlaythroughsData {
		if c.MissionPlaythroughsData[i], err = readMissionList(r, op); err != nil {
			return nil, err
		}
	}
	ftCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	c.ActiveTravelStationsForPlaythrough = make([][]string, ftCount)
	for i := range c.ActiveTravelStationsForPlaythrough {
		if c.ActiveTravelStationsForPlaythrough[i], err = readStringSlice(r, op); err != nil {
			return nil, err
		}
	}
	if c.LastActiveTravelStationForPlaythrough, err = readStringSlice(r, op); err != nil {
		return nil, err
	}
	if c.GameStatesPerPlaythrough, err = readGameStateList(r); err != nil {
		return nil, err
	}

	if c.InventoryItems, err = readInventoryItems(r, op); err != nil {
		return nil, err
	}
	if c.EquippedInventoryList, err = readEquippedSlots(r, op); err != nil {
		return nil, err
	}
	if c.SduList, err = readSduList(r, op); err != nil {
		return nil, err
	}
	if c.ResourcePools, err = readResourcePools(r, op); err != nil {
		return nil, err
	}
	if c.InventoryCategoryList, err = readCurrencyList(r); err != nil {
		return nil, err
	}
	if c.ChallengeData, err = readChallengeData(r, op); err != nil {
		return nil, err
	}
	if c.VehiclesUnlocked, err = readStringSlice(r, op); err != nil {
		return nil, err
	}
	if c.VehiclePartsUnlocked, err = readStringSlice(r, op); err != nil {
		return nil, err
	}

	if c.GuardianRank.GuardianRank, err = r.ReadI32(); err != nil {
		return nil, err
	}
	if c.GuardianRank.GuardianExperience, err = r.ReadI32(); err != nil {
		return nil, err
	}
	if c.GuardianRank.GuardianAvailableTokens, err = r.ReadI32(); err != nil {
		return nil, err
	}

	if c.GameStatsData, err = readGameStats(r, op); err != nil {
		return nil, err
	}
	if c.AbilityData.TreeGrade, err = r.ReadI32(); err != nil {
		return nil, err
	}
	if c.SaveGameId, err = r.ReadI32(); err != nil {
		return nil, err
	}
	if c.SaveGameGuid, err = readStringNonNil(r, op); err != nil {
		return nil, err
	}

	if r.Remaining() != 0 {
		return nil, errs.New(op, errs.BadFormat, "reason", "trailing bytes", "remaining", r.Remaining())
	}
	return &c, nil
}

// EncodeCharacter serializes c in the same field order DecodeCharacter
// expects.
func EncodeCharacter(c *Character) []byte {
	w := NewWriter()
	w.WriteByte(byte(KindCharacter))

	writeStringNonNil(w, c.PreferredCharacterName)
	writeStringNonNil(w, c.SelectedCustomization)
	w.WriteU32(c.ExperiencePoints)
	w.WriteI32(c.PlaythroughsCompleted)

	w.WriteU32(uint32(len(c.MissionPlaythroughsData)))
	for _, pt := range c.MissionPlaythroughsData {
		writeMissionList(w, pt)
	}
	w.WriteU32(uint32(len(c.ActiveTravelStationsForPlaythrough)))
	for _, pt := range c.ActiveTravelStationsForPlaythrough {
		writeStringSlice(w, pt)
	}
	writeStringSlice(w, c.LastActiveTravelStationForPlaythrough)
	writeGameStateList(w, c.GameStatesPerPlaythrough)

	writeInventoryItems(w, c.InventoryItems)
	writeEquippedSlots(w, c.EquippedInventoryList)
	writeSduList(w, c.SduList)
	writeResourcePools(w, c.ResourcePools)
	writeCurrencyList(w, c.InventoryCategoryList)
	writeChallengeData(w, c.ChallengeData)
	writeStringSlice(w, c.VehiclesUnlocked)
	writeStringSlice(w, c.VehiclePartsUnlocked)

	w.WriteI32(c.GuardianRank.GuardianRank)
	w.WriteI32(c.GuardianRank.GuardianExperience)
	w.WriteI32(c.GuardianRank.GuardianAvailableTokens)

	writeGameStats(w, c.GameStatsData)
	w.WriteI32(c.AbilityData.TreeGrade)
	w.WriteI32(c.SaveGameId)
	writeStringNonNil(w, c.SaveGameGuid)

	return w.Bytes()
}

func readCustomizationEntries(r *Reader, op string) ([]CustomizationEntry, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]CustomizationEntry, n)
	for i := range out {
		path, err := readStringNonNil(r, op)
		if err != nil {
			return nil, err
		}
		isNew, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		out[i] = CustomizationEntry{AssetPath: path, IsNew: isNew}
	}
	return out, nil
}

func writeCustomizationEntries(w *Writer, list []CustomizationEntry) {
	w.WriteU32(uint32(len(list)))
	for _, c := range list {
		writeStringNonNil(w, c.AssetPath)
		w.WriteBool(c.IsNew)
	}
}

func readInvCustomizationEntries(r *Reader) ([]InvCustomizationEntry, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]InvCustomizationEntry, n)
	for i := range out {
		hash, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		isNew, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		out[i] = InvCustomizationEntry{Hash: hash, IsNew: isNew}
	}
	return out, nil
}

func writeInvCustomizationEntries(w *Writer, list []InvCustomizationEntry) {
	w.WriteU32(uint32(len(list)))
	for _, c := range list {
		w.WriteU32(c.Hash)
		w.WriteBool(c.IsNew)
	}
}

func readDecorationEntries(r *Reader, op string) ([]DecorationEntry, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]DecorationEntry, n)
	for i := range out {
		path, err := readStringNonNil(r, op)
		if err != nil {
			return nil, err
		}
		isNew, err := r.ReadBool()
		if err != nil {
			return nil, err
		}
		out[i] = DecorationEntry{AssetPath: path, IsNew: isNew}
	}
	return out, nil
}

func writeDecorationEntries(w *Writer, list []DecorationEntry) {
	w.WriteU32(uint32(len(list)))
	for _, d := range list {
		writeStringNonNil(w, d.AssetPath)
		w.WriteBool(d.IsNew)
	}
}

func readGuardianRewards(r *Reader, op string) ([]GuardianRewardEntry, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make([]GuardianRewardEntry, n)
	for i := range out {
		path, err := readStringNonNil(r, op)
		if err != nil {
			return nil, err
		}
		tokens, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = GuardianRewardEntry{RewardDataPath: path, NumTokens: tokens}
	}
	return out, nil
}

func writeGuardianRewards(w *Writer, list []GuardianRewardEntry) {
	w.WriteU32(uint32(len(list)))
	for _, g := range list {
		writeStringNonNil(w, g.RewardDataPath)
		w.WriteI32(g.NumTokens)
	}
}

// DecodeProfile decodes a Profile record from a deobfuscated payload.
func DecodeProfile(data []byte) (*Profile, error) {
	const op = "record.DecodeProfile"
	r := NewReader(data)
	if err := requireKind(r, KindProfile, op); err != nil {
		return nil, err
	}

	var p Profile
	var err error

	if p.BankSduList, err = readSduList(r, op); err != nil {
		return nil, err
	}
	if p.LostLootSduList, err = readSduList(r, op); err != nil {
		return nil, err
	}
	if p.BankInventoryList, err = readInventoryItems(r, op); err != nil {
		return nil, err
	}
	if p.LostLootInventoryList, err = readInventoryItems(r, op); err != nil {
		return nil, err
	}
	if p.UnlockedCustomizations, err = readCustomizationEntries(r, op); err != nil {
		return nil, err
	}
	if p.UnlockedInventoryCustomizationParts, err = readInvCustomizationEntries(r); err != nil {
		return nil, err
	}
	if p.UnlockedCrewQuartersDecorations, err = readDecorationEntries(r, op); err != nil {
		return nil, err
	}
	if p.BankInventoryCategoryList, err = readCurrencyList(r); err != nil {
		return nil, err
	}

	if p.GuardianRank.GuardianRank, err = r.ReadI32(); err != nil {
		return nil, err
	}
	if p.GuardianRank.GuardianExperience, err = r.ReadI32(); err != nil {
		return nil, err
	}
	if p.GuardianRank.GuardianAvailableTokens, err = r.ReadI32(); err != nil {
		return nil, err
	}
	if p.GuardianRank.GuardianRewardRandomSeed, err = r.ReadI32(); err != nil {
		return nil, err
	}
	if p.GuardianRank.Rewards, err = readGuardianRewards(r, op); err != nil {
		return nil, err
	}

	if r.Remaining() != 0 {
		return nil, errs.New(op, errs.BadFormat, "reason", "trailing bytes", "remaining", r.Remaining())
	}
	return &p, nil
}

// EncodeProfile serializes p in the same field order DecodeProfile
// expects.
func EncodeProfile(p *Profile) []byte {
	w := NewWriter()
	w.WriteByte(byte(KindProfile))

	writeSduList(w, p.BankSduList)
	writeSduList(w, p.LostLootSduList)
	writeInventoryItems(w, p.BankInventoryList)
	writeInventoryItems(w, p.LostLootInventoryList)
	writeCustomizationEntries(w, p.UnlockedCustomizations)
	writeInvCustomizationEntries(w, p.UnlockedInventoryCustomizationParts)
	writeDecorationEntries(w, p.UnlockedCrewQuartersDecorations)
	writeCurrencyList(w, p.BankInventoryCategoryList)

	w.WriteI32(p.GuardianRank.GuardianRank)
	w.WriteI32(p.GuardianRank.GuardianExperience)
	w.WriteI32(p.GuardianRank.GuardianAvailableTokens)
	w.WriteI32(p.GuardianRank.GuardianRewardRandomSeed)
	writeGuardianRewards(w, p.GuardianRank.Rewards)

	return w.Bytes()
}
