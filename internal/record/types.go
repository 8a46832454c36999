package record

// InventoryItem is one entry of an inventory_items list: the
// obfuscated serial plus the bookkeeping fields the save/profile layer
// needs without touching the serial's bit-packed contents.
type InventoryItem struct {
	ItemSerialNumber []byte
	PickupOrderIndex int32
	FlagBits         uint32 // seen=0x1, favorite=0x2, trash=0x4 (favorite/trash mutually exclusive)
	WeaponSkinPath   *string
}

const (
	FlagSeen     uint32 = 0x1
	FlagFavorite uint32 = 0x2
	FlagTrash    uint32 = 0x4
)

// EquippedSlot is one entry of equipped_inventory_list.
type EquippedSlot struct {
	SlotDataPath       string
	Enabled            bool
	InventoryListIndex int32 // -1 if nothing equipped
}

// MissionStatus is one entry of a per-playthrough mission list.
type MissionStatus struct {
	MissionClassPath string
	Status           int32
}

// GameState is one entry of a per-playthrough game-state array.
type GameState struct {
	MayhemLevel      int32
	MayhemRandomSeed int32
}

// SduEntry is one entry of an sdu_list.
type SduEntry struct {
	SduDataPath string
	SduLevel    int32
}

// ResourcePool is one entry of a resource_pools (ammo) list.
type ResourcePool struct {
	ResourcePath string
	Amount       float32
}

// CurrencyEntry is one entry of an inventory-category list.
type CurrencyEntry struct {
	BaseCategoryDefinitionHash uint32
	Amount                     int32
}

// ChallengeEntry is one entry of a challenge_data list.
type ChallengeEntry struct {
	ChallengeClassPath string
	CompletedCount     int32
	ProgressLevel      int32
}

// GameStat is one entry of a game_stats_data list.
type GameStat struct {
	StatPath  string
	StatValue int32
}

// SaveGuardianRank is the save-level guardian-rank block. Distinct
// from the profile-level block: zero_guardian_rank on the save only
// ever touches this one.
type SaveGuardianRank struct {
	GuardianRank            int32
	GuardianExperience      int32
	GuardianAvailableTokens int32
}

// AbilityData tracks the skill-tree grade unlocked by leveling.
type AbilityData struct {
	TreeGrade int32
}

// Character is the top-level message a BL3 savegame payload decodes
// into.
type Character struct {
	PreferredCharacterName string
	SelectedCustomization  string // class selector path
	ExperiencePoints       uint32
	PlaythroughsCompleted  int32

	MissionPlaythroughsData         [][]MissionStatus
	ActiveTravelStationsForPlaythrough [][]string
	LastActiveTravelStationForPlaythrough []string
	GameStatesPerPlaythrough         []GameState

	InventoryItems       []InventoryItem
	EquippedInventoryList []EquippedSlot
	SduList              []SduEntry
	ResourcePools        []ResourcePool
	InventoryCategoryList []CurrencyEntry
	ChallengeData        []ChallengeEntry
	VehiclesUnlocked     []string
	VehiclePartsUnlocked []string
	GuardianRank         SaveGuardianRank
	GameStatsData        []GameStat
	AbilityData          AbilityData

	SaveGameId   int32
	SaveGameGuid string // 32 uppercase hex chars, no dashes
}

// GuardianRewardEntry is one entry of a profile guardian-rank's reward
// list.
type GuardianRewardEntry struct {
	RewardDataPath string
	NumTokens      int32
}

// ProfileGuardianRank is the profile-level guardian-rank block.
type ProfileGuardianRank struct {
	GuardianRank             int32
	GuardianExperience       int32
	GuardianAvailableTokens  int32
	GuardianRewardRandomSeed int32
	Rewards                  []GuardianRewardEntry
}

// CustomizationEntry is one entry of unlocked_customizations (keyed by
// asset path): character skin, character head, ECHO theme, or emote.
type CustomizationEntry struct {
	AssetPath string
	IsNew     bool
}

// InvCustomizationEntry is one entry of
// unlocked_inventory_customization_parts (keyed by hash): weapon skins
// and trinkets.
type InvCustomizationEntry struct {
	Hash  uint32
	IsNew bool
}

// DecorationEntry is one entry of the crew-quarters decoration list.
type DecorationEntry struct {
	AssetPath string
	IsNew     bool
}

// Profile is the top-level message a BL3 profile payload decodes into.
type Profile struct {
	BankSduList     []SduEntry
	LostLootSduList []SduEntry

	BankInventoryList     []InventoryItem
	LostLootInventoryList []InventoryItem

	UnlockedCustomizations              []CustomizationEntry
	UnlockedInventoryCustomizationParts []InvCustomizationEntry
	UnlockedCrewQuartersDecorations     []DecorationEntry

	BankInventoryCategoryList []CurrencyEntry

	GuardianRank ProfileGuardianRank
}
