package record

import "strings"

// SlotKind identifies one of the character's fixed equip slots.
type SlotKind int

const (
	SlotWeapon1 SlotKind = iota
	SlotWeapon2
	SlotWeapon3
	SlotWeapon4
	SlotShield
	SlotGrenadeMod
	SlotClassMod
	SlotArtifact
)

type slotInfo struct {
	Path  string
	Label string
}

var slotTable = map[SlotKind]slotInfo{
	SlotWeapon1:    {"/Game/GameData/SlotDefinitions/Slot_Weapon_1", "weapon1"},
	SlotWeapon2:    {"/Game/GameData/SlotDefinitions/Slot_Weapon_2", "weapon2"},
	SlotWeapon3:    {"/Game/GameData/SlotDefinitions/Slot_Weapon_3", "weapon3"},
	SlotWeapon4:    {"/Game/GameData/SlotDefinitions/Slot_Weapon_4", "weapon4"},
	SlotShield:     {"/Game/GameData/SlotDefinitions/Slot_Shield", "shield"},
	SlotGrenadeMod: {"/Game/GameData/SlotDefinitions/Slot_GrenadeMod", "grenademod"},
	SlotClassMod:   {"/Game/GameData/SlotDefinitions/Slot_ClassMod", "classmod"},
	SlotArtifact:   {"/Game/GameData/SlotDefinitions/Slot_Artifact", "artifact"},
}

var slotPathToKind = func() map[string]SlotKind {
	m := make(map[string]SlotKind, len(slotTable))
	for k, v := range slotTable {
		m[v.Path] = k
	}
	return m
}()

// SlotPath returns the slot_data_path asset for kind.
func SlotPath(kind SlotKind) string { return slotTable[kind].Path }

// SlotKindFromPath resolves a slot_data_path back to its SlotKind.
func SlotKindFromPath(path string) (SlotKind, bool) {
	k, ok := slotPathToKind[path]
	return k, ok
}

// SduKind identifies one of the fixed SDU (Storage Deck Upgrade) pools.
type SduKind int

const (
	SduBackpack SduKind = iota
	SduSniper
	SduShotgun
	SduGrenade
	SduRocket
	SduSMG
	SduAssaultRifle
	SduPistol
	SduBank
	SduLostLoot
)

type sduInfo struct {
	Path  string
	Max   int32
	Label string
}

var sduTable = map[SduKind]sduInfo{
	SduBackpack:     {"/Game/Pickups/SDU/SDU_Backpack", 13, "backpack"},
	SduSniper:       {"/Game/Pickups/SDU/SDU_SniperRifle", 10, "sniper"},
	SduShotgun:      {"/Game/Pickups/SDU/SDU_Shotgun", 10, "shotgun"},
	SduGrenade:      {"/Game/Pickups/SDU/SDU_GrenadeMod", 10, "grenade"},
	SduRocket:       {"/Game/Pickups/SDU/SDU_RocketLauncher", 10, "rocket"},
	SduSMG:          {"/Game/Pickups/SDU/SDU_SMG", 10, "smg"},
	SduAssaultRifle: {"/Game/Pickups/SDU/SDU_AssaultRifle", 10, "ar"},
	SduPistol:       {"/Game/Pickups/SDU/SDU_Pistol", 10, "pistol"},
	SduBank:         {"/Game/Pickups/SDU/SDU_Bank", 23, "bank"},
	SduLostLoot:     {"/Game/Pickups/SDU/SDU_LostLoot", 7, "lostloot"},
}

var sduPathToKind = func() map[string]SduKind {
	m := make(map[string]SduKind, len(sduTable))
	for k, v := range sduTable {
		m[v.Path] = k
	}
	return m
}()

// SduPath, SduMax, SduKindFromPath mirror the corresponding slot helpers.
func SduPath(kind SduKind) string { return sduTable[kind].Path }
func SduMax(kind SduKind) int32   { return sduTable[kind].Max }
func SduKindFromPath(path string) (SduKind, bool) {
	k, ok := sduPathToKind[path]
	return k, ok
}

// AmmoKind identifies one of the fixed ammo resource pools.
type AmmoKind int

const (
	AmmoSniper AmmoKind = iota
	AmmoShotgun
	AmmoGrenade
	AmmoRocket
	AmmoSMG
	AmmoAssaultRifle
	AmmoPistol
)

type ammoInfo struct {
	Path string
	Max  float32
}

var ammoTable = map[AmmoKind]ammoInfo{
	AmmoSniper:       {"/Game/GameData/Resources/Ammo/Resource_Ammo_SniperRifle", 204},
	AmmoShotgun:      {"/Game/GameData/Resources/Ammo/Resource_Ammo_Shotgun", 80},
	AmmoGrenade:      {"/Game/GameData/Resources/Ammo/Resource_Ammo_Grenade", 13},
	AmmoRocket:       {"/Game/GameData/Resources/Ammo/Resource_Ammo_Rocket", 48},
	AmmoSMG:          {"/Game/GameData/Resources/Ammo/Resource_Ammo_SMG", 900},
	AmmoAssaultRifle: {"/Game/GameData/Resources/Ammo/Resource_Ammo_AssaultRifle", 980},
	AmmoPistol:       {"/Game/GameData/Resources/Ammo/Resource_Ammo_Pistol", 500},
}

var ammoPathToKind = func() map[string]AmmoKind {
	m := make(map[string]AmmoKind, len(ammoTable))
	for k, v := range ammoTable {
		m[v.Path] = k
	}
	return m
}()

func AmmoPath(kind AmmoKind) string { return ammoTable[kind].Path }
func AmmoMax(kind AmmoKind) float32 { return ammoTable[kind].Max }
func AmmoKindFromPath(path string) (AmmoKind, bool) {
	k, ok := ammoPathToKind[path]
	return k, ok
}

// CurrencyKind identifies one of the category-list-keyed currencies.
// The hash values below are self-assigned markers distinguishing the
// categories in this module's own record format; they are not the
// real game's CRC32 category hashes (see DESIGN.md).
type CurrencyKind int

const (
	CurrencyMoney CurrencyKind = iota
	CurrencyEridium
	CurrencyGoldenKey
)

var currencyToHash = map[CurrencyKind]uint32{
	CurrencyMoney:     0x0D5EA6C9,
	CurrencyEridium:   0x14A1A1EB,
	CurrencyGoldenKey: 0x4B5A1237,
}

var hashToCurrency = func() map[uint32]CurrencyKind {
	m := make(map[uint32]CurrencyKind, len(currencyToHash))
	for k, v := range currencyToHash {
		m[v] = k
	}
	return m
}()

func CurrencyHash(kind CurrencyKind) uint32 { return currencyToHash[kind] }
func CurrencyKindFromHash(hash uint32) (CurrencyKind, bool) {
	k, ok := hashToCurrency[hash]
	return k, ok
}

// ChallengeKind identifies one of the challenges the mutation layer
// needs to reach directly (equip-slot unlocks, Takedown discovery,
// Eridian cube puzzle). Most challenges are addressed by path and need
// no enum entry.
type ChallengeKind int

const (
	ChallengeArtifactSlot ChallengeKind = iota
	ChallengeComSlotBeastmaster
	ChallengeComSlotGunner
	ChallengeComSlotOperative
	ChallengeComSlotSiren
	ChallengeTakedownDiscoveryCistern
	ChallengeTakedownDiscoverySlaughterstar
	ChallengeCubePuzzle
)

var challengeTable = map[ChallengeKind]string{
	ChallengeArtifactSlot:                   "/Game/GameData/Challenges/Unlocks/Challenge_Unlock_ArtifactSlot",
	ChallengeComSlotBeastmaster:             "/Game/GameData/Challenges/Unlocks/Challenge_Unlock_ComSlot_Beastmaster",
	ChallengeComSlotGunner:                  "/Game/GameData/Challenges/Unlocks/Challenge_Unlock_ComSlot_Gunner",
	ChallengeComSlotOperative:                "/Game/GameData/Challenges/Unlocks/Challenge_Unlock_ComSlot_Operative",
	ChallengeComSlotSiren:                   "/Game/GameData/Challenges/Unlocks/Challenge_Unlock_ComSlot_Siren",
	ChallengeTakedownDiscoveryCistern:       "/Game/GameData/Challenges/Discovery/Challenge_Discover_TakedownCistern",
	ChallengeTakedownDiscoverySlaughterstar: "/Game/GameData/Challenges/Discovery/Challenge_Discover_TakedownSlaughterstar",
	ChallengeCubePuzzle:                     "/Game/GameData/Challenges/Discovery/Challenge_EridianCubePuzzle",
}

func ChallengePath(kind ChallengeKind) string { return challengeTable[kind] }

// ComSlotChallengeForClass dispatches the class-mod-slot unlock
// challenge by the character's class selector path.
func ComSlotChallengeForClass(classSelectorPath string) (ChallengeKind, bool) {
	lower := strings.ToLower(classSelectorPath)
	switch {
	case strings.Contains(lower, "beastmaster"):
		return ChallengeComSlotBeastmaster, true
	case strings.Contains(lower, "gunner"):
		return ChallengeComSlotGunner, true
	case strings.Contains(lower, "operative"):
		return ChallengeComSlotOperative, true
	case strings.Contains(lower, "siren"):
		return ChallengeComSlotSiren, true
	default:
		return 0, false
	}
}

// VehicleKind identifies one of the fixed unlockable vehicle chassis.
type VehicleKind int

const (
	VehicleOutrunner VehicleKind = iota
	VehicleJetbeast
	VehicleTechnical
	VehicleCyclone
)

var vehicleChassisTable = map[VehicleKind]string{
	VehicleOutrunner: "/Game/PlayerVehicle/Outrunner/Chassis/Chassis_Outrunner",
	VehicleJetbeast:  "/Game/PlayerVehicle/Jetbeast/Chassis/Chassis_Jetbeast",
	VehicleTechnical: "/Game/PlayerVehicle/Technical/Chassis/Chassis_Technical",
	VehicleCyclone:   "/Game/PlayerVehicle/Cyclone/Chassis/Chassis_Cyclone",
}

func VehicleChassisPath(kind VehicleKind) string { return vehicleChassisTable[kind] }

// AllVehicleKinds lists every known chassis, in a stable order.
func AllVehicleKinds() []VehicleKind {
	return []VehicleKind{VehicleOutrunner, VehicleJetbeast, VehicleTechnical, VehicleCyclone}
}
