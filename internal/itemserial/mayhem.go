package itemserial

import "strings"

// mayhemParts maps a Mayhem-tier generic part's asset name to the tier
// it represents. Matched against the fixture catalog's
// Part_Mayhem_Level_NN naming; a live catalog would extend this table
// per new Mayhem seasons without changing the lookup logic.
var mayhemParts = map[string]int{
	"/Game/PatchDLC/Mayhem2/Gear/GenericParts/Part_Mayhem_Level_01": 1,
	"/Game/PatchDLC/Mayhem2/Gear/GenericParts/Part_Mayhem_Level_02": 2,
	"/Game/PatchDLC/Mayhem2/Gear/GenericParts/Part_Mayhem_Level_03": 3,
	"/Game/PatchDLC/Mayhem2/Gear/GenericParts/Part_Mayhem_Level_04": 4,
	"/Game/PatchDLC/Mayhem2/Gear/GenericParts/Part_Mayhem_Level_05": 5,
	"/Game/PatchDLC/Mayhem2/Gear/GenericParts/Part_Mayhem_Level_06": 6,
	"/Game/PatchDLC/Mayhem2/Gear/GenericParts/Part_Mayhem_Level_07": 7,
	"/Game/PatchDLC/Mayhem2/Gear/GenericParts/Part_Mayhem_Level_08": 8,
	"/Game/PatchDLC/Mayhem2/Gear/GenericParts/Part_Mayhem_Level_09": 9,
	"/Game/PatchDLC/Mayhem2/Gear/GenericParts/Part_Mayhem_Level_10": 10,
}

var tierToMayhemPart = func() map[int]string {
	m := make(map[int]string, len(mayhemParts))
	for name, tier := range mayhemParts {
		m[tier] = name
	}
	return m
}()

// canHaveMayhem lists the InventoryData paths Mayhem tiers can attach
// to — weapon categories only.
var canHaveMayhem = map[string]bool{
	"/Game/Gear/Weapons/_Shared/_Design/WeaponTypes/AssaultRifles/InvData_AssaultRifle": true,
	"/Game/Gear/Weapons/_Shared/_Design/WeaponTypes/Pistols/InvData_Pistol":              true,
	"/Game/Gear/Weapons/_Shared/_Design/WeaponTypes/Shotguns/InvData_Shotgun":            true,
	"/Game/Gear/Weapons/_Shared/_Design/WeaponTypes/SniperRifles/InvData_SniperRifle":    true,
}

// canHaveAnointment additionally covers shields, grenade mods,
// artifacts and class mods — anything that can carry a secondary
// on-action effect.
var canHaveAnointment = map[string]bool{
	"/Game/Gear/Weapons/_Shared/_Design/WeaponTypes/AssaultRifles/InvData_AssaultRifle": true,
	"/Game/Gear/Weapons/_Shared/_Design/WeaponTypes/Pistols/InvData_Pistol":              true,
	"/Game/Gear/Weapons/_Shared/_Design/WeaponTypes/Shotguns/InvData_Shotgun":            true,
	"/Game/Gear/Weapons/_Shared/_Design/WeaponTypes/SniperRifles/InvData_SniperRifle":    true,
	"/Game/Gear/Shields/_Design/InvData_Shield":                                         true,
	"/Game/Gear/GrenadeMods/_Design/InvData_GrenadeMod":                                 true,
	"/Game/Gear/Artifacts/_Design/InvData_Artifact":                                     true,
	"/Game/Gear/ClassMods/_Design/InvData_ClassMod":                                     true,
}

// CanHaveMayhem reports whether an item with the given InventoryData
// path is eligible to carry a Mayhem-tier generic part.
func CanHaveMayhem(inventoryKey string) bool {
	return canHaveMayhem[inventoryKey]
}

// CanHaveAnointment reports whether an item with the given
// InventoryData path is eligible to carry an anointment generic part.
func CanHaveAnointment(inventoryKey string) bool {
	return canHaveAnointment[inventoryKey]
}

func mayhemTierOf(genericPartName string) (int, bool) {
	tier, ok := mayhemParts[genericPartName]
	return tier, ok
}

func mayhemPartName(tier int) (string, bool) {
	name, ok := tierToMayhemPart[tier]
	return name, ok
}

// shortName returns the last path segment, unmodified in case (EngName's
// fallback when the name database has no entry for the balance).
func shortName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
