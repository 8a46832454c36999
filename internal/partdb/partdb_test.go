package partdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadIsCachedAndStable(t *testing.T) {
	db1, err := Load()
	require.NoError(t, err)
	db2, err := Load()
	require.NoError(t, err)
	require.Same(t, db1, db2)
}

func TestGetNumBitsStepFunction(t *testing.T) {
	db, err := Load()
	require.NoError(t, err)

	bits, ok := db.GetNumBits("InventoryBalanceData", 0)
	require.True(t, ok)
	require.Equal(t, 8, bits)

	// No version row exists above 0 in the fixture catalog; any later
	// version should still resolve to the last known row.
	bits, ok = db.GetNumBits("InventoryBalanceData", 99)
	require.True(t, ok)
	require.Equal(t, 8, bits)

	_, ok = db.GetNumBits("NoSuchCategory", 0)
	require.False(t, ok)
}

func TestGetPartAndIndexRoundTrip(t *testing.T) {
	db, err := Load()
	require.NoError(t, err)

	name, ok := db.GetPart("ManufacturerData", 1)
	require.True(t, ok)
	require.Equal(t, "/Game/Gear/Manufacturers/Atlas/Manufacturer_Atlas", name)

	idx, ok := db.GetPartIndex("ManufacturerData", name)
	require.True(t, ok)
	require.Equal(t, 1, idx)

	_, ok = db.GetPart("ManufacturerData", 0)
	require.False(t, ok)
	_, ok = db.GetPart("ManufacturerData", 999)
	require.False(t, ok)
	_, ok = db.GetPartIndex("ManufacturerData", "no such asset")
	require.False(t, ok)
}

func TestBalanceEnglishName(t *testing.T) {
	db, err := Load()
	require.NoError(t, err)

	name, ok := db.BalanceEnglishName("Balance_AR_Atlas_04_Rare")
	require.True(t, ok)
	require.Equal(t, "Atlas Assault Rifle", name)

	_, ok = db.BalanceEnglishName("Balance_Does_Not_Exist")
	require.False(t, ok)
}

func TestBalanceInvKeyNormalizesDotFreePaths(t *testing.T) {
	db, err := Load()
	require.NoError(t, err)

	withDot := "/Game/Gear/Shields/_Design/BalanceDefs/Balance_Shield_Standard_01.Balance_Shield_Standard_01"
	invKey, ok := db.BalanceInvKey(withDot)
	require.True(t, ok)
	require.Equal(t, "InventoryPartData_Shield", invKey)

	withoutDot := "/Game/Gear/Shields/_Design/BalanceDefs/Balance_Shield_Standard_01"
	invKey, ok = db.BalanceInvKey(withoutDot)
	require.True(t, ok)
	require.Equal(t, "InventoryPartData_Shield", invKey)
}

func TestShortBalanceName(t *testing.T) {
	require.Equal(t, "balance_shield_standard_01", ShortBalanceName(
		"/Game/Gear/Shields/_Design/BalanceDefs/Balance_Shield_Standard_01.Balance_Shield_Standard_01"))
	require.Equal(t, "balance_shield_standard_01", ShortBalanceName(
		"/Game/Gear/Shields/_Design/BalanceDefs/Balance_Shield_Standard_01"))
}

func TestMaxVersionReflectsFixtureCatalog(t *testing.T) {
	db, err := Load()
	require.NoError(t, err)
	require.Equal(t, 0, db.MaxVersion())
}
