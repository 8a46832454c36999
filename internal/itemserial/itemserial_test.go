package itemserial

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/borderlands3/bl3save/internal/bitstream"
	"github.com/borderlands3/bl3save/internal/partdb"
)

func testDB(t *testing.T) *partdb.DB {
	t.Helper()
	db, err := partdb.Load()
	require.NoError(t, err)
	return db
}

// buildCanonical assembles a valid canonical serial for the fixture AR
// balance, directly through the encode helpers, for use as test input.
func buildCanonical(t *testing.T, db *partdb.DB, seed int32) []byte {
	t.Helper()
	h := header{
		Version:      0,
		Balance:      "/Game/Gear/Weapons/_Shared/_Design/BalanceDefs/Balance_AR_Atlas_04_Rare",
		InventoryKey: "/Game/Gear/Weapons/_Shared/_Design/WeaponTypes/AssaultRifles/InvData_AssaultRifle",
		Manufacturer: "/Game/Gear/Manufacturers/Atlas/Manufacturer_Atlas",
		Level:        30,
	}
	p := parts{
		PartIndices:        []int{1, 2},
		GenericPartIndices: nil,
		AdditionalData:     nil,
	}
	body, err := encodeFull(h, p, db, "InventoryPartData_AssaultRifle")
	require.NoError(t, err)
	return Obfuscate(body, seed)
}

func TestObfuscateDeobfuscateRoundTripAtSeed(t *testing.T) {
	for _, seed := range []int32{0, 12345, -98765, 1} {
		fields := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
		serial := Obfuscate(fields, seed)

		plaintext, gotSeed, err := Deobfuscate(serial)
		require.NoError(t, err)
		require.Equal(t, seed, gotSeed)
		require.Equal(t, fields, plaintext[2:])
	}
}

func TestDeobfuscateRejectsBadVersionMarker(t *testing.T) {
	serial := []byte{0x00, 0, 0, 0, 0, 0xAA}
	_, _, err := Deobfuscate(serial)
	require.Error(t, err)
}

func TestDeobfuscateRejectsTruncatedHeader(t *testing.T) {
	_, _, err := Deobfuscate([]byte{VersionMarker, 0, 0})
	require.Error(t, err)
}

func TestItemParsesHeaderAndParts(t *testing.T) {
	db := testDB(t)
	canonical := buildCanonical(t, db, 0)
	item := New(db, canonical)

	level, err := item.Level()
	require.NoError(t, err)
	require.Equal(t, 30, level)
	require.Equal(t, HeaderOnly, item.Tier())
	require.Equal(t, "Atlas Assault Rifle", item.EngName())

	require.Equal(t, 0, item.MayhemTier())
	require.Equal(t, WithParts, item.Tier())
}

func TestItemSetLevelRejectsOutOfRangeAndPreservesTail(t *testing.T) {
	db := testDB(t)
	canonical := buildCanonical(t, db, 0)
	item := New(db, canonical)

	require.NoError(t, item.SetLevel(57))
	level, err := item.Level()
	require.NoError(t, err)
	require.Equal(t, 57, level)

	reloaded := New(db, item.Serial())
	require.Equal(t, 0, reloaded.MayhemTier())
	require.Equal(t, WithParts, reloaded.Tier())

	require.Error(t, item.SetLevel(0))
	require.Error(t, item.SetLevel(101))
}

func TestItemMayhemTierSetAndClear(t *testing.T) {
	db := testDB(t)
	canonical := buildCanonical(t, db, 0)
	item := New(db, canonical)

	require.Equal(t, 0, item.MayhemTier())

	require.NoError(t, item.SetMayhemTier(4))
	require.Equal(t, 4, item.MayhemTier())

	require.NoError(t, item.SetMayhemTier(7))
	require.Equal(t, 7, item.MayhemTier())

	require.NoError(t, item.SetMayhemTier(0))
	require.Equal(t, 0, item.MayhemTier())
}

func TestItemAnointmentSetKeepsMayhemSeparate(t *testing.T) {
	db := testDB(t)
	canonical := buildCanonical(t, db, 0)
	item := New(db, canonical)

	require.NoError(t, item.SetMayhemTier(3))
	require.NoError(t, item.SetAnointment("/Game/Gear/Weapons/_Shared/Anointments/Part_Anoint_ASE_WeaponDamage"))

	anoint, ok := item.Anointment()
	require.True(t, ok)
	require.Equal(t, "/Game/Gear/Weapons/_Shared/Anointments/Part_Anoint_ASE_WeaponDamage", anoint)
	require.Equal(t, 3, item.MayhemTier())
}

func TestItemSetLevelAfterPartsMutationKeepsPartsChange(t *testing.T) {
	db := testDB(t)
	canonical := buildCanonical(t, db, 0)
	item := New(db, canonical)

	require.NoError(t, item.SetMayhemTier(6))
	require.NoError(t, item.SetLevel(33))

	reloaded := New(db, item.Serial())
	level, err := reloaded.Level()
	require.NoError(t, err)
	require.Equal(t, 33, level)
	require.Equal(t, 6, reloaded.MayhemTier())
}

func TestItemReencodeRoundTripsAtSameSeed(t *testing.T) {
	db := testDB(t)
	canonical := buildCanonical(t, db, 42)
	item := New(db, canonical)

	require.NoError(t, item.SetLevel(12))
	require.Equal(t, int32(42), item.Seed())

	serial := item.Serial()
	_, gotSeed, err := Deobfuscate(serial)
	require.NoError(t, err)
	require.Equal(t, int32(42), gotSeed)
}

func TestItemPartsMutationResetsSeedToZero(t *testing.T) {
	db := testDB(t)
	canonical := buildCanonical(t, db, 999)
	item := New(db, canonical)

	require.NoError(t, item.SetMayhemTier(5))
	require.Equal(t, int32(0), item.Seed())
}

func TestCanHaveMayhemAndAnointmentGating(t *testing.T) {
	require.True(t, CanHaveMayhem("/Game/Gear/Weapons/_Shared/_Design/WeaponTypes/AssaultRifles/InvData_AssaultRifle"))
	require.False(t, CanHaveMayhem("/Game/Gear/Shields/_Design/InvData_Shield"))
	require.True(t, CanHaveAnointment("/Game/Gear/Shields/_Design/InvData_Shield"))
}

func TestBitStreamEatRestAndAppendBitsRoundTrip(t *testing.T) {
	bs := bitstream.New([]byte{0xAB, 0xCD})
	v, err := bs.Eat(4)
	require.NoError(t, err)
	require.Equal(t, uint32(0xB), v)

	tail := bs.EatRest()
	require.Equal(t, 12, tail.Len())

	out := bitstream.Empty()
	out.AppendValue(0xB, 4)
	out.AppendBits(tail)
	require.Equal(t, []byte{0xAB, 0xCD}, out.GetData())
}
