package importexport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/borderlands3/bl3save/internal/config"
	"github.com/borderlands3/bl3save/internal/itemserial"
	"github.com/borderlands3/bl3save/internal/partdb"
)

func testDB(t *testing.T) *partdb.DB {
	t.Helper()
	db, err := partdb.Load()
	require.NoError(t, err)
	return db
}

const (
	testBalance     = "/Game/Gear/Weapons/_Shared/_Design/BalanceDefs/Balance_AR_Atlas_04_Rare"
	testInvKey      = "/Game/Gear/Weapons/_Shared/_Design/WeaponTypes/AssaultRifles/InvData_AssaultRifle"
	testManufacture = "/Game/Gear/Manufacturers/Atlas/Manufacturer_Atlas"
)

func buildSerial(t *testing.T, db *partdb.DB, seed int32) []byte {
	t.Helper()
	serial, err := itemserial.Build(db, testBalance, testInvKey, testManufacture, 30, nil, nil, seed)
	require.NoError(t, err)
	return serial
}

func TestParseAndFormatSerialRoundTrip(t *testing.T) {
	raw := []byte{0x03, 1, 2, 3, 4, 5, 6, 7}
	line := FormatSerial(raw)
	require.True(t, strings.HasPrefix(line, "BL3("))

	m := lineMarker.FindStringSubmatch(line)
	require.NotNil(t, m)
	decoded, err := ParseSerial(m[1])
	require.NoError(t, err)
	require.Equal(t, raw, decoded)
}

func TestImportTextSkipsBlankLinesAndParsesMarkers(t *testing.T) {
	db := testDB(t)
	serial := buildSerial(t, db, 99)
	text := "\n  \n" + FormatSerial(serial) + "\n"

	items, err := ImportText(strings.NewReader(text), db, config.Default())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Atlas Assault Rifle", items[0].EngName())
}

func TestImportTextSkipsCommentsAndUnrelatedLines(t *testing.T) {
	db := testDB(t)
	serial := buildSerial(t, db, 7)
	text := "# exported 2026-07-30\n" +
		"; another comment style\n" +
		"not a marker at all\n" +
		FormatSerial(serial) + "\n"

	items, err := ImportText(strings.NewReader(text), db, config.Default())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Atlas Assault Rifle", items[0].EngName())
}

func TestImportTextCarriesUnparseableItemsInsteadOfSkipping(t *testing.T) {
	db := testDB(t)
	garbage := FormatSerial([]byte{0x03, 0, 0, 0, 0, 0xAA, 0xBB})

	items, err := ImportText(strings.NewReader(garbage+"\n"), db, config.Default())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, itemserial.UnparseableHeader, items[0].Tier())
}

func TestImportCSVFindsMarkersAcrossCellsAndRows(t *testing.T) {
	db := testDB(t)
	serial := buildSerial(t, db, 1)
	csvText := "name,serial\n" +
		"item one,\"" + FormatSerial(serial) + "\"\n" +
		"item two,no marker here\n"

	items, err := ImportCSV(strings.NewReader(csvText), db, config.Default())
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestExportTextReseedsToZero(t *testing.T) {
	db := testDB(t)
	item := itemserial.New(db, buildSerial(t, db, 4242))
	item.Balance() // forces header parse so Seed() reflects the real embedded seed
	require.NotEqual(t, int32(0), item.Seed())

	var buf strings.Builder
	require.NoError(t, ExportText(&buf, []*itemserial.Item{item}))

	out := strings.TrimSpace(buf.String())
	m := lineMarker.FindStringSubmatch(out)
	require.NotNil(t, m)
	raw, err := ParseSerial(m[1])
	require.NoError(t, err)

	reimported := itemserial.New(db, raw)
	require.Equal(t, "Atlas Assault Rifle", reimported.EngName())
	require.Equal(t, int32(0), reimported.Seed())
}

func TestIsFabricatorBalance(t *testing.T) {
	require.True(t, isFabricatorBalance("/Game/Gear/Weapons/Fabricator/Balance_Fabricator"))
	require.False(t, isFabricatorBalance(testBalance))
}
