package profile

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/borderlands3/bl3save/internal/config"
	"github.com/borderlands3/bl3save/internal/envelope"
	"github.com/borderlands3/bl3save/internal/errs"
	"github.com/borderlands3/bl3save/internal/itemserial"
	"github.com/borderlands3/bl3save/internal/partdb"
	"github.com/borderlands3/bl3save/internal/record"
)

func testDB(t *testing.T) *partdb.DB {
	t.Helper()
	db, err := partdb.Load()
	require.NoError(t, err)
	return db
}

func sampleRecord() *record.Profile {
	return &record.Profile{
		BankSduList:           []record.SduEntry{{SduDataPath: record.SduPath(record.SduBank), SduLevel: 3}},
		LostLootSduList:       []record.SduEntry{{SduDataPath: record.SduPath(record.SduLostLoot), SduLevel: 1}},
		BankInventoryList:     nil,
		LostLootInventoryList: nil,
		UnlockedCustomizations: []record.CustomizationEntry{
			{AssetPath: "/Game/Cosmetics/Heads/Zeta/Head_Zeta", IsNew: false},
		},
		UnlockedInventoryCustomizationParts: nil,
		UnlockedCrewQuartersDecorations:     nil,
		BankInventoryCategoryList:           nil,
		GuardianRank: record.ProfileGuardianRank{
			GuardianRewardRandomSeed: 555,
		},
	}
}

func loadTestProfile(t *testing.T) *Profile {
	t.Helper()
	db := testDB(t)
	rec := sampleRecord()
	env := &envelope.Envelope{Header: envelope.Header{SaveGameVersion: 2}, Payload: record.EncodeProfile(rec)}
	p, err := Load(db, config.Default(), env)
	require.NoError(t, err)
	return p
}

func TestGoldenKeysSetAndRejectNegative(t *testing.T) {
	p := loadTestProfile(t)
	require.Equal(t, int32(0), p.GoldenKeys())

	require.NoError(t, p.SetGoldenKeys(42))
	require.Equal(t, int32(42), p.GoldenKeys())

	require.ErrorIs(t, p.SetGoldenKeys(-1), errs.OutOfRange)
}

func TestSetMaxProfileSDUs(t *testing.T) {
	p := loadTestProfile(t)
	p.SetMaxProfileSDUs()

	require.Equal(t, record.SduMax(record.SduBank), p.BankSDUs()[record.SduBank])
	require.Equal(t, record.SduMax(record.SduLostLoot), p.LostLootSDUs()[record.SduLostLoot])
}

func TestCosmeticTotalIncludesDefaultsAndUnlocked(t *testing.T) {
	p := loadTestProfile(t)
	total := p.Total(CosmeticCharacterHead)
	require.Contains(t, total, "/Game/Cosmetics/Heads/Default/Head_Default")
	require.Contains(t, total, "/Game/Cosmetics/Heads/Zeta/Head_Zeta")
}

func TestUnlockCosmeticIsIdempotent(t *testing.T) {
	p := loadTestProfile(t)
	p.Unlock(CosmeticRoomDecoration, "/Game/Cosmetics/Decorations/Dec_Poster")
	p.Unlock(CosmeticRoomDecoration, "/Game/Cosmetics/Decorations/Dec_Poster")
	require.Len(t, p.Record().UnlockedCrewQuartersDecorations, 1)
}

func TestUnlockHashKeyedCosmeticRoundTrips(t *testing.T) {
	p := loadTestProfile(t)
	p.Unlock(CosmeticWeaponSkin, hashKey(0xDEADBEEF))
	require.Len(t, p.Record().UnlockedInventoryCustomizationParts, 1)
	require.Equal(t, uint32(0xDEADBEEF), p.Record().UnlockedInventoryCustomizationParts[0].Hash)
	require.Contains(t, p.GetCur(CosmeticWeaponSkin), hashKey(0xDEADBEEF))
}

func TestAlphabetizeCosmeticsSortsDecorations(t *testing.T) {
	p := loadTestProfile(t)
	p.Unlock(CosmeticRoomDecoration, "/Game/Cosmetics/Decorations/Dec_Zebra")
	p.Unlock(CosmeticRoomDecoration, "/Game/Cosmetics/Decorations/Dec_Apple")

	p.AlphabetizeCosmetics()

	list := p.Record().UnlockedCrewQuartersDecorations
	require.Len(t, list, 2)
	require.Equal(t, "/Game/Cosmetics/Decorations/Dec_Apple", list[0].AssetPath)
	require.Equal(t, "/Game/Cosmetics/Decorations/Dec_Zebra", list[1].AssetPath)
}

func TestClearAllCustomizationsEmptiesAllThreeLists(t *testing.T) {
	p := loadTestProfile(t)
	p.Unlock(CosmeticRoomDecoration, "/Game/Cosmetics/Decorations/Dec_Poster")
	p.Unlock(CosmeticWeaponSkin, hashKey(1))

	p.ClearAllCustomizations()

	require.Empty(t, p.Record().UnlockedCustomizations)
	require.Empty(t, p.Record().UnlockedInventoryCustomizationParts)
	require.Empty(t, p.Record().UnlockedCrewQuartersDecorations)
}

func TestZeroGuardianRankPreservesRewardSeed(t *testing.T) {
	p := loadTestProfile(t)
	p.Record().GuardianRank.GuardianRank = 99
	p.Record().GuardianRank.GuardianAvailableTokens = 5
	p.Record().GuardianRank.Rewards = []record.GuardianRewardEntry{{RewardDataPath: "x", NumTokens: 10}}

	p.ZeroGuardianRank()

	require.Equal(t, int32(0), p.Record().GuardianRank.GuardianRank)
	require.Equal(t, int32(0), p.Record().GuardianRank.GuardianAvailableTokens)
	require.Empty(t, p.Record().GuardianRank.Rewards)
	require.Equal(t, int32(555), p.Record().GuardianRank.GuardianRewardRandomSeed)
}

func TestMinGuardianRankOnZeroRankProfile(t *testing.T) {
	p := loadTestProfile(t)
	rank := p.MinGuardianRank()

	require.Equal(t, int32(len(knownRewardKinds)), rank)
	require.Equal(t, int32(0), p.Record().GuardianRank.GuardianAvailableTokens)
	for _, r := range p.Record().GuardianRank.Rewards {
		require.Equal(t, int32(1), r.NumTokens)
	}
}

func TestSetGuardianRankRewardLevelsForceAndNonForce(t *testing.T) {
	p := loadTestProfile(t)
	p.SetGuardianRankRewardLevels(5, false)
	for _, r := range p.Record().GuardianRank.Rewards {
		require.Equal(t, int32(5), r.NumTokens)
	}
	require.Equal(t, int32(5*len(knownRewardKinds)), p.Record().GuardianRank.GuardianRank)

	// non-force with a lower value leaves existing tokens untouched
	p.SetGuardianRankRewardLevels(2, false)
	for _, r := range p.Record().GuardianRank.Rewards {
		require.Equal(t, int32(5), r.NumTokens)
	}

	// force overwrites regardless of current value
	p.SetGuardianRankRewardLevels(1, true)
	for _, r := range p.Record().GuardianRank.Rewards {
		require.Equal(t, int32(1), r.NumTokens)
	}
}

func TestSetGuardianRankTokensRunsNonForceFixup(t *testing.T) {
	p := loadTestProfile(t)
	p.Record().GuardianRank.GuardianRank = 100
	p.SetGuardianRankTokens(3)

	require.Equal(t, int32(3), p.Record().GuardianRank.GuardianAvailableTokens)
	require.Equal(t, int32(100), p.Record().GuardianRank.GuardianRank, "existing higher rank must not be lowered")
}

func TestFixupGuardianRankForceLowersRank(t *testing.T) {
	p := loadTestProfile(t)
	p.Record().GuardianRank.GuardianRank = 100
	p.Record().GuardianRank.GuardianAvailableTokens = 3

	newRank, changed := p.FixupGuardianRank(true)
	require.True(t, changed)
	require.Equal(t, int32(3), newRank)
}

func TestAddBankItemAssignsPickupOrder(t *testing.T) {
	p := loadTestProfile(t)
	db := testDB(t)
	item := itemserial.New(db, []byte{0x00, 0, 0, 0, 0, 0x80, 0, 0, 0, 0, 0})

	idx := p.AddBankItem(item)
	require.Equal(t, 0, idx)
	require.Equal(t, int32(0), p.Record().BankInventoryList[0].PickupOrderIndex)

	idx2 := p.AddBankItem(item)
	require.Equal(t, 1, idx2)
	require.Equal(t, int32(1), p.Record().BankInventoryList[1].PickupOrderIndex)
}

func TestSaveRecordAndJSONRoundTrip(t *testing.T) {
	p := loadTestProfile(t)
	require.NoError(t, p.SetGoldenKeys(12))

	var recBuf bytes.Buffer
	require.NoError(t, p.SaveRecordTo(&recBuf))
	decoded, err := record.DecodeProfile(recBuf.Bytes())
	require.NoError(t, err)
	require.Equal(t, int32(12), p.GoldenKeys())
	require.Equal(t, decoded.BankInventoryCategoryList, p.Record().BankInventoryCategoryList)

	var jsonBuf bytes.Buffer
	require.NoError(t, p.SaveJSONTo(&jsonBuf))

	db := testDB(t)
	reloaded, err := ImportJSON(db, config.Default(), p.Env, &jsonBuf)
	require.NoError(t, err)
	require.Equal(t, int32(12), reloaded.GoldenKeys())
}

func TestSaveToProducesReadableEnvelope(t *testing.T) {
	p := loadTestProfile(t)
	var buf bytes.Buffer
	require.NoError(t, p.SaveTo(&buf))

	env, err := envelope.Read(&buf, envelope.KindProfile)
	require.NoError(t, err)

	decoded, err := record.DecodeProfile(env.Payload)
	require.NoError(t, err)
	require.Equal(t, p.Record().GuardianRank, decoded.GuardianRank)
}
