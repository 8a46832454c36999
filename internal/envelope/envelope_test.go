package envelope

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/borderlands3/bl3save/internal/errs"
)

func strp(s string) *string { return &s }

func sampleHeader() Header {
	return Header{
		SaveGameVersion:     2,
		PackageVersion:      25,
		EngineMajor:         4,
		EngineMinor:         23,
		EnginePatch:         0,
		EngineChangelist:    0,
		BuildID:             strp("++Oak+Release-7.10"),
		CustomFormatVersion: 2,
		CustomFormats: []FormatEntry{
			{GUID: GUID{0x01, 0x02, 0x03}, Entry: 42},
		},
		SaveGameType: strp("OakSaveGame"),
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	h := sampleHeader()
	payload := []byte("pretend-protobuf-bytes-of-arbitrary-length-ok")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, h, payload, KindSave))

	env, err := Read(&buf, KindSave)
	require.NoError(t, err)
	require.Equal(t, h.SaveGameVersion, env.Header.SaveGameVersion)
	require.Equal(t, h.BuildID, env.Header.BuildID)
	require.Equal(t, h.SaveGameType, env.Header.SaveGameType)
	require.Equal(t, h.CustomFormats, env.Header.CustomFormats)
	require.Equal(t, payload, env.Payload)
}

func TestReadRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("NOPE")
	_, err := Read(buf, KindSave)
	require.ErrorIs(t, err, errs.BadFormat)
}

func TestReadRejectsTrailingBytes(t *testing.T) {
	h := sampleHeader()
	payload := []byte("hello")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, h, payload, KindSave))
	buf.WriteByte(0xFF)

	_, err := Read(&buf, KindSave)
	require.Error(t, err)
}

func TestStringEncodingConventions(t *testing.T) {
	var buf bytes.Buffer
	writeStr(&buf, nil)
	writeStr(&buf, strp(""))
	writeStr(&buf, strp("abc"))

	got1, err := readStr(&buf)
	require.NoError(t, err)
	require.Nil(t, got1)

	got2, err := readStr(&buf)
	require.NoError(t, err)
	require.Equal(t, "", *got2)

	got3, err := readStr(&buf)
	require.NoError(t, err)
	require.Equal(t, "abc", *got3)
}

func TestObfuscateDeobfuscateRoundTrip(t *testing.T) {
	for _, kind := range []Kind{KindSave, KindProfile} {
		plain := bytes.Repeat([]byte("abcdefghijklmnopqrstuvwxyz012345"), 4)
		original := append([]byte(nil), plain...)

		Obfuscate(plain, kind)
		require.NotEqual(t, original, plain)

		Deobfuscate(plain, kind)
		require.Equal(t, original, plain)
	}
}
