package header

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hfradar/csfile/block"
	"github.com/hfradar/csfile/csio"
	"github.com/hfradar/csfile/errs"
)

func mustRegistry(t *testing.T) *block.Registry {
	t.Helper()
	reg, err := block.NewRegistry()
	require.NoError(t, err)
	return reg
}

func TestHeader_RoundTrip_AllVersions(t *testing.T) {
	reg := mustRegistry(t)

	base := &Header{
		Timestamp: time.Date(2024, 3, 15, 12, 30, 45, 0, time.UTC),
		CSKind:    2,
		SiteCode:  "SITE",

		CoverMinutes:    30,
		DeletedSource:   true,
		OverrideSource:  false,
		StartFreqMHz:    13.5,
		RepFreqMHz:      13.4,
		BandwidthKHz:    25,
		SweepUp:         true,
		NumDopplerCells: 128,
		NumRangeCells:   64,
		FirstRangeCell:  1,
		RangeCellDistKM: 1.5,

		OutputInterval:     1800,
		CreateTypeCode:     "CSPW",
		CreatorVersion:     "v1.0",
		NumActiveChannels:  3,
		NumSpectraChannels: 3,
		ActiveChannels:     0b111,
	}

	for version := 1; version <= 6; version++ {
		t.Run(versionName(version), func(t *testing.T) {
			h := *base
			h.Version = version
			if version == 6 {
				h.Blocks = []BlockEntry{
					{Tag: block.TagZONE, Value: "UTC"},
					{Tag: block.TagLOCA, Value: block.LocationBlock{Latitude: 36.9, Longitude: -122.0, AltitudeMeters: 10}},
				}
			}

			var buf bytes.Buffer
			require.NoError(t, WriteHeader(csio.NewWriter(&buf), &h, reg))

			got, err := ReadHeader(csio.NewReader(&buf), reg)
			require.NoError(t, err)

			require.Equal(t, h.Version, got.Version)
			require.True(t, h.Timestamp.Equal(got.Timestamp))
			if version >= 2 {
				require.Equal(t, h.CSKind, got.CSKind)
			}
			if version >= 3 {
				require.Equal(t, h.SiteCode, got.SiteCode)
			}
			if version >= 4 {
				require.Equal(t, h.NumRangeCells, got.NumRangeCells)
				require.Equal(t, h.NumDopplerCells, got.NumDopplerCells)
			}
			if version >= 5 {
				require.Equal(t, h.CreateTypeCode, got.CreateTypeCode)
			}
			if version == 6 {
				require.Len(t, got.Blocks, 2)
				require.Equal(t, block.TagZONE, got.Blocks[0].Tag)
				require.Equal(t, "UTC", got.Blocks[0].Value)
			}
		})
	}
}

func TestHeader_V1Extent_IsZero(t *testing.T) {
	reg := mustRegistry(t)
	h := &Header{Version: 1, Timestamp: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(csio.NewWriter(&buf), h, reg))
	require.Equal(t, 10, buf.Len())

	r := csio.NewReader(&buf)
	_, err := r.ReadInt16() // version
	require.NoError(t, err)
	_, err = r.ReadUint32() // timestamp
	require.NoError(t, err)
	extent, err := r.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(0), extent)
}

func TestHeader_UnsupportedVersion(t *testing.T) {
	reg := mustRegistry(t)
	var buf bytes.Buffer
	require.NoError(t, csio.NewWriter(&buf).WriteInt16(7))

	_, err := ReadHeader(csio.NewReader(&buf), reg)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrUnsupportedVersion)
}

func TestHeader_V6_MalformedSection(t *testing.T) {
	reg := mustRegistry(t)
	h := &Header{Version: 6, Timestamp: time.Now().UTC().Truncate(time.Second),
		Blocks: []BlockEntry{{Tag: block.TagZONE, Value: "UTC"}}}

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(csio.NewWriter(&buf), h, reg))

	// Corrupt the section_size field (the 4 bytes right after the v5 layer,
	// at offset 100) to claim more bytes than actually follow.
	corrupted := buf.Bytes()
	corrupted[100] = 0xFF
	corrupted[101] = 0xFF

	_, err := ReadHeader(csio.NewReader(bytes.NewReader(corrupted)), reg)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func TestHeader_String_GatesFieldsByVersion(t *testing.T) {
	h := &Header{Version: 2, Timestamp: time.Now().UTC(), CSKind: 1}
	s := h.String()
	require.Contains(t, s, "cskind")
	require.NotContains(t, s, "site_code")
}

func TestHeader_HasQuality(t *testing.T) {
	require.False(t, (&Header{CSKind: 0}).HasQuality())
	require.False(t, (&Header{CSKind: 1}).HasQuality())
	require.True(t, (&Header{CSKind: 2}).HasQuality())
}

func TestHeader_Block_FindsFirstOccurrence(t *testing.T) {
	h := &Header{Blocks: []BlockEntry{
		{Tag: block.TagZONE, Value: "UTC"},
		{Tag: block.TagCITY, Value: "Pacifica"},
	}}
	v, ok := h.Block(block.TagCITY)
	require.True(t, ok)
	require.Equal(t, "Pacifica", v)

	_, ok = h.Block(block.TagLOCA)
	require.False(t, ok)
}

func versionName(v int) string {
	names := map[int]string{1: "v1", 2: "v2", 3: "v3", 4: "v4", 5: "v5", 6: "v6"}
	return names[v]
}
