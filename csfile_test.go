package csfile

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hfradar/csfile/block"
	"github.com/hfradar/csfile/csio"
	"github.com/hfradar/csfile/errs"
	"github.com/hfradar/csfile/header"
	"github.com/hfradar/csfile/preprocess"
	"github.com/hfradar/csfile/spectrum"
)

func sampleSpectrum(numRangeCells, numDopplerCells int, hasQuality bool) *spectrum.Spectrum {
	s := &spectrum.Spectrum{}
	for i := 0; i < numRangeCells; i++ {
		real := make([]float32, numDopplerCells)
		cplx := make([]complex64, numDopplerCells)
		for j := range real {
			real[j] = float32(i*numDopplerCells + j)
			cplx[j] = complex(float32(i), float32(-j))
		}
		s.Antenna1 = append(s.Antenna1, append([]float32(nil), real...))
		s.Antenna2 = append(s.Antenna2, append([]float32(nil), real...))
		s.Antenna3 = append(s.Antenna3, append([]float32(nil), real...))
		s.Cross12 = append(s.Cross12, append([]complex64(nil), cplx...))
		s.Cross13 = append(s.Cross13, append([]complex64(nil), cplx...))
		s.Cross23 = append(s.Cross23, append([]complex64(nil), cplx...))
		if hasQuality {
			s.Quality = append(s.Quality, append([]float32(nil), real...))
		}
	}
	return s
}

// S1: Minimal v1. Bytes 00 01 | 00 00 00 00 | 00 00 00 00 decodes to
// version=1, timestamp=1904-01-01T00:00:00, v1_extent=0, zero spectrum.
func TestS1_MinimalV1(t *testing.T) {
	raw := []byte{0x00, 0x01, 0, 0, 0, 0, 0, 0, 0, 0}

	var rbuf bytes.Buffer
	rbuf.Write(raw)
	reg, err := block.NewRegistry()
	require.NoError(t, err)
	h, err := header.ReadHeader(csio.NewReader(&rbuf), reg)
	require.NoError(t, err)

	require.Equal(t, 1, h.Version)
	require.True(t, h.Timestamp.Equal(time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)))
}

// S3: v6 with one ZONE block payload "UTC" (3 bytes); section_size = 11, and
// the bytes immediately after the v5 extent are
// 00 00 00 0B | "ZONE" | 00 00 00 03 | "UTC".
func TestS3_V6SingleZoneBlock(t *testing.T) {
	h := &header.Header{
		Version:   6,
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		SiteCode:  "SITE",
		Blocks:    []header.BlockEntry{{Tag: block.TagZONE, Value: "UTC"}},
	}

	f := &CSFile{Header: h, Spectrum: sampleSpectrum(0, 1, false)}
	data, err := Dumps(f)
	require.NoError(t, err)

	// Byte 100 begins the v6 section: section_size (4) | tag (4) | size (4) | payload.
	require.Equal(t, []byte{0, 0, 0, 0x0B}, data[100:104])
	require.Equal(t, "ZONE", string(data[104:108]))
	require.Equal(t, []byte{0, 0, 0, 3}, data[108:112])
	require.Equal(t, "UTC", string(data[112:115]))
}

// S4: v6 with an unknown tag XXXX of 5 bytes. Round-trip preserves those
// bytes exactly.
func TestS4_UnknownTagRoundTrips(t *testing.T) {
	h := &header.Header{
		Version:   6,
		Timestamp: time.Now().UTC().Truncate(time.Second),
		NumRangeCells: 1, NumDopplerCells: 1,
		Blocks:    []header.BlockEntry{{Tag: "XXXX", Value: []byte{1, 2, 3, 4, 5}}},
	}
	f := &CSFile{Header: h, Spectrum: sampleSpectrum(1, 1, false)}

	data, err := Dumps(f)
	require.NoError(t, err)

	got, err := Loads(data)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4, 5}, got.Header.Blocks[0].Value)
}

// S5: v6 with cskind=2, num_range_cells=1, num_doppler_cells=1: spectrum is
// exactly 10 float32s (3 real + 3 complex + 1 quality).
func TestS5_QualityChannelPresence(t *testing.T) {
	h := &header.Header{
		Version: 6, Timestamp: time.Now().UTC().Truncate(time.Second),
		CSKind: 2, NumRangeCells: 1, NumDopplerCells: 1,
	}
	f := &CSFile{Header: h, Spectrum: sampleSpectrum(1, 1, true)}

	data, err := Dumps(f)
	require.NoError(t, err)

	got, err := Loads(data)
	require.NoError(t, err)
	q, ok := got.Quality()
	require.True(t, ok)
	require.Len(t, q, 1)
}

// S6: Registering two codecs for ZONE raises DuplicateTag at registration time.
func TestS6_DuplicateTagRegistration(t *testing.T) {
	_, err := block.NewRegistry(
		block.WithCodec(block.TagZONE, block.Codec{}),
		block.WithCodec(block.TagZONE, block.Codec{}),
	)
	require.ErrorIs(t, err, errs.ErrDuplicateTag)
}

func TestLoadDump_RoundTrip_V4(t *testing.T) {
	h := &header.Header{
		Version: 4, Timestamp: time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC),
		CSKind: 1, SiteCode: "ABCD",
		NumRangeCells: 2, NumDopplerCells: 3,
		StartFreqMHz: 13.5, RangeCellDistKM: 1.5,
	}
	f := &CSFile{Header: h, Spectrum: sampleSpectrum(2, 3, false)}

	data, err := Dumps(f)
	require.NoError(t, err)

	got, err := Loads(data)
	require.NoError(t, err)
	require.Equal(t, f.Spectrum, got.Spectrum)

	roundTripped, err := Dumps(got)
	require.NoError(t, err)
	require.Equal(t, data, roundTripped)
}

func TestLoad_WithPreprocess_Identity_IsDeterministic(t *testing.T) {
	h := &header.Header{Version: 4, Timestamp: time.Now().UTC().Truncate(time.Second),
		NumRangeCells: 1, NumDopplerCells: 2}
	f := &CSFile{Header: h, Spectrum: sampleSpectrum(1, 2, false)}

	data, err := Dumps(f)
	require.NoError(t, err)

	got, err := Loads(data, WithPreprocess(preprocess.Identity))
	require.NoError(t, err)
	require.Equal(t, f.Spectrum, got.Spectrum)
}

func TestDump_MismatchedSpectrumShape(t *testing.T) {
	h := &header.Header{Version: 4, Timestamp: time.Now().UTC().Truncate(time.Second),
		NumRangeCells: 3, NumDopplerCells: 2}
	f := &CSFile{Header: h, Spectrum: sampleSpectrum(1, 2, false)}

	_, err := Dumps(f)
	require.ErrorIs(t, err, errs.ErrInvalidDimensions)
}

// v1-v3 headers carry no num_range_cells/num_doppler_cells fields, so Load
// must return an empty Spectrum rather than driving Decode with 0x0
// dimensions (spec.md §8 property 3, scenario S1).
func TestLoad_PreV4_YieldsEmptySpectrum(t *testing.T) {
	for _, version := range []int{1, 2, 3} {
		h := &header.Header{Version: version, Timestamp: time.Now().UTC().Truncate(time.Second)}
		f := &CSFile{Header: h, Spectrum: &spectrum.Spectrum{}}

		data, err := Dumps(f)
		require.NoError(t, err)

		got, err := Loads(data)
		require.NoError(t, err)
		require.Equal(t, &spectrum.Spectrum{}, got.Spectrum)
	}
}
