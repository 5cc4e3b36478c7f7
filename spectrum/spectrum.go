// Package spectrum implements the per-range-cell matrix of real and complex
// channels that follows the header on the wire (spec.md §3, §4.4): three
// real self-spectra, three complex cross-spectra, and an optional real
// quality channel, row-major and interleaved per range cell.
package spectrum

// Spectrum holds the six fixed channels plus the optional quality channel,
// each shaped [num_range_cells][num_doppler_cells]. Spectrum owns every
// array it holds exclusively; callers must not retain aliases across a
// subsequent decode into a new Spectrum.
type Spectrum struct {
	Antenna1 [][]float32
	Antenna2 [][]float32
	Antenna3 [][]float32

	Cross12 [][]complex64
	Cross13 [][]complex64
	Cross23 [][]complex64

	// Quality is nil unless the header's cskind is >= 2.
	Quality [][]float32
}

// HasQuality reports whether this Spectrum carries a quality channel.
func (s *Spectrum) HasQuality() bool { return s.Quality != nil }
