package spectrum

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hfradar/csfile/csio"
	"github.com/hfradar/csfile/errs"
	"github.com/hfradar/csfile/internal/pool"
	"github.com/hfradar/csfile/preprocess"
)

// Decode reads numRangeCells rows of numDopplerCells-wide real and complex
// channels from r, in the fixed channel order spec.md §4.4 dictates, then
// runs pre over each decoded channel (real channels directly; complex
// channels via their real and imaginary parts independently, recombined
// afterward). A nil pre is treated as preprocess.Identity.
func Decode(r *csio.Reader, numRangeCells, numDopplerCells int, hasQuality bool, pre preprocess.Processor) (*Spectrum, error) {
	if numRangeCells <= 0 || numDopplerCells <= 0 {
		return nil, fmt.Errorf("num_range_cells=%d num_doppler_cells=%d: %w",
			numRangeCells, numDopplerCells, errs.ErrInvalidDimensions)
	}
	if pre == nil {
		pre = preprocess.Identity
	}

	s := &Spectrum{
		Antenna1: make([][]float32, numRangeCells),
		Antenna2: make([][]float32, numRangeCells),
		Antenna3: make([][]float32, numRangeCells),
		Cross12:  make([][]complex64, numRangeCells),
		Cross13:  make([][]complex64, numRangeCells),
		Cross23:  make([][]complex64, numRangeCells),
	}
	if hasQuality {
		s.Quality = make([][]float32, numRangeCells)
	}

	for i := 0; i < numRangeCells; i++ {
		row, err := r.ReadFloat32N(numDopplerCells)
		if err != nil {
			return nil, err
		}
		s.Antenna1[i] = row

		if row, err = r.ReadFloat32N(numDopplerCells); err != nil {
			return nil, err
		}
		s.Antenna2[i] = row

		if row, err = r.ReadFloat32N(numDopplerCells); err != nil {
			return nil, err
		}
		s.Antenna3[i] = row

		crow, err := readComplexRow(r, numDopplerCells)
		if err != nil {
			return nil, err
		}
		s.Cross12[i] = crow

		if crow, err = readComplexRow(r, numDopplerCells); err != nil {
			return nil, err
		}
		s.Cross13[i] = crow

		if crow, err = readComplexRow(r, numDopplerCells); err != nil {
			return nil, err
		}
		s.Cross23[i] = crow

		if hasQuality {
			if row, err = r.ReadFloat32N(numDopplerCells); err != nil {
				return nil, err
			}
			s.Quality[i] = row
		}
	}

	s.Antenna1 = pre.Process(s.Antenna1)
	s.Antenna2 = pre.Process(s.Antenna2)
	s.Antenna3 = pre.Process(s.Antenna3)
	if hasQuality {
		s.Quality = pre.Process(s.Quality)
	}
	s.Cross12 = preprocessComplex(pre, s.Cross12)
	s.Cross13 = preprocessComplex(pre, s.Cross13)
	s.Cross23 = preprocessComplex(pre, s.Cross23)

	return s, nil
}

// Encode writes s in the fixed channel order, with no preprocessing: writers
// assume the values passed in are final (spec.md §4.4).
func Encode(w *csio.Writer, s *Spectrum) error {
	numRangeCells := len(s.Antenna1)
	for i := 0; i < numRangeCells; i++ {
		if err := w.WriteFloat32N(s.Antenna1[i]); err != nil {
			return err
		}
		if err := w.WriteFloat32N(s.Antenna2[i]); err != nil {
			return err
		}
		if err := w.WriteFloat32N(s.Antenna3[i]); err != nil {
			return err
		}
		if err := writeComplexRow(w, s.Cross12[i]); err != nil {
			return err
		}
		if err := writeComplexRow(w, s.Cross13[i]); err != nil {
			return err
		}
		if err := writeComplexRow(w, s.Cross23[i]); err != nil {
			return err
		}
		if s.Quality != nil {
			if err := w.WriteFloat32N(s.Quality[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// readComplexRow reads n interleaved (real, imag) float32 pairs, using a
// pooled scratch buffer to de-interleave before copying into the row's own
// complex64 storage.
func readComplexRow(r *csio.Reader, n int) ([]complex64, error) {
	scratch, release := pool.GetFloat32Row(2 * n)
	defer release()

	buf, err := r.ReadBytes(n * 2 * 4)
	if err != nil {
		return nil, err
	}
	for i := range scratch {
		scratch[i] = math.Float32frombits(binary.BigEndian.Uint32(buf[i*4 : i*4+4]))
	}

	row := make([]complex64, n)
	for i := range row {
		row[i] = complex(scratch[2*i], scratch[2*i+1])
	}
	return row, nil
}

func writeComplexRow(w *csio.Writer, row []complex64) error {
	interleaved := make([]float32, 2*len(row))
	for i, v := range row {
		interleaved[2*i] = real(v)
		interleaved[2*i+1] = imag(v)
	}
	return w.WriteFloat32N(interleaved)
}

// preprocessComplex applies pre to a complex channel's real and imaginary
// parts independently, then recombines them (spec.md §4.4).
func preprocessComplex(pre preprocess.Processor, rows [][]complex64) [][]complex64 {
	reals := make([][]float32, len(rows))
	imags := make([][]float32, len(rows))
	for i, row := range rows {
		r := make([]float32, len(row))
		im := make([]float32, len(row))
		for j, v := range row {
			r[j] = real(v)
			im[j] = imag(v)
		}
		reals[i] = r
		imags[i] = im
	}

	reals = pre.Process(reals)
	imags = pre.Process(imags)

	out := make([][]complex64, len(rows))
	for i := range rows {
		row := make([]complex64, len(reals[i]))
		for j := range row {
			row[j] = complex(reals[i][j], imags[i][j])
		}
		out[i] = row
	}
	return out
}
