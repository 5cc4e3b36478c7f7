// Package preprocess implements the spectrum channel transforms applied by
// the spectrum codec after decode (spec.md §4.5): a small set of named,
// composable real-matrix transforms, grounded on gonum's floats/stat
// packages the way github.com/ausocean/av's probe tooling uses them for
// elementwise statistics (cmd/rv/probe.go).
package preprocess

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Processor transforms a real matrix (row-major, num_range_cells rows of
// num_doppler_cells float32 each) into a matrix of the same shape.
// Implementations must be pure: same input, same output, no retained state.
type Processor interface {
	Process(rows [][]float32) [][]float32
}

// ProcessorFunc adapts a plain function to Processor.
type ProcessorFunc func(rows [][]float32) [][]float32

// Process calls f.
func (f ProcessorFunc) Process(rows [][]float32) [][]float32 { return f(rows) }

// Identity returns its input unchanged, with no copy: the default
// preprocessor when none is supplied (spec.md §4.5).
var Identity Processor = ProcessorFunc(func(rows [][]float32) [][]float32 { return rows })

// Abs replaces every element with its absolute value.
var Abs Processor = ProcessorFunc(func(rows [][]float32) [][]float32 {
	return mapRows(rows, func(v float32) float32 {
		return float32(math.Abs(float64(v)))
	})
})

// Rectifier clamps every element to max(x, 0).
var Rectifier Processor = ProcessorFunc(func(rows [][]float32) [][]float32 {
	return mapRows(rows, func(v float32) float32 {
		if v < 0 {
			return 0
		}
		return v
	})
})

// Normalize affine-rescales the matrix so its minimum maps to 0 and its
// maximum to 1. On a constant matrix (max == min) the rescale is undefined;
// Normalize documents and returns all zeros in that case rather than
// dividing by zero (spec.md §4.5 permits either choice).
var Normalize Processor = ProcessorFunc(func(rows [][]float32) [][]float32 {
	flat := flatten(rows)
	if len(flat) == 0 {
		return rows
	}
	min, max := floats.Min(flat), floats.Max(flat)
	span := max - min
	return mapRows(rows, func(v float32) float32 {
		if span == 0 {
			return 0
		}
		return (v - float32(min)) / float32(span)
	})
})

// GainCalculator converts volts² input to decibels relative to reference,
// assuming the given impedance: 10*log10(x/impedance) - reference (spec.md
// §4.5).
func GainCalculator(reference, impedance float64) Processor {
	if impedance == 0 {
		impedance = 50
	}
	return ProcessorFunc(func(rows [][]float32) [][]float32 {
		return mapRows(rows, func(v float32) float32 {
			return float32(10*math.Log10(float64(v)/impedance) - reference)
		})
	})
}

// DefaultGainCalculator is GainCalculator with reference=0, impedance=50,
// the defaults spec.md §4.5 names.
func DefaultGainCalculator() Processor {
	return GainCalculator(0, 50)
}

// Composite applies each stage in order, the output of one feeding the
// next. Composite is associative: Composite(Composite(a,b),c) and
// Composite(a,Composite(b,c)) agree on every input, since both simply chain
// a, b, c in sequence.
func Composite(stages ...Processor) Processor {
	return ProcessorFunc(func(rows [][]float32) [][]float32 {
		for _, stage := range stages {
			rows = stage.Process(rows)
		}
		return rows
	})
}

func mapRows(rows [][]float32, f func(float32) float32) [][]float32 {
	out := make([][]float32, len(rows))
	for i, row := range rows {
		o := make([]float32, len(row))
		for j, v := range row {
			o[j] = f(v)
		}
		out[i] = o
	}
	return out
}

func flatten(rows [][]float32) []float64 {
	n := 0
	for _, row := range rows {
		n += len(row)
	}
	out := make([]float64, 0, n)
	for _, row := range rows {
		for _, v := range row {
			out = append(out, float64(v))
		}
	}
	return out
}
