package sambuca

import (
	"errors"
	"fmt"

	"github.com/anuranus/sambuca-core/internal/simdops"
)

// ResponseConvention documents the fixed numeric convention applied by this
// package when a sensor filter is applied to a spectrum: every band value is
// the response-weighted average of the input,
//
//	out[b] = sum_j(w[b][j] * s[j]) / sum_j(w[b][j])
//
// Filter rows are raw, un-normalized sensitivity curves; the division by the
// row's total weight makes stored curve scaling irrelevant. The alternative
// convention (plain weighted sum over pre-normalized rows) is deliberately
// not offered because the validated reference outputs were produced under
// band averaging.
const ResponseConvention = "band-average"

// Common errors returned by the package.
var (
	// ErrShapeMismatch indicates the filter's wavelength sample count does
	// not match the input spectrum length.
	ErrShapeMismatch = errors.New("sensor filter shape mismatch")

	// ErrEmptyFilter indicates an empty or non-rectangular filter matrix.
	ErrEmptyFilter = errors.New("empty or ragged sensor filter")

	// ErrInvalidConfig indicates invalid resampler configuration parameters.
	ErrInvalidConfig = errors.New("invalid resampler configuration")
)

// SensorFilter is a sensor's spectral response matrix: one row per output
// band, one column per wavelength sample. A SensorFilter is immutable after
// construction and safe for concurrent use.
type SensorFilter struct {
	weights [][]float64 // bands x wavelength samples
	rowSum  []float64   // per-band total weight, precomputed
}

// NewSensorFilter builds a SensorFilter from a bands x wavelengths weight
// matrix. The matrix must be non-empty and rectangular; the weights are
// copied, so the caller may reuse the input slices.
func NewSensorFilter(weights [][]float64) (*SensorFilter, error) {
	if len(weights) == 0 || len(weights[0]) == 0 {
		return nil, fmt.Errorf("%w: no bands or no wavelength samples", ErrEmptyFilter)
	}

	samples := len(weights[0])
	f := &SensorFilter{
		weights: make([][]float64, len(weights)),
		rowSum:  make([]float64, len(weights)),
	}

	for b, row := range weights {
		if len(row) != samples {
			return nil, fmt.Errorf("%w: band %d has %d samples, band 0 has %d",
				ErrEmptyFilter, b, len(row), samples)
		}
		f.weights[b] = append([]float64(nil), row...)
		f.rowSum[b] = simdops.For[float64]().Sum(f.weights[b])
	}

	return f, nil
}

// Bands returns the number of sensor bands (matrix rows).
func (f *SensorFilter) Bands() int { return len(f.weights) }

// Samples returns the number of wavelength samples (matrix columns).
func (f *SensorFilter) Samples() int { return len(f.weights[0]) }

// Row returns a copy of band b's response curve.
func (f *SensorFilter) Row(b int) []float64 {
	return append([]float64(nil), f.weights[b]...)
}

// Slice returns a filter restricted to the first bands rows.
//
// This is the explicit form of the band alignment step some observation sets
// require: when observations carry fewer bands than the instrument filter
// defines, the reference processing chain takes the leading row subset
// before resampling. Slicing is order-preserving and does not alter any
// retained row's computation. The underlying weights are shared with the
// receiver, which is safe because filters are immutable.
func (f *SensorFilter) Slice(bands int) (*SensorFilter, error) {
	if bands < 1 || bands > f.Bands() {
		return nil, fmt.Errorf("%w: cannot slice %d of %d bands",
			ErrShapeMismatch, bands, f.Bands())
	}
	return &SensorFilter{
		weights: f.weights[:bands],
		rowSum:  f.rowSum[:bands],
	}, nil
}

// Transpose returns the transpose of a rectangular matrix. It is a
// convenience for response data stored wavelengths x bands (the layout used
// by MATLAB exports) that must be reoriented to the bands x wavelengths
// layout SensorFilter expects.
func Transpose(m [][]float64) [][]float64 {
	if len(m) == 0 || len(m[0]) == 0 {
		return nil
	}
	t := make([][]float64, len(m[0]))
	for i := range t {
		t[i] = make([]float64, len(m))
		for j := range m {
			t[i][j] = m[j][i]
		}
	}
	return t
}

// ApplySensorFilter computes the band values a sensor would record for the
// given input spectrum. The spectrum must be sampled on the same wavelength
// grid as the filter columns; out[b] is band b's response-weighted average
// of the spectrum (see [ResponseConvention]).
//
// The spectrum length must equal filter.Samples() or the call fails with
// [ErrShapeMismatch]. A band whose weights sum to zero yields NaN; non-finite
// input values propagate through the arithmetic unchanged.
func ApplySensorFilter(spectrum []float64, filter *SensorFilter) ([]float64, error) {
	if filter == nil {
		return nil, fmt.Errorf("%w: nil filter", ErrEmptyFilter)
	}
	if len(spectrum) != filter.Samples() {
		return nil, fmt.Errorf("%w: filter has %d wavelength samples, spectrum has %d",
			ErrShapeMismatch, filter.Samples(), len(spectrum))
	}

	out := make([]float64, filter.Bands())
	filter.resampleInto(out, spectrum, simdops.For[float64]())
	return out, nil
}

// ApplySensorFilterBatch applies the filter to a batch of spectra held as
// matrix rows and returns one output row per input row, in input order. Each
// row's result is identical to calling [ApplySensorFilter] on that row
// alone. Rows must all have length filter.Samples().
func ApplySensorFilterBatch(spectra [][]float64, filter *SensorFilter) ([][]float64, error) {
	if filter == nil {
		return nil, fmt.Errorf("%w: nil filter", ErrEmptyFilter)
	}
	for s, spectrum := range spectra {
		if len(spectrum) != filter.Samples() {
			return nil, fmt.Errorf("%w: filter has %d wavelength samples, spectrum %d has %d",
				ErrShapeMismatch, filter.Samples(), s, len(spectrum))
		}
	}

	ops := simdops.For[float64]()
	out := make([][]float64, len(spectra))
	for s, spectrum := range spectra {
		out[s] = make([]float64, filter.Bands())
		filter.resampleInto(out[s], spectrum, ops)
	}
	return out, nil
}

// resampleInto writes the band values for spectrum into out. Shapes must
// already be validated: len(out) == Bands(), len(spectrum) == Samples().
func (f *SensorFilter) resampleInto(out, spectrum []float64, ops *simdops.Ops[float64]) {
	for b, row := range f.weights {
		out[b] = ops.Dot(row, spectrum) / f.rowSum[b]
	}
}
