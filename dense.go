package sambuca

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Dense returns the filter's weight matrix as a gonum dense matrix
// (bands x wavelength samples). The returned matrix is a copy.
func (f *SensorFilter) Dense() *mat.Dense {
	d := mat.NewDense(f.Bands(), f.Samples(), nil)
	for b, row := range f.weights {
		d.SetRow(b, row)
	}
	return d
}

// ResampleDense applies the sensor filter to spectra held in a gonum matrix
// (rows = spectra, columns = wavelength samples) and returns a matrix with
// one row per spectrum and one column per band. It exists for callers whose
// pipelines already work in gonum types; the numeric convention is the same
// band averaging as [ApplySensorFilter].
func ResampleDense(spectra mat.Matrix, filter *SensorFilter) (*mat.Dense, error) {
	if filter == nil {
		return nil, fmt.Errorf("%w: nil filter", ErrEmptyFilter)
	}
	rows, cols := spectra.Dims()
	if cols != filter.Samples() {
		return nil, fmt.Errorf("%w: filter has %d wavelength samples, spectra have %d columns",
			ErrShapeMismatch, filter.Samples(), cols)
	}

	// out = spectra * Wᵀ gives the raw weighted sums; dividing column b by
	// band b's total weight completes the band average.
	var out mat.Dense
	out.Mul(spectra, filter.Dense().T())
	for s := 0; s < rows; s++ {
		for b := 0; b < filter.Bands(); b++ {
			out.Set(s, b, out.At(s, b)/filter.rowSum[b])
		}
	}
	return &out, nil
}
