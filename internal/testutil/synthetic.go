package testutil

import "math"

// Synthetic fixture shape constants matching the reference instrument data:
// 551 wavelength samples covers 350-900nm at 1nm spacing.
const (
	ReferenceSamples = 551
	CASI04Bands      = 30
	QuickbirdBands   = 36
)

// SyntheticFilter returns a deterministic bands x samples response matrix of
// overlapping Gaussian band curves, shaped like a real instrument's spectral
// response function. Rows are raw sensitivity curves, not normalized.
func SyntheticFilter(bands, samples int) [][]float64 {
	m := make([][]float64, bands)
	for b := range m {
		row := make([]float64, samples)
		center := float64(samples) * (float64(b) + 0.5) / float64(bands)
		width := float64(samples) / (2.0 * float64(bands))
		for j := range row {
			x := (float64(j) - center) / width
			row[j] = math.Exp(-0.5 * x * x)
		}
		m[b] = row
	}
	return m
}

// SyntheticSpectrum returns a deterministic reflectance-like spectrum.
// Different phase values give distinct but reproducible spectra.
func SyntheticSpectrum(samples int, phase float64) []float64 {
	s := make([]float64, samples)
	for j := range s {
		x := float64(j) / float64(samples)
		s[j] = 0.05 + 0.03*math.Sin(8*math.Pi*x+phase) + 0.01*math.Cos(23*math.Pi*x)
	}
	return s
}

// ReferenceResample is an independent implementation of band-average
// resampling used to generate expected values. It accumulates with Kahan
// compensated summation so its rounding behavior differs from the production
// kernels, making agreement between the two meaningful.
func ReferenceResample(spectrum []float64, filter [][]float64) []float64 {
	out := make([]float64, len(filter))
	for b, row := range filter {
		var sum, weight, sumC, weightC float64
		for j, w := range row {
			y := w*spectrum[j] - sumC
			t := sum + y
			sumC = (t - sum) - y
			sum = t

			y = w - weightC
			t = weight + y
			weightC = (t - weight) - y
			weight = t
		}
		out[b] = sum / weight
	}
	return out
}
