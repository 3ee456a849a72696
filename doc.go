// Package sambuca provides sensor filter resampling for hyperspectral data
// in pure Go.
//
// The core operation converts a finely sampled reflectance or radiance
// spectrum into the band values a specific optical sensor would record, by
// weighting the spectrum with the sensor's spectral response function and
// averaging over each band. This reproduces the behavior of the reference
// Sambuca processing chain, which has been validated against outputs
// generated independently by IDL and MATLAB pipelines.
//
// # Quick Start
//
// For one-shot resampling of a single spectrum:
//
//	filter, err := sambuca.NewSensorFilter(weights) // bands x wavelengths
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bands, err := sambuca.ApplySensorFilter(spectrum, filter)
//
// For repeated or batch resampling, build a reusable [Resampler]:
//
//	r, err := sambuca.New(&sambuca.Config{
//	    Filter:         filter,
//	    EnableParallel: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	resampled, err := r.ApplyBatch(spectra) // rows = spectra
//
// # Numeric Convention
//
// Each band value is the response-weighted average of the input spectrum:
//
//	out[b] = sum_j(w[b][j] * s[j]) / sum_j(w[b][j])
//
// Response curves are stored as raw sensitivity samples and normalization
// happens at apply time. See [ResponseConvention]. This is a fixed property
// of the package, not an option: the reference outputs the implementation is
// validated against were produced under this convention.
//
// # Data Orientation
//
// A sensor filter is always oriented bands x wavelengths: one row per band,
// one column per wavelength sample, on the same wavelength grid as the input
// spectra. Data stored in the transposed layout (common in MATLAB exports)
// must be converted with [Transpose] before constructing a [SensorFilter].
// Aligning the wavelength grids is the caller's responsibility; the filter
// carries no wavelength metadata of its own.
//
// Some observation sets carry fewer bands than the sensor filter defines
// (the CASI04 instrument files define 30 bands while the matching Moreton
// Bay observations have 28). Use [SensorFilter.Slice] to take a leading row
// subset explicitly; the transform itself never adjusts shapes.
//
// # Spectral Libraries
//
// Input spectra and response curves are commonly distributed as ENVI
// spectral library pairs (an ASCII .hdr header plus a binary .lib body).
// [LoadSpectralLibrary] reads such a pair; [SpectralLibrary.SensorFilter]
// interprets the library's spectra as a response matrix.
//
// # Thread Safety
//
// A [Resampler] is immutable after construction and safe for concurrent use
// by multiple goroutines. The package-level functions are pure: they do not
// mutate their inputs and return freshly allocated results.
package sambuca
