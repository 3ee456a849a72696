package sambuca

import (
	"fmt"

	"github.com/anuranus/sambuca-core/internal/envi"
)

// SpectralLibrary is a set of named spectra on a shared wavelength grid, as
// loaded from an ENVI spectral library pair. Depending on the source file
// the rows are either reflectance/radiance spectra or a sensor's per-band
// response curves.
type SpectralLibrary struct {
	// Names holds one entry per spectrum when the header carries spectra
	// names; otherwise it is nil.
	Names []string

	// Wavelengths is the wavelength grid in the header's units (typically
	// nanometers), one entry per sample. Nil when the header omits it.
	Wavelengths []float64

	// WavelengthUnits is the header's wavelength units field, if present.
	WavelengthUnits string

	// Spectra holds the sample values, one row per spectrum.
	Spectra [][]float64
}

// LoadSpectralLibrary reads an ENVI spectral library from its header file
// and binary body file.
func LoadSpectralLibrary(hdrPath, libPath string) (*SpectralLibrary, error) {
	header, err := envi.ReadHeaderFile(hdrPath)
	if err != nil {
		return nil, err
	}

	spectra, err := envi.ReadLibrary(libPath, header)
	if err != nil {
		return nil, err
	}

	return &SpectralLibrary{
		Names:           header.SpectraNames,
		Wavelengths:     header.Wavelengths,
		WavelengthUnits: header.WavelengthUnits,
		Spectra:         spectra,
	}, nil
}

// Len returns the number of spectra in the library.
func (l *SpectralLibrary) Len() int { return len(l.Spectra) }

// Spectrum returns a copy of the named spectrum. The second return value
// reports whether the name exists in the library.
func (l *SpectralLibrary) Spectrum(name string) ([]float64, bool) {
	for i, n := range l.Names {
		if n == name {
			return append([]float64(nil), l.Spectra[i]...), true
		}
	}
	return nil, false
}

// SensorFilter interprets the library's spectra as a sensor response matrix:
// each stored spectrum becomes one band's response curve, in storage order.
// This matches how instrument filter libraries are distributed.
func (l *SpectralLibrary) SensorFilter() (*SensorFilter, error) {
	f, err := NewSensorFilter(l.Spectra)
	if err != nil {
		return nil, fmt.Errorf("spectral library is not a response matrix: %w", err)
	}
	return f, nil
}
