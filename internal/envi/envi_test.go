package envi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anuranus/sambuca-core/internal/testutil"
)

func TestParseHeader_Basic(t *testing.T) {
	const header = `ENVI
description = {
  Quickbird test filter, 350-900nm}
samples = 4
lines = 2
bands = 1
header offset = 0
file type = ENVI Spectral Library
data type = 4
interleave = bsq
byte order = 0
wavelength units = Nanometers
wavelength = {
 350.0, 351.0,
 352.0, 353.0}
spectra names = {Band 1, Band 2}
`
	h, err := ParseHeader(strings.NewReader(header))
	require.NoError(t, err)

	assert.Equal(t, 4, h.Samples)
	assert.Equal(t, 2, h.Lines)
	assert.Equal(t, 1, h.Bands)
	assert.Equal(t, DataTypeFloat32, h.DataType)
	assert.Equal(t, "bsq", h.Interleave)
	assert.Equal(t, ByteOrderLittle, h.ByteOrder)
	assert.Equal(t, "ENVI Spectral Library", h.FileType)
	assert.Equal(t, "Nanometers", h.WavelengthUnits)
	assert.Equal(t, []float64{350, 351, 352, 353}, h.Wavelengths)
	assert.Equal(t, []string{"Band 1", "Band 2"}, h.SpectraNames)
}

func TestParseHeader_Defaults(t *testing.T) {
	h, err := ParseHeader(strings.NewReader("ENVI\nsamples = 3\nlines = 1\n"))
	require.NoError(t, err)
	assert.Equal(t, DataTypeFloat32, h.DataType)
	assert.Equal(t, ByteOrderLittle, h.ByteOrder)
	assert.Equal(t, 1, h.Bands)
	assert.Nil(t, h.Wavelengths)
}

func TestParseHeader_Errors(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"empty", ""},
		{"missing magic", "samples = 3\nlines = 1\n"},
		{"no dimensions", "ENVI\n"},
		{"bad int", "ENVI\nsamples = many\nlines = 1\n"},
		{"unterminated list", "ENVI\nsamples = 3\nlines = 1\nwavelength = {1, 2"},
		{"bil interleave", "ENVI\nsamples = 3\nlines = 1\ninterleave = bil\n"},
		{"int16 data", "ENVI\nsamples = 3\nlines = 1\ndata type = 2\n"},
		{"bad byte order", "ENVI\nsamples = 3\nlines = 1\nbyte order = 2\n"},
		{"wavelength count", "ENVI\nsamples = 3\nlines = 1\nwavelength = {1, 2}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(strings.NewReader(tt.header))
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestReadLibrary_Float32(t *testing.T) {
	spectra := [][]float64{
		{0.5, 0.25, 1.0},
		{2.0, 0.125, 0.75},
	}
	hdrPath, libPath := testutil.WriteSpectralLibrary(t, t.TempDir(), "f32",
		testutil.SpectralLibrarySpec{Spectra: spectra})

	h, err := ReadHeaderFile(hdrPath)
	require.NoError(t, err)

	got, err := ReadLibrary(libPath, h)
	require.NoError(t, err)
	// All fixture values are exactly representable in float32.
	assert.Equal(t, spectra, got)
}

func TestReadLibrary_Float64BigEndian(t *testing.T) {
	spectra := [][]float64{
		{0.123456789012345, -3.75, 1e-20},
	}
	hdrPath, libPath := testutil.WriteSpectralLibrary(t, t.TempDir(), "f64be",
		testutil.SpectralLibrarySpec{
			Spectra:   spectra,
			Float64:   true,
			BigEndian: true,
		})

	h, err := ReadHeaderFile(hdrPath)
	require.NoError(t, err)
	assert.Equal(t, DataTypeFloat64, h.DataType)
	assert.Equal(t, ByteOrderBig, h.ByteOrder)

	got, err := ReadLibrary(libPath, h)
	require.NoError(t, err)
	assert.Equal(t, spectra, got)
}

func TestReadLibrary_Truncated(t *testing.T) {
	spectra := [][]float64{{1, 2, 3}}
	hdrPath, libPath := testutil.WriteSpectralLibrary(t, t.TempDir(), "short",
		testutil.SpectralLibrarySpec{Spectra: spectra})

	h, err := ReadHeaderFile(hdrPath)
	require.NoError(t, err)
	h.Lines = 2 // claim more spectra than the body holds

	_, err = ReadLibrary(libPath, h)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestReadHeaderFile_Missing(t *testing.T) {
	_, err := ReadHeaderFile("does-not-exist.hdr")
	assert.Error(t, err)
}
