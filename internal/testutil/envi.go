package testutil

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// SpectralLibrarySpec describes an ENVI spectral library fixture to write.
type SpectralLibrarySpec struct {
	Wavelengths []float64 // optional, length must match spectra columns
	Names       []string  // optional spectra names
	Spectra     [][]float64

	Float64   bool // store samples as float64 (data type 5) instead of float32
	BigEndian bool
}

// WriteSpectralLibrary writes an ENVI .hdr/.lib fixture pair under dir and
// returns the two paths. Fixture spectra are written exactly as given (up to
// float32 rounding unless Float64 is set).
func WriteSpectralLibrary(t *testing.T, dir, name string, spec SpectralLibrarySpec) (hdrPath, libPath string) {
	t.Helper()

	samples := len(spec.Spectra[0])

	var hdr strings.Builder
	hdr.WriteString("ENVI\n")
	hdr.WriteString("description = {\n  test fixture}\n")
	fmt.Fprintf(&hdr, "samples = %d\n", samples)
	fmt.Fprintf(&hdr, "lines = %d\n", len(spec.Spectra))
	hdr.WriteString("bands = 1\n")
	hdr.WriteString("header offset = 0\n")
	hdr.WriteString("file type = ENVI Spectral Library\n")
	dataType := 4
	if spec.Float64 {
		dataType = 5
	}
	fmt.Fprintf(&hdr, "data type = %d\n", dataType)
	hdr.WriteString("interleave = bsq\n")
	byteOrder := 0
	if spec.BigEndian {
		byteOrder = 1
	}
	fmt.Fprintf(&hdr, "byte order = %d\n", byteOrder)
	if len(spec.Wavelengths) > 0 {
		hdr.WriteString("wavelength units = Nanometers\n")
		hdr.WriteString("wavelength = {\n ")
		for i, w := range spec.Wavelengths {
			if i > 0 {
				hdr.WriteString(",\n ")
			}
			hdr.WriteString(strconv.FormatFloat(w, 'f', -1, 64))
		}
		hdr.WriteString("}\n")
	}
	if len(spec.Names) > 0 {
		fmt.Fprintf(&hdr, "spectra names = {%s}\n", strings.Join(spec.Names, ", "))
	}

	hdrPath = filepath.Join(dir, name+".hdr")
	if err := os.WriteFile(hdrPath, []byte(hdr.String()), 0o644); err != nil {
		t.Fatalf("write header fixture: %v", err)
	}

	var order binary.AppendByteOrder = binary.LittleEndian
	if spec.BigEndian {
		order = binary.BigEndian
	}
	var body []byte
	for _, row := range spec.Spectra {
		for _, v := range row {
			if spec.Float64 {
				body = order.AppendUint64(body, math.Float64bits(v))
			} else {
				body = order.AppendUint32(body, math.Float32bits(float32(v)))
			}
		}
	}

	libPath = filepath.Join(dir, name+".lib")
	if err := os.WriteFile(libPath, body, 0o644); err != nil {
		t.Fatalf("write library fixture: %v", err)
	}
	return hdrPath, libPath
}
