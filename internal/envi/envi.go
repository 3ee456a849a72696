// Package envi reads ENVI spectral library pairs: an ASCII .hdr header
// describing layout and wavelength metadata, plus a binary .lib body holding
// the sample values. Only the subset of the ENVI format used by spectral
// libraries is supported (BSQ interleave, float32/float64 samples).
package envi

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ENVI data type codes for the sample formats this reader supports.
const (
	DataTypeFloat32 = 4
	DataTypeFloat64 = 5
)

// Byte order codes from the ENVI header specification.
const (
	ByteOrderLittle = 0
	ByteOrderBig    = 1
)

const (
	float32Size = 4
	float64Size = 8
)

// ErrFormat indicates a malformed or unsupported ENVI file.
var ErrFormat = errors.New("invalid ENVI file")

// Header holds the parsed fields of an ENVI header relevant to spectral
// libraries. For a spectral library, Lines is the number of stored spectra
// and Samples is the number of wavelength samples per spectrum.
type Header struct {
	Samples      int
	Lines        int
	Bands        int
	HeaderOffset int
	FileType     string
	DataType     int
	Interleave   string
	ByteOrder    int

	WavelengthUnits string
	Wavelengths     []float64
	SpectraNames    []string

	// Fields holds every raw key/value pair, including ones not broken out
	// above, keyed by the lowercased field name.
	Fields map[string]string
}

// ParseHeader parses an ENVI header from r.
func ParseHeader(r io.Reader) (*Header, error) {
	fields, err := scanFields(r)
	if err != nil {
		return nil, err
	}

	h := &Header{
		Bands:     1,
		DataType:  DataTypeFloat32,
		ByteOrder: ByteOrderLittle,
		Fields:    fields,
	}

	intFields := map[string]*int{
		"samples":       &h.Samples,
		"lines":         &h.Lines,
		"bands":         &h.Bands,
		"header offset": &h.HeaderOffset,
		"data type":     &h.DataType,
		"byte order":    &h.ByteOrder,
	}
	for name, dst := range intFields {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrFormat, name, err)
		}
		*dst = v
	}

	h.FileType = fields["file type"]
	h.Interleave = strings.ToLower(fields["interleave"])
	h.WavelengthUnits = fields["wavelength units"]

	if raw, ok := fields["wavelength"]; ok {
		h.Wavelengths, err = parseFloatList(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: wavelength list: %v", ErrFormat, err)
		}
	}
	if raw, ok := fields["spectra names"]; ok {
		h.SpectraNames = parseStringList(raw)
	}

	if h.Samples <= 0 || h.Lines <= 0 {
		return nil, fmt.Errorf("%w: samples=%d lines=%d", ErrFormat, h.Samples, h.Lines)
	}
	if h.Interleave != "" && h.Interleave != "bsq" {
		return nil, fmt.Errorf("%w: unsupported interleave %q", ErrFormat, h.Interleave)
	}
	if h.DataType != DataTypeFloat32 && h.DataType != DataTypeFloat64 {
		return nil, fmt.Errorf("%w: unsupported data type %d", ErrFormat, h.DataType)
	}
	if h.ByteOrder != ByteOrderLittle && h.ByteOrder != ByteOrderBig {
		return nil, fmt.Errorf("%w: unsupported byte order %d", ErrFormat, h.ByteOrder)
	}
	if len(h.Wavelengths) > 0 && len(h.Wavelengths) != h.Samples {
		return nil, fmt.Errorf("%w: %d wavelengths for %d samples",
			ErrFormat, len(h.Wavelengths), h.Samples)
	}

	return h, nil
}

// ReadHeaderFile parses the ENVI header at path.
func ReadHeaderFile(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := ParseHeader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// ReadLibrary reads the binary spectral library body described by h,
// returning a Lines x Samples matrix of float64 values.
func ReadLibrary(path string, h *Header) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if h.HeaderOffset > 0 {
		if _, err := f.Seek(int64(h.HeaderOffset), io.SeekStart); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	spectra, err := readBody(bufio.NewReader(f), h)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spectra, nil
}

func readBody(r io.Reader, h *Header) ([][]float64, error) {
	var order binary.ByteOrder = binary.LittleEndian
	if h.ByteOrder == ByteOrderBig {
		order = binary.BigEndian
	}

	sampleSize := float32Size
	if h.DataType == DataTypeFloat64 {
		sampleSize = float64Size
	}

	rowBuf := make([]byte, h.Samples*sampleSize)
	spectra := make([][]float64, h.Lines)
	for line := range spectra {
		if _, err := io.ReadFull(r, rowBuf); err != nil {
			return nil, fmt.Errorf("%w: spectrum %d: %v", ErrFormat, line, err)
		}

		row := make([]float64, h.Samples)
		for i := range row {
			chunk := rowBuf[i*sampleSize:]
			if h.DataType == DataTypeFloat64 {
				row[i] = math.Float64frombits(order.Uint64(chunk))
			} else {
				row[i] = float64(math.Float32frombits(order.Uint32(chunk)))
			}
		}
		spectra[line] = row
	}
	return spectra, nil
}

// scanFields reads the raw key = value pairs of a header. Values wrapped in
// braces may span multiple lines; the braces are stripped. The leading
// "ENVI" magic line is required.
func scanFields(r io.Reader) (map[string]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: empty header", ErrFormat)
	}
	if strings.TrimSpace(scanner.Text()) != "ENVI" {
		return nil, fmt.Errorf("%w: missing ENVI magic line", ErrFormat)
	}

	fields := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if strings.HasPrefix(value, "{") {
			for !strings.HasSuffix(value, "}") {
				if !scanner.Scan() {
					return nil, fmt.Errorf("%w: unterminated list for %q", ErrFormat, key)
				}
				value += " " + strings.TrimSpace(scanner.Text())
			}
			value = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(value, "{"), "}"))
		}

		fields[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}

func parseFloatList(raw string) ([]float64, error) {
	parts := splitList(raw)
	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func parseStringList(raw string) []string {
	return splitList(raw)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
