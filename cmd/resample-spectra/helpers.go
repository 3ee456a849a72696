package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	sambuca "github.com/anuranus/sambuca-core"
)

// ENVI spectral library file extensions.
const (
	hdrExt = ".hdr"
	libExt = ".lib"
)

// floatPrecision matches the shortest round-trippable float64 formatting.
const floatPrecision = -1

// loadLibrary resolves an ENVI pair from a common prefix. A prefix already
// carrying one of the pair extensions is accepted and stripped.
func loadLibrary(prefix string) (*sambuca.SpectralLibrary, error) {
	prefix = strings.TrimSuffix(strings.TrimSuffix(prefix, hdrExt), libExt)

	lib, err := sambuca.LoadSpectralLibrary(prefix+hdrExt, prefix+libExt)
	if err != nil {
		return nil, fmt.Errorf("failed to load spectral library %q: %w", prefix, err)
	}
	return lib, nil
}

// spectraNames returns one label per spectrum, falling back to positional
// labels when the library header carries no names.
func spectraNames(lib *sambuca.SpectralLibrary) []string {
	names := make([]string, lib.Len())
	for i := range names {
		if i < len(lib.Names) {
			names[i] = lib.Names[i]
		} else {
			names[i] = fmt.Sprintf("spectrum_%d", i+1)
		}
	}
	return names
}

// writeCSV writes one row per spectrum: its name followed by the band
// values. The header row labels bands band_1..band_B.
func writeCSV(path string, names []string, resampled [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if len(resampled) > 0 {
		if err := w.Write(csvHeader(len(resampled[0]))); err != nil {
			_ = f.Close()
			return err
		}
	}
	for i, row := range resampled {
		if err := w.Write(csvRecord(names[i], row)); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func csvHeader(bands int) []string {
	header := make([]string, bands+1)
	header[0] = "name"
	for b := 1; b <= bands; b++ {
		header[b] = fmt.Sprintf("band_%d", b)
	}
	return header
}

func csvRecord(name string, values []float64) []string {
	record := make([]string, len(values)+1)
	record[0] = name
	for i, v := range values {
		record[i+1] = strconv.FormatFloat(v, 'g', floatPrecision, 64)
	}
	return record
}
