// Command resample-spectra applies a sensor's spectral response filter to
// every spectrum in an ENVI spectral library and writes the band values as
// CSV.
//
// Usage:
//
//	resample-spectra -filter casi04_350_900_1nm input_spectra output.csv
//	resample-spectra -filter qb_filter -bands 28 input_spectra output.csv
//	resample-spectra -filter qb_filter -parallel=false input_spectra out.csv
//
// Library arguments name an ENVI pair by its common prefix: "input_spectra"
// refers to input_spectra.hdr and input_spectra.lib. The -bands flag slices
// the filter to its first N bands before resampling, for observation sets
// that carry fewer bands than the instrument filter defines.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	sambuca "github.com/anuranus/sambuca-core"
)

const (
	// CLI defaults
	minRequiredArgs = 2
	allBands        = 0 // -bands value meaning "use the whole filter"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	filterPrefix := flag.String("filter", "", "Sensor filter spectral library prefix (.hdr/.lib pair, required)")
	bands := flag.Int("bands", allBands, "Slice the filter to its first N bands (0 = all)")
	parallel := flag.Bool("parallel", true, "Enable parallel batch processing")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if *filterPrefix == "" || len(args) < minRequiredArgs {
		fmt.Fprintln(os.Stderr, "Usage: resample-spectra -filter <library prefix> [options] <input library prefix> <output.csv>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputPrefix, outputPath := args[0], args[1]

	filter, err := loadSensorFilter(*filterPrefix, *bands, *verbose)
	if err != nil {
		return err
	}

	inputLib, err := loadLibrary(inputPrefix)
	if err != nil {
		return err
	}
	if *verbose {
		log.Printf("Input library: %d spectra, %d wavelength samples",
			inputLib.Len(), len(inputLib.Spectra[0]))
	}

	resampler, err := sambuca.New(&sambuca.Config{
		Filter:         filter,
		EnableSIMD:     true,
		EnableParallel: *parallel,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	resampled, err := resampler.ApplyBatch(inputLib.Spectra)
	if err != nil {
		return fmt.Errorf("resampling failed: %w", err)
	}
	if *verbose {
		log.Printf("Resampled %d spectra to %d bands in %v",
			len(resampled), filter.Bands(), time.Since(start))
	}

	if err := writeCSV(outputPath, spectraNames(inputLib), resampled); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if *verbose {
		log.Printf("Wrote %s", outputPath)
	}
	return nil
}

// loadSensorFilter reads the filter library and applies the optional band
// slice.
func loadSensorFilter(prefix string, bands int, verbose bool) (*sambuca.SensorFilter, error) {
	lib, err := loadLibrary(prefix)
	if err != nil {
		return nil, err
	}

	filter, err := lib.SensorFilter()
	if err != nil {
		return nil, err
	}
	if verbose {
		log.Printf("Sensor filter: %d bands, %d wavelength samples",
			filter.Bands(), filter.Samples())
	}

	if bands != allBands {
		filter, err = filter.Slice(bands)
		if err != nil {
			return nil, err
		}
		if verbose {
			log.Printf("Sliced filter to first %d bands", bands)
		}
	}
	return filter, nil
}
