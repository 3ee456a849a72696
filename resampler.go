package sambuca

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/anuranus/sambuca-core/internal/simdops"
)

const (
	// Minimum batch rows before parallel processing pays for goroutine
	// startup. Below this the sequential path is used even when parallel
	// processing is enabled.
	minParallelRows = 2

	// maxWorkers caps the worker pool for very wide machines; band
	// resampling is memory-bound well before this.
	maxWorkers = 64
)

// Config holds resampler configuration.
type Config struct {
	// Filter is the sensor's spectral response matrix. Required.
	Filter *SensorFilter

	// EnableSIMD allows the use of SIMD optimizations when available.
	// Set to false to force the portable scalar implementation.
	EnableSIMD bool

	// EnableParallel enables concurrent row processing in ApplyBatch.
	// Rows of a batch are independent, so results are bit-identical to
	// sequential processing. Has no effect on single-spectrum calls.
	EnableParallel bool

	// Workers is the number of goroutines used when EnableParallel is set.
	// Zero selects GOMAXPROCS.
	Workers int
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Filter == nil {
		return fmt.Errorf("%w: filter is required", ErrInvalidConfig)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative", ErrInvalidConfig)
	}
	if c.Workers > maxWorkers {
		return fmt.Errorf("%w: too many workers (max %d)", ErrInvalidConfig, maxWorkers)
	}
	return nil
}

// Resampler applies a fixed sensor filter to spectra. It precomputes the
// per-band weight totals once and reuses them across calls, making it the
// preferred form for repeated or batch resampling.
//
// A Resampler is immutable after construction and safe for concurrent use.
type Resampler struct {
	config Config
	ops    *simdops.Ops[float64]
}

// New creates a resampler with the specified configuration.
func New(config *Config) (*Resampler, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	ops := simdops.Scalar[float64]()
	if config.EnableSIMD {
		ops = simdops.For[float64]()
	}

	return &Resampler{config: *config, ops: ops}, nil
}

// NewSimple creates a resampler with sensible defaults: SIMD enabled,
// parallel batch processing enabled.
func NewSimple(filter *SensorFilter) (*Resampler, error) {
	return New(&Config{
		Filter:         filter,
		EnableSIMD:     true,
		EnableParallel: true,
	})
}

// Filter returns the sensor filter the resampler was built with.
func (r *Resampler) Filter() *SensorFilter { return r.config.Filter }

// Apply computes the band values for a single spectrum.
// See [ApplySensorFilter] for the contract.
func (r *Resampler) Apply(spectrum []float64) ([]float64, error) {
	f := r.config.Filter
	if len(spectrum) != f.Samples() {
		return nil, fmt.Errorf("%w: filter has %d wavelength samples, spectrum has %d",
			ErrShapeMismatch, f.Samples(), len(spectrum))
	}

	out := make([]float64, f.Bands())
	f.resampleInto(out, spectrum, r.ops)
	return out, nil
}

// ApplyFloat32 is like Apply but for float32 spectra. The input is converted
// to float64 for processing to keep full precision in the weighted sums; the
// conversion cost is small next to the dot products.
func (r *Resampler) ApplyFloat32(spectrum []float32) ([]float32, error) {
	spectrum64 := make([]float64, len(spectrum))
	for i, v := range spectrum {
		spectrum64[i] = float64(v)
	}

	out64, err := r.Apply(spectrum64)
	if err != nil {
		return nil, err
	}

	out := make([]float32, len(out64))
	for i, v := range out64 {
		out[i] = float32(v)
	}
	return out, nil
}

// ApplyBatch computes band values for a batch of spectra held as matrix
// rows, returning one output row per input row in input order. When the
// resampler was configured with EnableParallel, rows are distributed across
// a worker pool; per-row results are bit-identical to the sequential path.
func (r *Resampler) ApplyBatch(spectra [][]float64) ([][]float64, error) {
	f := r.config.Filter
	for s, spectrum := range spectra {
		if len(spectrum) != f.Samples() {
			return nil, fmt.Errorf("%w: filter has %d wavelength samples, spectrum %d has %d",
				ErrShapeMismatch, f.Samples(), s, len(spectrum))
		}
	}

	out := make([][]float64, len(spectra))

	if !r.config.EnableParallel || len(spectra) < minParallelRows {
		for s, spectrum := range spectra {
			out[s] = make([]float64, f.Bands())
			f.resampleInto(out[s], spectrum, r.ops)
		}
		return out, nil
	}

	workers := r.config.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(spectra) {
		workers = len(spectra)
	}

	// Each worker claims rows from a shared channel; every row writes only
	// its own output slot, so no further synchronization is needed.
	rows := make(chan int, len(spectra))
	for s := range spectra {
		rows <- s
	}
	close(rows)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range rows {
				result := make([]float64, f.Bands())
				f.resampleInto(result, spectra[s], r.ops)
				out[s] = result
			}
		}()
	}
	wg.Wait()

	return out, nil
}
