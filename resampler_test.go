package sambuca

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anuranus/sambuca-core/internal/testutil"
)

const (
	// Batch size used by the parallel tests; large enough that the worker
	// pool actually fans out.
	testBatchSize = 64

	// Cross-implementation tolerance: the SIMD and scalar kernels accumulate
	// in different orders, so results agree to rounding, not bit-for-bit.
	crossImplTolerance = 1e-12
)

func newTestResampler(t *testing.T, simd, parallel bool) *Resampler {
	t.Helper()
	filter := mustFilter(t, testutil.SyntheticFilter(testBandsCASI, testSamples))
	r, err := New(&Config{
		Filter:         filter,
		EnableSIMD:     simd,
		EnableParallel: parallel,
	})
	require.NoError(t, err)
	return r
}

func testBatch(n int) [][]float64 {
	spectra := make([][]float64, n)
	for s := range spectra {
		spectra[s] = testutil.SyntheticSpectrum(testSamples, float64(s)*0.17)
	}
	return spectra
}

func TestConfigValidate(t *testing.T) {
	filter, err := NewSensorFilter(testutil.SyntheticFilter(4, 16))
	require.NoError(t, err)

	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{"valid", Config{Filter: filter}, nil},
		{"valid with workers", Config{Filter: filter, Workers: 8}, nil},
		{"missing filter", Config{}, ErrInvalidConfig},
		{"negative workers", Config{Filter: filter, Workers: -1}, ErrInvalidConfig},
		{"too many workers", Config{Filter: filter, Workers: maxWorkers + 1}, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

// The reusable resampler must compute exactly what the one-shot package
// function computes.
func TestResampler_ApplyMatchesPackageFunction(t *testing.T) {
	r := newTestResampler(t, true, false)
	spectrum := testutil.SyntheticSpectrum(testSamples, 0.3)

	fromResampler, err := r.Apply(spectrum)
	require.NoError(t, err)
	fromFunction, err := ApplySensorFilter(spectrum, r.Filter())
	require.NoError(t, err)

	assert.Equal(t, fromFunction, fromResampler)
}

func TestResampler_Apply_ShapeMismatch(t *testing.T) {
	r := newTestResampler(t, true, false)

	_, err := r.Apply(make([]float64, testSamples+1))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

// TestResampler_ScalarMatchesSIMD cross-checks the two kernel
// implementations against each other.
func TestResampler_ScalarMatchesSIMD(t *testing.T) {
	simd := newTestResampler(t, true, false)
	scalar := newTestResampler(t, false, false)
	spectrum := testutil.SyntheticSpectrum(testSamples, 1.5)

	simdOut, err := simd.Apply(spectrum)
	require.NoError(t, err)
	scalarOut, err := scalar.Apply(spectrum)
	require.NoError(t, err)

	testutil.AssertAllClose(t, scalarOut, simdOut, crossImplTolerance, 0)
}

// TestResampler_ParallelMatchesSequential verifies the parallel batch path
// is bit-identical to sequential processing.
func TestResampler_ParallelMatchesSequential(t *testing.T) {
	sequential := newTestResampler(t, true, false)
	parallel := newTestResampler(t, true, true)
	spectra := testBatch(testBatchSize)

	seqOut, err := sequential.ApplyBatch(spectra)
	require.NoError(t, err)
	parOut, err := parallel.ApplyBatch(spectra)
	require.NoError(t, err)

	require.Len(t, parOut, len(seqOut))
	for s := range seqOut {
		assert.Equal(t, seqOut[s], parOut[s], "spectrum %d", s)
	}
}

func TestResampler_ApplyBatch_PreservesInputOrder(t *testing.T) {
	r := newTestResampler(t, true, true)
	spectra := testBatch(testBatchSize)

	batch, err := r.ApplyBatch(spectra)
	require.NoError(t, err)

	for s, spectrum := range spectra {
		single, err := r.Apply(spectrum)
		require.NoError(t, err)
		assert.Equal(t, single, batch[s], "spectrum %d", s)
	}
}

func TestResampler_ApplyBatch_WorkerCap(t *testing.T) {
	filter := mustFilter(t, testutil.SyntheticFilter(4, 16))
	r, err := New(&Config{
		Filter:         filter,
		EnableSIMD:     true,
		EnableParallel: true,
		Workers:        3,
	})
	require.NoError(t, err)

	spectra := make([][]float64, 10)
	for s := range spectra {
		spectra[s] = testutil.SyntheticSpectrum(16, float64(s))
	}
	batch, err := r.ApplyBatch(spectra)
	require.NoError(t, err)
	require.Len(t, batch, len(spectra))

	for s, spectrum := range spectra {
		single, applyErr := r.Apply(spectrum)
		require.NoError(t, applyErr)
		assert.Equal(t, single, batch[s], "spectrum %d", s)
	}
}

func TestResampler_ApplyFloat32(t *testing.T) {
	r := newTestResampler(t, true, false)

	spectrum64 := testutil.SyntheticSpectrum(testSamples, 0.6)
	spectrum32 := make([]float32, len(spectrum64))
	for i, v := range spectrum64 {
		spectrum32[i] = float32(v)
	}

	out32, err := r.ApplyFloat32(spectrum32)
	require.NoError(t, err)
	require.Len(t, out32, testBandsCASI)

	// The float32 path must match the float64 path run on the rounded
	// inputs, to float32 precision.
	rounded := make([]float64, len(spectrum32))
	for i, v := range spectrum32 {
		rounded[i] = float64(v)
	}
	out64, err := r.Apply(rounded)
	require.NoError(t, err)
	for b := range out64 {
		assert.InDelta(t, out64[b], float64(out32[b]), 1e-7, "band %d", b)
	}
}

func TestNewSimple(t *testing.T) {
	filter := mustFilter(t, testutil.SyntheticFilter(4, 16))
	r, err := NewSimple(filter)
	require.NoError(t, err)
	assert.Same(t, filter, r.Filter())
}

func BenchmarkApplyBatchSequential(b *testing.B) {
	benchmarkApplyBatch(b, false)
}

func BenchmarkApplyBatchParallel(b *testing.B) {
	benchmarkApplyBatch(b, true)
}

func benchmarkApplyBatch(b *testing.B, parallel bool) {
	b.Helper()

	filter, err := NewSensorFilter(
		testutil.SyntheticFilter(testutil.QuickbirdBands, testutil.ReferenceSamples))
	if err != nil {
		b.Fatalf("Failed to build filter: %v", err)
	}

	r, err := New(&Config{
		Filter:         filter,
		EnableSIMD:     true,
		EnableParallel: parallel,
	})
	if err != nil {
		b.Fatalf("Failed to create resampler: %v", err)
	}

	spectra := make([][]float64, 256)
	for s := range spectra {
		spectra[s] = testutil.SyntheticSpectrum(testutil.ReferenceSamples, float64(s)*0.05)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := r.ApplyBatch(spectra); err != nil {
			b.Fatalf("ApplyBatch failed: %v", err)
		}
	}
}
