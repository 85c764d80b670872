package kernel_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arqora/tsquant/kernel"
	"github.com/arqora/tsquant/qctx"
)

func naiveRollingMin(x []float64, w int) []float64 {
	n := len(x)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i - w + 1
		if start < 0 {
			start = 0
		}
		best := math.Inf(1)
		for j := start; j <= i; j++ {
			if x[j] < best {
				best = x[j]
			}
		}
		y[i] = best
	}
	return y
}

func TestLLVMatchesNaive(t *testing.T) {
	ctx := qctx.New()
	x := randomSeries(7, 80, 0.0)
	for _, w := range []int{1, 2, 5, 50} {
		got, err := kernel.LLV(ctx, x, w)
		require.NoError(t, err)
		want := naiveRollingMin(x, w)
		assertCloseSlice(t, want, got)
	}
}

func TestHHVBARSOffsetToExtremum(t *testing.T) {
	ctx := qctx.New()
	x := []float64{1, 3, 2, 5, 4}
	y, err := kernel.HHVBARS(ctx, x, 3)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{0, 0, 1, 0, 1}, y)
}

func TestLLVBARSOffsetToExtremum(t *testing.T) {
	ctx := qctx.New()
	x := []float64{1, 3, 2, 5, 4}
	y, err := kernel.LLVBARS(ctx, x, 3)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{0, 1, 2, 1, 2}, y)
}

// A tied maximum resolves to the most recent bar holding it, so the
// bars-back offset is 0 on the later of the two.
func TestHHVBARSPrefersMostRecentTie(t *testing.T) {
	ctx := qctx.New()
	x := []float64{5, 1, 5}
	y, err := kernel.HHVBARS(ctx, x, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, y[2])
}

func TestHHVStrictlyCycleWarmUp(t *testing.T) {
	ctx := qctx.New(qctx.WithStrictlyCycle(true))
	x := []float64{1, 2, 3, 4}
	y, err := kernel.HHV(ctx, x, 3)
	require.NoError(t, err)
	nan := math.NaN()
	assertCloseSlice(t, []float64{nan, nan, 3, 4}, y)
}

func TestHHVNaNPoisonsWithoutSkip(t *testing.T) {
	ctx := qctx.New()
	nan := math.NaN()
	x := []float64{1, nan, 3, 4, 5}
	y, err := kernel.HHV(ctx, x, 3)
	require.NoError(t, err)
	// the NaN at index 1 sits inside the windows ending at 1, 2, and 3.
	assertCloseSlice(t, []float64{1, nan, nan, nan, 5}, y)
}

func TestHHVSkipNaNIgnoresMissing(t *testing.T) {
	ctx := qctx.New(qctx.WithSkipNaN(true))
	nan := math.NaN()
	x := []float64{1, nan, 3, 4, 5}
	y, err := kernel.HHV(ctx, x, 3)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{1, nan, 3, 4, 5}, y)
}

func TestHHVZeroWindowRejected(t *testing.T) {
	ctx := qctx.New()
	_, err := kernel.HHV(ctx, []float64{1, 2, 3}, 0)
	assert.ErrorIs(t, err, kernel.ErrBadParameter)
}
