package kernel_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arqora/tsquant/kernel"
	"github.com/arqora/tsquant/qctx"
)

// NaN groups drop out of both the ranking and the denominator.
func TestRANKExcludesNaNGroups(t *testing.T) {
	ctx := qctx.New(qctx.WithGroups(4))
	nan := math.NaN()
	x := []float64{30, nan, 10, 20}
	y, err := kernel.RANK(ctx, x)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{1.0, nan, 0.0, 0.5}, y)
}

func TestRANKSingletonCrossSectionIsZero(t *testing.T) {
	ctx := qctx.New(qctx.WithGroups(3))
	nan := math.NaN()
	x := []float64{nan, 7, nan}
	y, err := kernel.RANK(ctx, x)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{nan, 0.0, nan}, y)
}

func TestRANKRanksEachTimeOffsetIndependently(t *testing.T) {
	ctx := qctx.New(qctx.WithGroups(2))
	// group 0: [1, 9], group 1: [5, 3]. Offset 0 orders (1,5); offset 1
	// orders (3,9).
	x := []float64{1, 9, 5, 3}
	y, err := kernel.RANK(ctx, x)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{0, 1, 1, 0}, y)
}

func TestBINSEqualCountBuckets(t *testing.T) {
	ctx := qctx.New(qctx.WithGroups(4))
	x := []float64{10, 20, 30, 40}
	y, err := kernel.BINS(ctx, x, 2)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{0, 0, 1, 1}, y)
}

// Equal values share a fractional rank, so they land in the same bin.
func TestBINSTiesShareABin(t *testing.T) {
	ctx := qctx.New(qctx.WithGroups(4))
	x := []float64{5, 5, 1, 9}
	y, err := kernel.BINS(ctx, x, 2)
	require.NoError(t, err)
	assert.Equal(t, y[0], y[1])
	assert.Equal(t, 0.0, y[2])
	assert.Equal(t, 1.0, y[3])
}

func TestBINSRejectsNonPositiveBinCount(t *testing.T) {
	ctx := qctx.New()
	_, err := kernel.BINS(ctx, []float64{1, 2}, 0)
	assert.ErrorIs(t, err, kernel.ErrBadParameter)
}

func TestTSRANKRanksWithinTrailingWindow(t *testing.T) {
	ctx := qctx.New()
	x := []float64{3, 1, 2, 5, 4}
	y, err := kernel.TS_RANK(ctx, x, 3)
	require.NoError(t, err)
	// i=2: 2 ranks between 1 and 3; i=3: 5 is the window max; i=4: 4 is
	// the middle of {2,5,4}.
	assertCloseSlice(t, []float64{0, 0, 0.5, 1, 0.5}, y)
}

// W=0 ranks the current value against the whole group prefix.
func TestTSRANKCumulativePrefix(t *testing.T) {
	ctx := qctx.New()
	x := []float64{1, 2, 3}
	y, err := kernel.TS_RANK(ctx, x, 0)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{0, 1, 1}, y)
}

func TestRANKRejectsSkipNaN(t *testing.T) {
	ctx := qctx.New(qctx.WithSkipNaN(true))
	_, err := kernel.RANK(ctx, []float64{1, 2})
	assert.ErrorIs(t, err, kernel.ErrUnsupported)
}
