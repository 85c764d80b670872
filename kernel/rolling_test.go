package kernel_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arqora/tsquant/kernel"
	"github.com/arqora/tsquant/qctx"
)

// W=0 means cumulative since the start of each group.
func TestSUMCumulativeAtZeroWindow(t *testing.T) {
	ctx := qctx.New()
	x := []float64{1, 2, 3, 4}
	y, err := kernel.SUM(ctx, x, 0)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{1, 3, 6, 10}, y)
}

func TestSUMCumulativeRestartsPerGroup(t *testing.T) {
	ctx := qctx.New(qctx.WithGroups(2))
	x := []float64{1, 2, 3, 10, 20, 30}
	y, err := kernel.SUM(ctx, x, 0)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{1, 3, 6, 10, 30, 60}, y)
}

func TestSUMNegativeWindowRejected(t *testing.T) {
	ctx := qctx.New()
	_, err := kernel.SUM(ctx, []float64{1, 2, 3}, -1)
	assert.ErrorIs(t, err, kernel.ErrBadParameter)
}

// PRODUCT must stay exact through sign changes and zeros, not just on
// all-positive inputs.
func TestPRODUCTHandlesNegativesAndZeros(t *testing.T) {
	ctx := qctx.New()
	x := []float64{2, -3, 4, 0, 5}
	y, err := kernel.PRODUCT(ctx, x, 2)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{2, -6, -12, 0, 0}, y)
}

func TestPRODUCTCumulative(t *testing.T) {
	ctx := qctx.New()
	x := []float64{2, 3, 4}
	y, err := kernel.PRODUCT(ctx, x, 0)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{2, 6, 24}, y)
}

func TestCOUNTCountsTruthyEntries(t *testing.T) {
	ctx := qctx.New()
	c := []float64{1, 0, 1, 1, 0}
	y, err := kernel.COUNT(ctx, c, 3)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{1, 1, 2, 2, 2}, y)
}

// Without SkipNaN a NaN predicate inside the window poisons the count;
// with it the window stretches past the missing sample.
func TestCOUNTNaNPolicy(t *testing.T) {
	nan := math.NaN()
	c := []float64{1, nan, 1, 0}

	strict := qctx.New()
	y, err := kernel.COUNT(strict, c, 2)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{1, nan, nan, 1}, y)

	skip := qctx.New(qctx.WithSkipNaN(true))
	y, err = kernel.COUNT(skip, c, 2)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{1, nan, 2, 1}, y)
}

func TestSUMIFTreatsNaNPredicateAsMissing(t *testing.T) {
	ctx := qctx.New()
	nan := math.NaN()
	x := []float64{1, 2, 3}
	c := []float64{1, nan, 1}
	y, err := kernel.SUMIF(ctx, x, c, 2)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{1, nan, nan}, y)
}

func TestSUMSkipNaNCarriesValidCount(t *testing.T) {
	ctx := qctx.New(qctx.WithSkipNaN(true))
	nan := math.NaN()
	x := []float64{1, 2, nan, 4}
	y, err := kernel.SUM(ctx, x, 2)
	require.NoError(t, err)
	// i=3 stretches back over the NaN to hold two valid samples: 2 and 4.
	assertCloseSlice(t, []float64{1, 3, nan, 6}, y)
}
