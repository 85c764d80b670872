package kernel_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arqora/tsquant/kernel"
	"github.com/arqora/tsquant/qctx"
)

func TestNEUTRALIZERemovesCategoryMean(t *testing.T) {
	ctx := qctx.New(qctx.WithGroups(4))
	x := []float64{1, 3, 10, 20}
	cat := []float64{0, 0, 1, 1}
	y, err := kernel.NEUTRALIZE(ctx, x, cat)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{-1, 1, -5, 5}, y)
}

// A NaN value or category drops the group from its category mean and
// stays NaN in the output.
func TestNEUTRALIZEPropagatesNaN(t *testing.T) {
	ctx := qctx.New(qctx.WithGroups(3))
	nan := math.NaN()
	x := []float64{2, nan, 6}
	cat := []float64{1, 1, 1}
	y, err := kernel.NEUTRALIZE(ctx, x, cat)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{-2, nan, 2}, y)
}

// The residual sums to zero within each category cross-section.
func TestNEUTRALIZEResidualsSumToZero(t *testing.T) {
	ctx := qctx.New(qctx.WithGroups(6))
	x := randomSeries(8, 6, 0.0)
	cat := []float64{0, 1, 0, 1, 0, 1}
	y, err := kernel.NEUTRALIZE(ctx, x, cat)
	require.NoError(t, err)
	var even, odd float64
	for g := 0; g < 6; g++ {
		if g%2 == 0 {
			even += y[g]
		} else {
			odd += y[g]
		}
	}
	assert.InDelta(t, 0.0, even, 1e-9)
	assert.InDelta(t, 0.0, odd, 1e-9)
}

func TestFRETForwardReturn(t *testing.T) {
	ctx := qctx.New()
	open := []float64{10, 10, 10, 10}
	close := []float64{11, 12, 13, 14}
	isCalc := []float64{1, 1, 1, 1}
	y, err := kernel.FRET(ctx, open, close, isCalc, 0, 2)
	require.NoError(t, err)
	nan := math.NaN()
	// (close[i+1] - open[i]) / open[i]; the last bar has no lookahead.
	assertCloseSlice(t, []float64{0.2, 0.3, 0.4, nan}, y)
}

func TestFRETGatedByIsCalc(t *testing.T) {
	ctx := qctx.New()
	open := []float64{10, 10, 10}
	close := []float64{11, 12, 13}
	isCalc := []float64{1, 0, 1}
	y, err := kernel.FRET(ctx, open, close, isCalc, 0, 1)
	require.NoError(t, err)
	nan := math.NaN()
	assertCloseSlice(t, []float64{0.1, nan, 0.3}, y)
}

func TestFRETDelayShiftsEntry(t *testing.T) {
	ctx := qctx.New()
	open := []float64{10, 20, 40}
	close := []float64{11, 22, 44}
	isCalc := []float64{1, 1, 1}
	y, err := kernel.FRET(ctx, open, close, isCalc, 1, 1)
	require.NoError(t, err)
	nan := math.NaN()
	// entry at i+1: (close[i+1] - open[i+1]) / open[i+1].
	assertCloseSlice(t, []float64{0.1, 0.1, nan}, y)
}

func TestFRETRejectsBadParameters(t *testing.T) {
	ctx := qctx.New()
	series := []float64{1, 2}
	_, err := kernel.FRET(ctx, series, series, series, -1, 1)
	assert.ErrorIs(t, err, kernel.ErrBadParameter)
	_, err = kernel.FRET(ctx, series, series, series, 0, 0)
	assert.ErrorIs(t, err, kernel.ErrBadParameter)
}

func TestMAXMINElementwise(t *testing.T) {
	ctx := qctx.New()
	nan := math.NaN()
	x := []float64{1, 5, nan}
	y := []float64{3, 2, 4}

	hi, err := kernel.MAX(ctx, x, y)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{3, 5, nan}, hi)

	lo, err := kernel.MIN(ctx, x, y)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{1, 2, nan}, lo)
}

func TestPOWERElementwise(t *testing.T) {
	ctx := qctx.New()
	x := []float64{2, 3, 4}
	y := []float64{3, 2, 0.5}
	out, err := kernel.POWER(ctx, x, y)
	require.NoError(t, err)
	assertCloseSlice(t, []float64{8, 9, 2}, out)
}
