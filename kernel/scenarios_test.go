package kernel_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arqora/tsquant/kernel"
	"github.com/arqora/tsquant/qctx"
)

func assertCloseSlice(t *testing.T, want, got []float64) {
	t.Helper()
	if !assert.Equal(t, len(want), len(got)) {
		return
	}
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.Truef(t, math.IsNaN(got[i]), "index %d: want NaN, got %v", i, got[i])
			continue
		}
		assert.InDeltaf(t, want[i], got[i], 1e-9, "index %d", i)
	}
}

// S1: G=1, no flags, MA(x,3) over 1..10 is the cumulative-warm-up average.
func TestScenarioS1(t *testing.T) {
	ctx := qctx.New()
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	y, err := kernel.MA(ctx, x, 3)
	assert.NoError(t, err)
	assertCloseSlice(t, []float64{1.0, 1.5, 2.0, 3.0, 4.0, 5.0, 6.0, 7.0, 8.0, 9.0}, y)
}

// S2: same x, STRICTLY_CYCLE poisons the first W-1 outputs with NaN.
func TestScenarioS2(t *testing.T) {
	ctx := qctx.New(qctx.WithStrictlyCycle(true))
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	y, err := kernel.MA(ctx, x, 3)
	assert.NoError(t, err)
	nan := math.NaN()
	assertCloseSlice(t, []float64{nan, nan, 2.0, 3.0, 4.0, 5.0, 6.0, 7.0, 8.0, 9.0}, y)
}

// S3: SKIP_NAN grows the window past a NaN sample to collect exactly W
// valid values, but a NaN sample itself always outputs NaN.
func TestScenarioS3(t *testing.T) {
	ctx := qctx.New(qctx.WithSkipNaN(true))
	nan := math.NaN()
	x := []float64{1, 2, nan, 4, 5, 6, 7, 8, 9, 10}
	y, err := kernel.MA(ctx, x, 3)
	assert.NoError(t, err)
	assertCloseSlice(t, []float64{
		1.0, 1.5, nan, 7.0 / 3.0, 11.0 / 3.0, 5.0, 6.0, 7.0, 8.0, 9.0,
	}, y)
}

// S4: SUMIF sums x restricted to positions where c is truthy.
func TestScenarioS4(t *testing.T) {
	ctx := qctx.New()
	x := []float64{1, 2, 3, 4, 5}
	c := []float64{1, 0, 1, 0, 1}
	y, err := kernel.SUMIF(ctx, x, c, 3)
	assert.NoError(t, err)
	assertCloseSlice(t, []float64{1.0, 1.0, 4.0, 3.0, 8.0}, y)
}

// S5: SLOPE regresses x against the implicit position sequence; two
// concatenated groups, STRICTLY_CYCLE poisons the warm-up, every full
// window has slope exactly 2 since x advances by 2 each step.
func TestScenarioS5(t *testing.T) {
	ctx := qctx.New(qctx.WithGroups(2), qctx.WithStrictlyCycle(true))
	x := []float64{1, 3, 5, 7, 9, 1, 3, 5, 7, 9}
	y, err := kernel.SLOPE(ctx, x, 3)
	assert.NoError(t, err)
	nan := math.NaN()
	assertCloseSlice(t, []float64{nan, nan, 2.0, 2.0, 2.0, nan, nan, 2.0, 2.0, 2.0}, y)
}

// S6: cross-sectional RANK over 5 groups at one time offset, with
// average-rank ties, divided by (nonNaNGroups - 1).
func TestScenarioS6(t *testing.T) {
	ctx := qctx.New(qctx.WithGroups(5))
	x := []float64{4, 2, 4, 8, 0}
	y, err := kernel.RANK(ctx, x)
	assert.NoError(t, err)
	assertCloseSlice(t, []float64{0.625, 0.25, 0.625, 1.0, 0.0}, y)
}
