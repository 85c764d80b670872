package kernel

import (
	"fmt"
	"math"

	"github.com/arqora/tsquant/dispatch"
	"github.com/arqora/tsquant/qctx"
)

// FRET is the forward return labeling utility used to score alpha
// signals against a future outcome:
//
//	FRET(open, close, isCalc, delay, periods)[i] =
//	    (close[i+delay+periods-1] - open[i+delay]) / open[i+delay]
//
// when isCalc[i+delay] is truthy (non-zero, non-NaN), and NaN whenever
// any referenced index runs past the end of the group or the gate is
// false.
//
// FRET is the one deliberately non-causal kernel in the package: its
// output at i depends on samples strictly ahead of i. It exists purely
// to compute labels for offline evaluation and must never be used as
// an input to a signal that will itself be evaluated causally.
func FRET(ctx qctx.Context, open, close, isCalc []float64, delay, periods int) ([]float64, error) {
	if delay < 0 {
		return nil, fmt.Errorf("FRET: %w: delay %d is negative", ErrBadParameter, delay)
	}
	if periods < 1 {
		return nil, fmt.Errorf("FRET: %w: periods %d must be at least 1", ErrBadParameter, periods)
	}
	if err := checkNoSkipNaN("FRET", ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.Groups3(ctx, "FRET", open, close, isCalc, func(so, sc, sg []float64) ([]float64, error) {
		m := len(so)
		out := make([]float64, m)
		for i := 0; i < m; i++ {
			entry := i + delay
			exit := i + delay + periods - 1
			if entry >= m || exit >= m || !truthy(sg[entry]) {
				out[i] = math.NaN()
				continue
			}
			out[i] = safeDiv(sc[exit]-so[entry], so[entry])
		}
		return out, nil
	})
}

// FRETBatch is the batch form of FRET; opens, closes, and isCalcs are
// parallel batches.
func FRETBatch(ctx qctx.Context, opens, closes, isCalcs [][]float64, delay, periods int) ([][]float64, error) {
	return batch3("FRET", opens, closes, isCalcs, func(open, close, isCalc []float64) ([]float64, error) {
		return FRET(ctx, open, close, isCalc, delay, periods)
	})
}
