package kernel

import (
	"fmt"
	"math"

	"github.com/arqora/tsquant/dispatch"
	"github.com/arqora/tsquant/qctx"
)

func refGroup(seg []float64, k int) []float64 {
	y := make([]float64, len(seg))
	for i := range seg {
		if i-k >= 0 {
			y[i] = seg[i-k]
		} else {
			y[i] = math.NaN()
		}
	}
	return y
}

// REF shifts x back by k samples within each group: y[i] = x[i-k].
// Positions that would read before the group's start are NaN. k must be
// >= 0 — REF only ever looks backward, which is what keeps it causal.
func REF(ctx qctx.Context, x []float64, k int) ([]float64, error) {
	if err := refValidate(k, ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.Groups(ctx, "REF", x, func(seg []float64) ([]float64, error) {
		return refGroup(seg, k), nil
	})
}

// REFBatch is REF applied independently to each series in xs.
func REFBatch(ctx qctx.Context, xs [][]float64, k int) ([][]float64, error) {
	if err := refValidate(k, ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "REF", xs, func(x []float64) ([]float64, error) {
		return REF(ctx, x, k)
	})
}

// DELAY is an alias for REF — the name alpha formulas most commonly use
// for "value k bars ago."
func DELAY(ctx qctx.Context, x []float64, k int) ([]float64, error) { return REF(ctx, x, k) }

// DELAYBatch is the batch form of DELAY.
func DELAYBatch(ctx qctx.Context, xs [][]float64, k int) ([][]float64, error) {
	return REFBatch(ctx, xs, k)
}

// DELTA computes x - REF(x, k): the change over the preceding k
// samples. DELTA(x, 0) is identically zero wherever x is not NaN.
func DELTA(ctx qctx.Context, x []float64, k int) ([]float64, error) {
	if err := refValidate(k, ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.Groups(ctx, "DELTA", x, func(seg []float64) ([]float64, error) {
		ref := refGroup(seg, k)
		y := make([]float64, len(seg))
		for i := range seg {
			y[i] = seg[i] - ref[i]
		}
		return y, nil
	})
}

// DELTABatch is the batch form of DELTA.
func DELTABatch(ctx qctx.Context, xs [][]float64, k int) ([][]float64, error) {
	if err := refValidate(k, ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "DELTA", xs, func(x []float64) ([]float64, error) {
		return DELTA(ctx, x, k)
	})
}

func refValidate(k int, skipNaN bool) error {
	if k < 0 {
		return fmt.Errorf("REF: %w: shift %d is negative", ErrBadParameter, k)
	}
	return checkNoSkipNaN("REF", skipNaN)
}
