package kernel

import (
	"math"

	"github.com/arqora/tsquant/dispatch"
	"github.com/arqora/tsquant/qctx"
)

// MAX is the elementwise maximum of x and y. NaN in either operand
// yields NaN, matching the package's poison-on-missing convention.
func MAX(ctx qctx.Context, x, y []float64) ([]float64, error) {
	return dispatch.Groups2(ctx, "MAX", x, y, func(sx, sy []float64) ([]float64, error) {
		out := make([]float64, len(sx))
		for i := range sx {
			if math.IsNaN(sx[i]) || math.IsNaN(sy[i]) {
				out[i] = math.NaN()
				continue
			}
			out[i] = math.Max(sx[i], sy[i])
		}
		return out, nil
	})
}

// MIN is the elementwise minimum of x and y.
func MIN(ctx qctx.Context, x, y []float64) ([]float64, error) {
	return dispatch.Groups2(ctx, "MIN", x, y, func(sx, sy []float64) ([]float64, error) {
		out := make([]float64, len(sx))
		for i := range sx {
			if math.IsNaN(sx[i]) || math.IsNaN(sy[i]) {
				out[i] = math.NaN()
				continue
			}
			out[i] = math.Min(sx[i], sy[i])
		}
		return out, nil
	})
}

// POWER is the elementwise exponentiation x^y, the target of the
// expression compiler's "^" operator.
func POWER(ctx qctx.Context, x, y []float64) ([]float64, error) {
	return dispatch.Groups2(ctx, "POWER", x, y, func(sx, sy []float64) ([]float64, error) {
		out := make([]float64, len(sx))
		for i := range sx {
			if math.IsNaN(sx[i]) || math.IsNaN(sy[i]) {
				out[i] = math.NaN()
				continue
			}
			out[i] = math.Pow(sx[i], sy[i])
		}
		return out, nil
	})
}

// MAXBatch is the batch form of MAX; xs and ys are parallel batches.
func MAXBatch(ctx qctx.Context, xs, ys [][]float64) ([][]float64, error) {
	return batch2("MAX", xs, ys, func(x, y []float64) ([]float64, error) {
		return MAX(ctx, x, y)
	})
}

// MINBatch is the batch form of MIN.
func MINBatch(ctx qctx.Context, xs, ys [][]float64) ([][]float64, error) {
	return batch2("MIN", xs, ys, func(x, y []float64) ([]float64, error) {
		return MIN(ctx, x, y)
	})
}

// POWERBatch is the batch form of POWER.
func POWERBatch(ctx qctx.Context, xs, ys [][]float64) ([][]float64, error) {
	return batch2("POWER", xs, ys, func(x, y []float64) ([]float64, error) {
		return POWER(ctx, x, y)
	})
}
