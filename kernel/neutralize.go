package kernel

import (
	"math"

	"github.com/arqora/tsquant/dispatch"
	"github.com/arqora/tsquant/qctx"
)

// NEUTRALIZE removes the cross-sectional category mean from x at each
// time offset: every group's value is replaced by its deviation from
// the mean over all groups (itself included) sharing its category value
// at that same offset. A group whose category value is NaN, or whose own value is
// NaN, is left NaN and excluded from every category mean.
func NEUTRALIZE(ctx qctx.Context, x, category []float64) ([]float64, error) {
	if err := checkNoSkipNaN("NEUTRALIZE", ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.CrossSection2(ctx, "NEUTRALIZE", x, category, func(colX, colCat []float64) ([]float64, error) {
		sums := map[float64]float64{}
		counts := map[float64]int{}
		for i, v := range colX {
			c := colCat[i]
			if math.IsNaN(v) || math.IsNaN(c) {
				continue
			}
			sums[c] += v
			counts[c]++
		}
		out := make([]float64, len(colX))
		for i, v := range colX {
			c := colCat[i]
			if math.IsNaN(v) || math.IsNaN(c) {
				out[i] = math.NaN()
				continue
			}
			mean := sums[c] / float64(counts[c])
			out[i] = v - mean
		}
		return out, nil
	})
}

// NEUTRALIZEBatch is the batch form of NEUTRALIZE; categories holds one
// category series per element of xs.
func NEUTRALIZEBatch(ctx qctx.Context, xs, categories [][]float64) ([][]float64, error) {
	return batch2("NEUTRALIZE", xs, categories, func(x, category []float64) ([]float64, error) {
		return NEUTRALIZE(ctx, x, category)
	})
}
