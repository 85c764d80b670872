package kernel

import (
	"math"

	"github.com/arqora/tsquant/dispatch"
	"github.com/arqora/tsquant/qctx"
)

func barsSinceEventGroup(seg []float64, mostRecent bool) []float64 {
	n := len(seg)
	out := make([]float64, n)
	lastTrue := -1
	firstTrue := -1
	for i := 0; i < n; i++ {
		if math.IsNaN(seg[i]) {
			out[i] = math.NaN()
			continue
		}
		if truthy(seg[i]) {
			lastTrue = i
			if firstTrue == -1 {
				firstTrue = i
			}
		}
		anchor := lastTrue
		if !mostRecent {
			anchor = firstTrue
		}
		if anchor == -1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = float64(i - anchor)
	}
	return out
}

// BARSLAST is the number of bars since the condition cond was last
// true, counting the current bar as 0 when cond is true now. NaN until
// cond has been true at least once in the group.
func BARSLAST(ctx qctx.Context, cond []float64) ([]float64, error) {
	if err := checkNoSkipNaN("BARSLAST", ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.Groups(ctx, "BARSLAST", cond, func(seg []float64) ([]float64, error) {
		return barsSinceEventGroup(seg, true), nil
	})
}

// BARSSINCE is the number of bars since the condition cond was FIRST
// true within the group. NaN until cond has been true at least once.
func BARSSINCE(ctx qctx.Context, cond []float64) ([]float64, error) {
	if err := checkNoSkipNaN("BARSSINCE", ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.Groups(ctx, "BARSSINCE", cond, func(seg []float64) ([]float64, error) {
		return barsSinceEventGroup(seg, false), nil
	})
}

func crossGroup(x, y []float64, above bool) []float64 {
	n := len(x)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	for i := 1; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) || math.IsNaN(x[i-1]) || math.IsNaN(y[i-1]) {
			out[i] = math.NaN()
			continue
		}
		var crossed bool
		if above {
			crossed = x[i-1] <= y[i-1] && x[i] > y[i]
		} else {
			crossed = x[i-1] >= y[i-1] && x[i] < y[i]
		}
		out[i] = boolFloat(crossed)
	}
	if math.IsNaN(x[0]) || math.IsNaN(y[0]) {
		out[0] = math.NaN()
	}
	return out
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// CROSS reports, per bar, whether x crossed above y on this bar: x was
// at or below y on the previous bar and is strictly above it now.
func CROSS(ctx qctx.Context, x, y []float64) ([]float64, error) {
	if err := checkNoSkipNaN("CROSS", ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.Groups2(ctx, "CROSS", x, y, func(sx, sy []float64) ([]float64, error) {
		return crossGroup(sx, sy, true), nil
	})
}

// RCROSS reports, per bar, whether x crossed below y on this bar — the
// mirror image of CROSS.
func RCROSS(ctx qctx.Context, x, y []float64) ([]float64, error) {
	if err := checkNoSkipNaN("RCROSS", ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.Groups2(ctx, "RCROSS", x, y, func(sx, sy []float64) ([]float64, error) {
		return crossGroup(sx, sy, false), nil
	})
}

func longCrossGroup(x, y []float64, n int, above bool) []float64 {
	length := len(x)
	out := make([]float64, length)
	for i := 0; i < length; i++ {
		if i < n {
			out[i] = 0
			continue
		}
		poisoned := false
		persisted := true
		for k := i - n; k < i; k++ {
			if math.IsNaN(x[k]) || math.IsNaN(y[k]) {
				poisoned = true
				break
			}
			if above {
				if !(x[k] < y[k]) {
					persisted = false
					break
				}
			} else if !(x[k] > y[k]) {
				persisted = false
				break
			}
		}
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			poisoned = true
		}
		if poisoned {
			out[i] = math.NaN()
			continue
		}
		crossesNow := false
		if above {
			crossesNow = x[i] > y[i]
		} else {
			crossesNow = x[i] < y[i]
		}
		out[i] = boolFloat(persisted && crossesNow)
	}
	return out
}

// LONGCROSS reports whether x was strictly below y for each of the
// preceding N bars and has now crossed strictly above it.
func LONGCROSS(ctx qctx.Context, x, y []float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, errBadN("LONGCROSS", n)
	}
	if err := checkNoSkipNaN("LONGCROSS", ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.Groups2(ctx, "LONGCROSS", x, y, func(sx, sy []float64) ([]float64, error) {
		return longCrossGroup(sx, sy, n, true), nil
	})
}

// RLONGCROSS is the mirror image of LONGCROSS: x stays strictly above y
// for N bars, then crosses below.
func RLONGCROSS(ctx qctx.Context, x, y []float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, errBadN("RLONGCROSS", n)
	}
	if err := checkNoSkipNaN("RLONGCROSS", ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.Groups2(ctx, "RLONGCROSS", x, y, func(sx, sy []float64) ([]float64, error) {
		return longCrossGroup(sx, sy, n, false), nil
	})
}

func errBadN(name string, n int) error {
	return checkWindow(name, n, false)
}

func sumBarsGroup(x []float64, target float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		found := -1
		for k := i; k >= 0; k-- {
			if math.IsNaN(x[k]) {
				break
			}
			sum += x[k]
			if sum >= target {
				found = i - k + 1
				break
			}
		}
		if found == -1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = float64(found)
	}
	return out
}

// SUMBARS is the smallest k such that the sum of the most recent k
// values of x (the current one included) reaches or exceeds target.
// NaN if the group's entire available prefix never reaches target.
func SUMBARS(ctx qctx.Context, x []float64, target float64) ([]float64, error) {
	if err := checkNoSkipNaN("SUMBARS", ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.Groups(ctx, "SUMBARS", x, func(seg []float64) ([]float64, error) {
		return sumBarsGroup(seg, target), nil
	})
}

// BARSLASTBatch is the batch form of BARSLAST.
func BARSLASTBatch(ctx qctx.Context, conds [][]float64) ([][]float64, error) {
	if err := checkNoSkipNaN("BARSLAST", ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "BARSLAST", conds, func(cond []float64) ([]float64, error) {
		return BARSLAST(ctx, cond)
	})
}

// BARSSINCEBatch is the batch form of BARSSINCE.
func BARSSINCEBatch(ctx qctx.Context, conds [][]float64) ([][]float64, error) {
	if err := checkNoSkipNaN("BARSSINCE", ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "BARSSINCE", conds, func(cond []float64) ([]float64, error) {
		return BARSSINCE(ctx, cond)
	})
}

// CROSSBatch is the batch form of CROSS; xs and ys are parallel batches.
func CROSSBatch(ctx qctx.Context, xs, ys [][]float64) ([][]float64, error) {
	return batch2("CROSS", xs, ys, func(x, y []float64) ([]float64, error) {
		return CROSS(ctx, x, y)
	})
}

// RCROSSBatch is the batch form of RCROSS.
func RCROSSBatch(ctx qctx.Context, xs, ys [][]float64) ([][]float64, error) {
	return batch2("RCROSS", xs, ys, func(x, y []float64) ([]float64, error) {
		return RCROSS(ctx, x, y)
	})
}

// LONGCROSSBatch is the batch form of LONGCROSS.
func LONGCROSSBatch(ctx qctx.Context, xs, ys [][]float64, n int) ([][]float64, error) {
	return batch2("LONGCROSS", xs, ys, func(x, y []float64) ([]float64, error) {
		return LONGCROSS(ctx, x, y, n)
	})
}

// RLONGCROSSBatch is the batch form of RLONGCROSS.
func RLONGCROSSBatch(ctx qctx.Context, xs, ys [][]float64, n int) ([][]float64, error) {
	return batch2("RLONGCROSS", xs, ys, func(x, y []float64) ([]float64, error) {
		return RLONGCROSS(ctx, x, y, n)
	})
}

// SUMBARSBatch is the batch form of SUMBARS.
func SUMBARSBatch(ctx qctx.Context, xs [][]float64, target float64) ([][]float64, error) {
	if err := checkNoSkipNaN("SUMBARS", ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "SUMBARS", xs, func(x []float64) ([]float64, error) {
		return SUMBARS(ctx, x, target)
	})
}
