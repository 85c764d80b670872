package kernel

import (
	"fmt"
	"math"
	"sort"

	"github.com/arqora/tsquant/dispatch"
	"github.com/arqora/tsquant/qctx"
)

// fractionalRanks computes, for each entry of v, its average rank among
// the non-NaN entries (1-indexed, ties share the mean of the ranks they
// span) rescaled to [0, 1] via (rank-1)/(m-1), where m is the count of
// non-NaN entries. A lone non-NaN entry (m == 1) ranks 0; NaN entries
// stay NaN.
func fractionalRanks(v []float64) []float64 {
	n := len(v)
	out := make([]float64, n)
	type kv struct {
		idx int
		val float64
	}
	valid := make([]kv, 0, n)
	for i, x := range v {
		if math.IsNaN(x) {
			out[i] = math.NaN()
			continue
		}
		valid = append(valid, kv{i, x})
	}
	m := len(valid)
	if m == 0 {
		return out
	}
	sort.Slice(valid, func(a, b int) bool { return valid[a].val < valid[b].val })
	if m == 1 {
		out[valid[0].idx] = 0
		return out
	}
	i := 0
	for i < m {
		j := i
		for j+1 < m && valid[j+1].val == valid[i].val {
			j++
		}
		avgRank := (float64(i) + float64(j)) / 2.0 // 0-indexed average rank over the tie run
		for k := i; k <= j; k++ {
			out[valid[k].idx] = avgRank / float64(m-1)
		}
		i = j + 1
	}
	return out
}

// RANK is the cross-sectional fractional rank of x across groups at
// each time index: for every time offset, x's value in each group is
// ranked against the same-offset value in every other group. Values
// that are NaN in one group do not participate and remain NaN; the
// denominator uses the count of groups with a non-NaN value at that
// offset, per fractionalRanks.
func RANK(ctx qctx.Context, x []float64) ([]float64, error) {
	if err := checkNoSkipNaN("RANK", ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.CrossSection(ctx, "RANK", x, func(col []float64) ([]float64, error) {
		return fractionalRanks(col), nil
	})
}

// BINS assigns each cross-sectional value to one of nBins equal-width
// rank buckets (0 .. nBins-1), using the same fractional rank as RANK.
// NaN values stay NaN.
func BINS(ctx qctx.Context, x []float64, nBins int) ([]float64, error) {
	if nBins < 1 {
		return nil, fmt.Errorf("BINS: %w: bin count %d must be positive", ErrBadParameter, nBins)
	}
	if err := checkNoSkipNaN("BINS", ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.CrossSection(ctx, "BINS", x, func(col []float64) ([]float64, error) {
		ranks := fractionalRanks(col)
		out := make([]float64, len(col))
		for i, r := range ranks {
			if math.IsNaN(r) {
				out[i] = math.NaN()
				continue
			}
			bin := int(r * float64(nBins))
			if bin >= nBins {
				bin = nBins - 1
			}
			out[i] = float64(bin)
		}
		return out, nil
	})
}

func tsRankGroup(seg []float64, w int, strictlyCycle bool) []float64 {
	n := len(seg)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(seg[i]) {
			out[i] = math.NaN()
			continue
		}
		if strictlyCycle && w > 0 && i < w-1 {
			out[i] = math.NaN()
			continue
		}
		start := 0
		if w > 0 {
			start = max(0, i-w+1)
		}
		window := seg[start : i+1]
		poisoned := false
		for _, v := range window {
			if math.IsNaN(v) {
				poisoned = true
				break
			}
		}
		if poisoned {
			out[i] = math.NaN()
			continue
		}
		ranks := fractionalRanks(window)
		out[i] = ranks[len(ranks)-1]
	}
	return out
}

// TS_RANK is the rolling time-series analogue of RANK: the fractional
// rank of x's current value among the preceding W samples of the same
// series (W == 0: among the whole prefix since group start). A NaN
// anywhere in that window makes the output NaN. Evaluated
// naively per index, which is acceptable at the window sizes alpha
// formulas use.
func TS_RANK(ctx qctx.Context, x []float64, w int) ([]float64, error) {
	if err := checkWindow("TS_RANK", w, true); err != nil {
		return nil, err
	}
	if err := checkNoSkipNaN("TS_RANK", ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.Groups(ctx, "TS_RANK", x, func(seg []float64) ([]float64, error) {
		return tsRankGroup(seg, w, ctx.StrictlyCycle()), nil
	})
}

// TS_RANKBatch is the batch form of TS_RANK.
func TS_RANKBatch(ctx qctx.Context, xs [][]float64, w int) ([][]float64, error) {
	if err := checkWindow("TS_RANK", w, true); err != nil {
		return nil, err
	}
	if err := checkNoSkipNaN("TS_RANK", ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "TS_RANK", xs, func(x []float64) ([]float64, error) {
		return TS_RANK(ctx, x, w)
	})
}

// RANKBatch is the batch form of RANK.
func RANKBatch(ctx qctx.Context, xs [][]float64) ([][]float64, error) {
	if err := checkNoSkipNaN("RANK", ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "RANK", xs, func(x []float64) ([]float64, error) {
		return RANK(ctx, x)
	})
}

// BINSBatch is the batch form of BINS.
func BINSBatch(ctx qctx.Context, xs [][]float64, nBins int) ([][]float64, error) {
	if nBins < 1 {
		return nil, fmt.Errorf("BINS: %w: bin count %d must be positive", ErrBadParameter, nBins)
	}
	if err := checkNoSkipNaN("BINS", ctx.SkipNaN()); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "BINS", xs, func(x []float64) ([]float64, error) {
		return BINS(ctx, x, nBins)
	})
}
