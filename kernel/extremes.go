package kernel

import (
	"math"

	"github.com/arqora/tsquant/dispatch"
	"github.com/arqora/tsquant/qctx"
)

// monoDeque maintains the indices of a trailing window in decreasing
// (for HHV) or increasing (for LLV) order of value, so the window
// extreme is always its front element. Each index enters and leaves at
// most once, giving O(1) amortized work per step regardless of W.
type monoDeque struct {
	idx    []int
	better func(a, b float64) bool // true if a should evict b from the back
}

func newMonoDeque(better func(a, b float64) bool) *monoDeque {
	return &monoDeque{better: better}
}

func (d *monoDeque) push(i int, v []float64) {
	for len(d.idx) > 0 && d.better(v[i], v[d.idx[len(d.idx)-1]]) {
		d.idx = d.idx[:len(d.idx)-1]
	}
	d.idx = append(d.idx, i)
}

func (d *monoDeque) evictBefore(minIdx int) {
	for len(d.idx) > 0 && d.idx[0] < minIdx {
		d.idx = d.idx[1:]
	}
}

func (d *monoDeque) front() int { return d.idx[0] }

func extremeGroup(seg []float64, w int, strictlyCycle, skipNaN bool, better func(a, b float64) bool, bars bool) []float64 {
	n := len(seg)
	y := make([]float64, n)
	dq := newMonoDeque(better)
	lo := 0
	nanCount := 0
	for i := 0; i < n; i++ {
		if math.IsNaN(seg[i]) {
			nanCount++
		}
		if !(skipNaN && math.IsNaN(seg[i])) {
			dq.push(i, seg)
		}
		start := 0
		if w > 0 {
			start = i - w + 1
		}
		if start < 0 {
			start = 0
		}
		dq.evictBefore(start)
		for lo < start {
			if math.IsNaN(seg[lo]) {
				nanCount--
			}
			lo++
		}

		poisonedByNaN := !skipNaN && nanCount > 0
		switch {
		case math.IsNaN(seg[i]):
			y[i] = math.NaN()
		case strictlyCycle && w > 0 && i < w-1:
			y[i] = math.NaN()
		case poisonedByNaN:
			y[i] = math.NaN()
		case len(dq.idx) == 0:
			y[i] = math.NaN()
		case bars:
			y[i] = float64(i - dq.front())
		default:
			y[i] = seg[dq.front()]
		}
	}
	return y
}

// HHV is the highest value of x over the preceding W samples.
func HHV(ctx qctx.Context, x []float64, w int) ([]float64, error) {
	if err := checkWindow("HHV", w, false); err != nil {
		return nil, err
	}
	return dispatch.Groups(ctx, "HHV", x, func(seg []float64) ([]float64, error) {
		return extremeGroup(seg, w, ctx.StrictlyCycle(), ctx.SkipNaN(), func(a, b float64) bool { return a >= b }, false), nil
	})
}

// HHVBatch is the batch form of HHV.
func HHVBatch(ctx qctx.Context, xs [][]float64, w int) ([][]float64, error) {
	if err := checkWindow("HHV", w, false); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "HHV", xs, func(x []float64) ([]float64, error) {
		return HHV(ctx, x, w)
	})
}

// LLV is the lowest value of x over the preceding W samples.
func LLV(ctx qctx.Context, x []float64, w int) ([]float64, error) {
	if err := checkWindow("LLV", w, false); err != nil {
		return nil, err
	}
	return dispatch.Groups(ctx, "LLV", x, func(seg []float64) ([]float64, error) {
		return extremeGroup(seg, w, ctx.StrictlyCycle(), ctx.SkipNaN(), func(a, b float64) bool { return a <= b }, false), nil
	})
}

// LLVBatch is the batch form of LLV.
func LLVBatch(ctx qctx.Context, xs [][]float64, w int) ([][]float64, error) {
	if err := checkWindow("LLV", w, false); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "LLV", xs, func(x []float64) ([]float64, error) {
		return LLV(ctx, x, w)
	})
}

// HHVBARS is the number of samples since the highest value of x within
// the preceding W samples occurred (0 means the current sample is the
// highest).
func HHVBARS(ctx qctx.Context, x []float64, w int) ([]float64, error) {
	if err := checkWindow("HHVBARS", w, false); err != nil {
		return nil, err
	}
	return dispatch.Groups(ctx, "HHVBARS", x, func(seg []float64) ([]float64, error) {
		return extremeGroup(seg, w, ctx.StrictlyCycle(), ctx.SkipNaN(), func(a, b float64) bool { return a >= b }, true), nil
	})
}

// HHVBARSBatch is the batch form of HHVBARS.
func HHVBARSBatch(ctx qctx.Context, xs [][]float64, w int) ([][]float64, error) {
	if err := checkWindow("HHVBARS", w, false); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "HHVBARS", xs, func(x []float64) ([]float64, error) {
		return HHVBARS(ctx, x, w)
	})
}

// LLVBARS is the number of samples since the lowest value of x within
// the preceding W samples occurred.
func LLVBARS(ctx qctx.Context, x []float64, w int) ([]float64, error) {
	if err := checkWindow("LLVBARS", w, false); err != nil {
		return nil, err
	}
	return dispatch.Groups(ctx, "LLVBARS", x, func(seg []float64) ([]float64, error) {
		return extremeGroup(seg, w, ctx.StrictlyCycle(), ctx.SkipNaN(), func(a, b float64) bool { return a <= b }, true), nil
	})
}

// LLVBARSBatch is the batch form of LLVBARS.
func LLVBARSBatch(ctx qctx.Context, xs [][]float64, w int) ([][]float64, error) {
	if err := checkWindow("LLVBARS", w, false); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "LLVBARS", xs, func(x []float64) ([]float64, error) {
		return LLVBARS(ctx, x, w)
	})
}
