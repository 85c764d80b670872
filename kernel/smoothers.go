package kernel

import (
	"fmt"
	"math"

	"github.com/arqora/tsquant/dispatch"
	"github.com/arqora/tsquant/qctx"
)

func maGroup(seg []float64, w int, strictlyCycle, skipNaN bool) []float64 {
	y := make([]float64, len(seg))
	agg := newRollAgg(w, skipNaN)
	sum := 0.0
	valid := func(i int) bool { return !math.IsNaN(seg[i]) }
	add := func(i int) { sum += seg[i] }
	remove := func(i int) { sum -= seg[i] }
	for i := range seg {
		count, width := agg.step(i, valid, add, remove)
		y[i] = resolve(i, w, count, width, strictlyCycle, skipNaN, valid(i), func(c int) float64 {
			return sum / float64(c)
		})
	}
	return y
}

// MA is the simple moving average of x over the preceding W samples.
// W == 0 is rejected: an unbounded average is not a meaningful moving
// average.
func MA(ctx qctx.Context, x []float64, w int) ([]float64, error) {
	if err := checkWindow("MA", w, false); err != nil {
		return nil, err
	}
	return dispatch.Groups(ctx, "MA", x, func(seg []float64) ([]float64, error) {
		return maGroup(seg, w, ctx.StrictlyCycle(), ctx.SkipNaN()), nil
	})
}

// MABatch is the batch form of MA.
func MABatch(ctx qctx.Context, xs [][]float64, w int) ([][]float64, error) {
	if err := checkWindow("MA", w, false); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "MA", xs, func(x []float64) ([]float64, error) {
		return MA(ctx, x, w)
	})
}

func lwmaGroup(seg []float64, w int, strictlyCycle, skipNaN bool) []float64 {
	y := make([]float64, len(seg))
	for i := range seg {
		if math.IsNaN(seg[i]) {
			y[i] = math.NaN()
			continue
		}
		if strictlyCycle && i < w-1 {
			y[i] = math.NaN()
			continue
		}
		lo := max(0, i-w+1)
		weightSum := 0.0
		num := 0.0
		anyNaN := false
		validCount := 0
		need := i - lo + 1
		for j := lo; j <= i; j++ {
			weight := float64(j - lo + 1)
			if math.IsNaN(seg[j]) {
				if skipNaN {
					continue
				}
				anyNaN = true
				continue
			}
			num += seg[j] * weight
			weightSum += weight
			validCount++
		}
		if !skipNaN && (anyNaN || validCount < need) {
			y[i] = math.NaN()
			continue
		}
		y[i] = safeDiv(num, weightSum)
	}
	return y
}

// LWMA is the linearly weighted moving average: within the trailing
// window the most recent sample gets weight W (or the window's actual
// length during warm-up), decreasing by one per step back.
//
// LWMA is evaluated directly from the positional window each step
// rather than through the incremental rollAgg engine: the weights
// themselves shift by one every time the window slides, so there is no
// O(1) add/remove recurrence to exploit, and W is expected to be small
// relative to the series in the alpha formulas this library targets.
func LWMA(ctx qctx.Context, x []float64, w int) ([]float64, error) {
	if err := checkWindow("LWMA", w, false); err != nil {
		return nil, err
	}
	return dispatch.Groups(ctx, "LWMA", x, func(seg []float64) ([]float64, error) {
		return lwmaGroup(seg, w, ctx.StrictlyCycle(), ctx.SkipNaN()), nil
	})
}

// LWMABatch is the batch form of LWMA.
func LWMABatch(ctx qctx.Context, xs [][]float64, w int) ([][]float64, error) {
	if err := checkWindow("LWMA", w, false); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "LWMA", xs, func(x []float64) ([]float64, error) {
		return LWMA(ctx, x, w)
	})
}

// emaGroup implements the shared recurrence behind SMA/DMA/EMA:
// y[i] = (m*x[i] + (n-m)*y[i-1]) / n, seeded with y[i]=x[i] at the first
// non-NaN sample of the group. A NaN input holds the previous smoothed
// value forward when skipNaN is set, and poisons the recurrence from
// that point on otherwise — once poisoned every subsequent output stays
// NaN since the recurrence has no way back to a defined state.
func emaGroup(seg []float64, m, n float64, skipNaN bool) []float64 {
	y := make([]float64, len(seg))
	seeded := false
	poisoned := false
	prev := math.NaN()
	for i, v := range seg {
		switch {
		case poisoned:
			y[i] = math.NaN()
		case math.IsNaN(v):
			if skipNaN && seeded {
				y[i] = prev
			} else {
				y[i] = math.NaN()
				if !skipNaN {
					poisoned = true
				}
			}
		case !seeded:
			y[i] = v
			prev = v
			seeded = true
		default:
			y[i] = (m*v + (n-m)*prev) / n
			prev = y[i]
		}
	}
	return y
}

func validatePeriod(name string, n float64) error {
	if n <= 0 {
		return fmt.Errorf("%s: %w: period %v must be positive", name, ErrBadParameter, n)
	}
	return nil
}

// SMA is the classic "Chinese technical analysis" smoothed moving
// average: y[i] = (m*x[i] + (n-m)*y[i-1]) / n, for 0 < m <= n.
func SMA(ctx qctx.Context, x []float64, n, m float64) ([]float64, error) {
	if err := validatePeriod("SMA", n); err != nil {
		return nil, err
	}
	if m <= 0 || m > n {
		return nil, fmt.Errorf("SMA: %w: weight %v must satisfy 0 < m <= n (%v)", ErrBadParameter, m, n)
	}
	return dispatch.Groups(ctx, "SMA", x, func(seg []float64) ([]float64, error) {
		return emaGroup(seg, m, n, ctx.SkipNaN()), nil
	})
}

// SMABatch is the batch form of SMA.
func SMABatch(ctx qctx.Context, xs [][]float64, n, m float64) ([][]float64, error) {
	if err := validatePeriod("SMA", n); err != nil {
		return nil, err
	}
	if m <= 0 || m > n {
		return nil, fmt.Errorf("SMA: %w: weight %v must satisfy 0 < m <= n (%v)", ErrBadParameter, m, n)
	}
	return dispatch.Batch(ctx, "SMA", xs, func(x []float64) ([]float64, error) {
		return SMA(ctx, x, n, m)
	})
}

// EMA is the exponential moving average with smoothing period n:
// equivalent to SMA(x, n+1, 2), so that alpha = 2/(n+1), the standard
// EMA smoothing constant.
func EMA(ctx qctx.Context, x []float64, n float64) ([]float64, error) {
	return SMA(ctx, x, n+1, 2)
}

// EMABatch is the batch form of EMA.
func EMABatch(ctx qctx.Context, xs [][]float64, n float64) ([][]float64, error) {
	return SMABatch(ctx, xs, n+1, 2)
}

// DMA is the moving average weighted by a time-varying alpha series:
// y[i] = alpha[i]*x[i] + (1-alpha[i])*y[i-1], with alpha clamped to
// [0, 1] and the recurrence seeded at the first valid sample.
func DMA(ctx qctx.Context, x, alpha []float64) ([]float64, error) {
	return dispatch.Groups2(ctx, "DMA", x, alpha, func(segX, segA []float64) ([]float64, error) {
		return dmaGroup(segX, segA, ctx.SkipNaN()), nil
	})
}

// DMABatch is the batch form of DMA; alphas holds one alpha series per
// element of xs.
func DMABatch(ctx qctx.Context, xs, alphas [][]float64) ([][]float64, error) {
	return batch2("DMA", xs, alphas, func(x, alpha []float64) ([]float64, error) {
		return DMA(ctx, x, alpha)
	})
}

func dmaGroup(x, alpha []float64, skipNaN bool) []float64 {
	y := make([]float64, len(x))
	seeded := false
	poisoned := false
	prev := math.NaN()
	for i := range x {
		v, a := x[i], alpha[i]
		a = math.Max(0, math.Min(1, a))
		switch {
		case poisoned:
			y[i] = math.NaN()
		case math.IsNaN(v) || math.IsNaN(alpha[i]):
			if skipNaN && seeded {
				y[i] = prev
			} else {
				y[i] = math.NaN()
				if !skipNaN {
					poisoned = true
				}
			}
		case !seeded:
			y[i] = v
			prev = v
			seeded = true
		default:
			y[i] = a*v + (1-a)*prev
			prev = y[i]
		}
	}
	return y
}
