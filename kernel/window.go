package kernel

import "math"

// rollAgg drives the two-pointer sliding window shared by every
// running-sum-style kernel (SUM, MA, STDDEV/VAR, COV/CORR, PRODUCT,
// COUNT, SUMIF). It tracks exactly which indices are currently "in the
// window" so that each kernel only has to supply what it means for an
// index to be valid, and how to add/remove one index's contribution to
// its own accumulators.
//
// Three window-membership policies are supported:
//
//   - cumulative (w == 0): the window is the entire group prefix; never
//     shrinks.
//   - skipNaN: the window grows until it holds exactly w VALID samples,
//     skipping over NaN positions rather than counting them — this is
//     the "carry forward counts" policy from the package doc.
//   - otherwise: the window is the fixed positional range
//     [i-w+1, i], and a poison check (count < width) tells the caller an
//     invalid sample fell inside it.
type rollAgg struct {
	w          int
	skipNaN    bool
	cumulative bool
	lo         int
	count      int
}

func newRollAgg(w int, skipNaN bool) *rollAgg {
	return &rollAgg{w: w, skipNaN: skipNaN, cumulative: w == 0}
}

// step advances the window to include index i, shrinking from the left
// as the membership policy demands. It returns the current valid count
// and the positional width the window would have under the fixed
// (non-skipNaN) policy — the caller uses (count < width) to detect an
// interior NaN when skipNaN is not set.
func (r *rollAgg) step(i int, valid func(int) bool, add func(int), remove func(int)) (count, width int) {
	if valid(i) {
		add(i)
		r.count++
	}
	if r.cumulative {
		return r.count, i + 1
	}
	if r.skipNaN {
		for r.count > r.w {
			if valid(r.lo) {
				remove(r.lo)
				r.count--
			}
			r.lo++
		}
		return r.count, min(i+1, r.w)
	}
	start := i - r.w + 1
	for r.lo < start {
		if valid(r.lo) {
			remove(r.lo)
			r.count--
		}
		r.lo++
	}
	if start < 0 {
		return r.count, i + 1
	}
	return r.count, r.w
}

// resolve applies the shared warm-up and poison rules and returns either
// NaN or the result of calc(count), where calc computes the reduction
// from whatever accumulators the caller maintained.
func resolve(i, w, count, width int, strictlyCycle, skipNaN, curValid bool, calc func(count int) float64) float64 {
	if !curValid {
		return math.NaN()
	}
	if strictlyCycle && w > 0 && i < w-1 {
		return math.NaN()
	}
	if !skipNaN && count < width {
		return math.NaN()
	}
	return calc(count)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
