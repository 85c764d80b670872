package kernel

import (
	"fmt"
	"math"

	"github.com/arqora/tsquant/dispatch"
)

// checkWindow validates a window-size parameter against the common
// policy: W must be >= 0, and W == 0 is rejected unless the caller
// passes allowZero (true only for SUM/PRODUCT/SUMIF/COUNT and TS_RANK,
// which read W=0 as cumulative since group start).
func checkWindow(name string, w int, allowZero bool) error {
	if w < 0 {
		return fmt.Errorf("%s: %w: window %d is negative", name, ErrBadParameter, w)
	}
	if w == 0 && !allowZero {
		return fmt.Errorf("%s: %w: window 0 is undefined for this kernel", name, ErrBadParameter)
	}
	return nil
}

// checkNoSkipNaN rejects SkipNaN for operators that do not implement it:
// the shift, event-counter, cross-sectional, and future-return families,
// and TS_RANK.
func checkNoSkipNaN(name string, skipNaN bool) error {
	if skipNaN {
		return fmt.Errorf("%s: %w: SkipNaN has no effect on this kernel", name, ErrUnsupported)
	}
	return nil
}

// truthy treats a predicate sample as true iff it is a non-zero,
// non-NaN float. NaN predicates are always false for selection
// purposes but still propagate as missing data where a kernel tracks
// NaN policy explicitly.
func truthy(v float64) bool {
	return !math.IsNaN(v) && v != 0
}

// safeDiv implements the library-wide policy that division by zero
// yields NaN rather than +-Inf. Only an exactly zero (or NaN)
// denominator is caught; a near-zero one divides normally.
func safeDiv(num, den float64) float64 {
	if den == 0 || math.IsNaN(den) || math.IsNaN(num) {
		return math.NaN()
	}
	return num / den
}

// batch2 applies a two-series operator pairwise across two parallel
// batches, giving every paired kernel its batch form. The batches must
// have the same element count; per-element length checks are the
// operator's own job.
func batch2(name string, xs, ys [][]float64, f func(x, y []float64) ([]float64, error)) ([][]float64, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%s: %w: %d series but %d paired series", name, dispatch.ErrBadShape, len(xs), len(ys))
	}
	out := make([][]float64, len(xs))
	for i := range xs {
		y, err := f(xs[i], ys[i])
		if err != nil {
			return nil, err
		}
		out[i] = y
	}
	return out, nil
}

// batch3 is batch2 for operators reading three parallel batches.
func batch3(name string, xs, ys, zs [][]float64, f func(x, y, z []float64) ([]float64, error)) ([][]float64, error) {
	if len(xs) != len(ys) || len(xs) != len(zs) {
		return nil, fmt.Errorf("%s: %w: batch sizes %d, %d, %d differ", name, dispatch.ErrBadShape, len(xs), len(ys), len(zs))
	}
	out := make([][]float64, len(xs))
	for i := range xs {
		y, err := f(xs[i], ys[i], zs[i])
		if err != nil {
			return nil, err
		}
		out[i] = y
	}
	return out, nil
}

// varFloor is the tolerance below which a computed variance is clamped
// to exactly zero before taking a square root, avoiding spurious NaN
// from floating-point round-off producing a tiny negative variance.
const varFloor = 1e-12

// clampVariance clamps a tiny negative variance (floating-point
// round-off) up to zero.
func clampVariance(v float64) float64 {
	if v < 0 && v > -varFloor {
		return 0
	}
	return v
}
