package dispatch

import (
	"fmt"

	"github.com/arqora/tsquant/qctx"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Groups splits x into ctx.Groups() equal-length segments, invokes inner
// once per segment, and stitches the per-segment results back into one
// output slice of the same length as x. Segments are independent and are
// fanned out across goroutines bounded by ctx.Parallelism(); ordering of
// completion is immaterial because each goroutine writes only to its own
// disjoint slice of the output.
//
// Returns ErrBadShape if len(x) is not divisible by ctx.Groups(), or if
// inner returns a segment of the wrong length. No partial output is
// returned on error.
func Groups(ctx qctx.Context, name string, x []float64, inner func(seg []float64) ([]float64, error)) ([]float64, error) {
	n := len(x)
	g := ctx.Groups()
	if g < 1 || n%g != 0 {
		return nil, fmt.Errorf("%s: %w: length %d not divisible by %d groups", name, ErrBadShape, n, g)
	}
	t := n / g
	ctx.Metrics().ObserveCall(name)
	ctx.Metrics().ObserveGroups(g)

	y := make([]float64, n)
	if g == 1 {
		seg, err := inner(x)
		if err != nil {
			return nil, err
		}
		if len(seg) != t {
			return nil, fmt.Errorf("%s: %w: inner kernel returned length %d, want %d", name, ErrBadShape, len(seg), t)
		}
		copy(y, seg)
		return y, nil
	}

	var grp errgroup.Group
	if p := ctx.Parallelism(); p > 0 {
		grp.SetLimit(p)
	}
	for gi := 0; gi < g; gi++ {
		gi := gi
		seg := x[gi*t : (gi+1)*t]
		grp.Go(func() error {
			out, err := inner(seg)
			if err != nil {
				return err
			}
			if len(out) != t {
				return fmt.Errorf("%s: %w: inner kernel returned length %d, want %d", name, ErrBadShape, len(out), t)
			}
			copy(y[gi*t:(gi+1)*t], out)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return y, nil
}

// Groups2 is Groups for a kernel that reads two co-indexed series (e.g.
// COV, CORR, SUMIF): x and y are split into the same ctx.Groups()
// segments and inner receives matching segments of each.
func Groups2(ctx qctx.Context, name string, x, y []float64, inner func(segX, segY []float64) ([]float64, error)) ([]float64, error) {
	n := len(x)
	if len(y) != n {
		return nil, fmt.Errorf("%s: %w: series lengths %d and %d differ", name, ErrBadShape, n, len(y))
	}
	g := ctx.Groups()
	if g < 1 || n%g != 0 {
		return nil, fmt.Errorf("%s: %w: length %d not divisible by %d groups", name, ErrBadShape, n, g)
	}
	t := n / g
	ctx.Metrics().ObserveCall(name)
	ctx.Metrics().ObserveGroups(g)

	out := make([]float64, n)
	if g == 1 {
		seg, err := inner(x, y)
		if err != nil {
			return nil, err
		}
		if len(seg) != t {
			return nil, fmt.Errorf("%s: %w: inner kernel returned length %d, want %d", name, ErrBadShape, len(seg), t)
		}
		copy(out, seg)
		return out, nil
	}

	var grp errgroup.Group
	if p := ctx.Parallelism(); p > 0 {
		grp.SetLimit(p)
	}
	for gi := 0; gi < g; gi++ {
		gi := gi
		segX := x[gi*t : (gi+1)*t]
		segY := y[gi*t : (gi+1)*t]
		grp.Go(func() error {
			res, err := inner(segX, segY)
			if err != nil {
				return err
			}
			if len(res) != t {
				return fmt.Errorf("%s: %w: inner kernel returned length %d, want %d", name, ErrBadShape, len(res), t)
			}
			copy(out[gi*t:(gi+1)*t], res)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Groups3 is Groups2 for a kernel that reads three co-indexed series
// (e.g. FRET's open, close, and is_calc series).
func Groups3(ctx qctx.Context, name string, x, y, z []float64, inner func(segX, segY, segZ []float64) ([]float64, error)) ([]float64, error) {
	n := len(x)
	if len(y) != n || len(z) != n {
		return nil, fmt.Errorf("%s: %w: series lengths %d, %d, %d differ", name, ErrBadShape, n, len(y), len(z))
	}
	g := ctx.Groups()
	if g < 1 || n%g != 0 {
		return nil, fmt.Errorf("%s: %w: length %d not divisible by %d groups", name, ErrBadShape, n, g)
	}
	t := n / g
	ctx.Metrics().ObserveCall(name)
	ctx.Metrics().ObserveGroups(g)

	out := make([]float64, n)
	if g == 1 {
		seg, err := inner(x, y, z)
		if err != nil {
			return nil, err
		}
		if len(seg) != t {
			return nil, fmt.Errorf("%s: %w: inner kernel returned length %d, want %d", name, ErrBadShape, len(seg), t)
		}
		copy(out, seg)
		return out, nil
	}

	var grp errgroup.Group
	if p := ctx.Parallelism(); p > 0 {
		grp.SetLimit(p)
	}
	for gi := 0; gi < g; gi++ {
		gi := gi
		segX := x[gi*t : (gi+1)*t]
		segY := y[gi*t : (gi+1)*t]
		segZ := z[gi*t : (gi+1)*t]
		grp.Go(func() error {
			res, err := inner(segX, segY, segZ)
			if err != nil {
				return err
			}
			if len(res) != t {
				return fmt.Errorf("%s: %w: inner kernel returned length %d, want %d", name, ErrBadShape, len(res), t)
			}
			copy(out[gi*t:(gi+1)*t], res)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// CrossSection is the transposed counterpart of Groups: it fans out
// over time offsets (0..t-1) rather than over groups, handing inner one
// column per offset — the value every group holds at that time index —
// and scattering the returned column back into the grouped layout. This
// is what the cross-sectional kernels (RANK, BINS, NEUTRALIZE) need,
// since their reduction runs across groups at a fixed time rather than
// across time within one group.
func CrossSection(ctx qctx.Context, name string, x []float64, inner func(col []float64) ([]float64, error)) ([]float64, error) {
	n := len(x)
	g := ctx.Groups()
	if g < 1 || n%g != 0 {
		return nil, fmt.Errorf("%s: %w: length %d not divisible by %d groups", name, ErrBadShape, n, g)
	}
	t := n / g
	ctx.Metrics().ObserveCall(name)
	ctx.Metrics().ObserveGroups(g)

	y := make([]float64, n)
	var grp errgroup.Group
	if p := ctx.Parallelism(); p > 0 {
		grp.SetLimit(p)
	}
	for ti := 0; ti < t; ti++ {
		ti := ti
		grp.Go(func() error {
			col := make([]float64, g)
			for gi := 0; gi < g; gi++ {
				col[gi] = x[gi*t+ti]
			}
			out, err := inner(col)
			if err != nil {
				return err
			}
			if len(out) != g {
				return fmt.Errorf("%s: %w: inner kernel returned length %d, want %d", name, ErrBadShape, len(out), g)
			}
			for gi := 0; gi < g; gi++ {
				y[gi*t+ti] = out[gi]
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return y, nil
}

// CrossSection2 is CrossSection for a cross-sectional kernel that reads
// two co-indexed series (e.g. NEUTRALIZE's value and category series).
func CrossSection2(ctx qctx.Context, name string, x, y []float64, inner func(colX, colY []float64) ([]float64, error)) ([]float64, error) {
	n := len(x)
	if len(y) != n {
		return nil, fmt.Errorf("%s: %w: series lengths %d and %d differ", name, ErrBadShape, n, len(y))
	}
	g := ctx.Groups()
	if g < 1 || n%g != 0 {
		return nil, fmt.Errorf("%s: %w: length %d not divisible by %d groups", name, ErrBadShape, n, g)
	}
	t := n / g
	ctx.Metrics().ObserveCall(name)
	ctx.Metrics().ObserveGroups(g)

	out := make([]float64, n)
	var grp errgroup.Group
	if p := ctx.Parallelism(); p > 0 {
		grp.SetLimit(p)
	}
	for ti := 0; ti < t; ti++ {
		ti := ti
		grp.Go(func() error {
			colX := make([]float64, g)
			colY := make([]float64, g)
			for gi := 0; gi < g; gi++ {
				colX[gi] = x[gi*t+ti]
				colY[gi] = y[gi*t+ti]
			}
			res, err := inner(colX, colY)
			if err != nil {
				return err
			}
			if len(res) != g {
				return fmt.Errorf("%s: %w: inner kernel returned length %d, want %d", name, ErrBadShape, len(res), g)
			}
			for gi := 0; gi < g; gi++ {
				out[gi*t+ti] = res[gi]
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Batch processes a homogeneous batch of equal-length arrays
// independently, applying fn to each element in parallel (bounded by
// ctx.Parallelism()). All elements must share the same length, checked
// before any goroutine is spawned.
func Batch(ctx qctx.Context, name string, xs [][]float64, fn func(x []float64) ([]float64, error)) ([][]float64, error) {
	if len(xs) == 0 {
		return nil, nil
	}
	n := len(xs[0])
	if !lo.EveryBy(xs, func(x []float64) bool { return len(x) == n }) {
		return nil, fmt.Errorf("%s: %w: batch elements have differing lengths", name, ErrBadShape)
	}

	ys := make([][]float64, len(xs))
	var grp errgroup.Group
	if p := ctx.Parallelism(); p > 0 {
		grp.SetLimit(p)
	}
	for i, x := range xs {
		i, x := i, x
		grp.Go(func() error {
			out, err := fn(x)
			if err != nil {
				return err
			}
			ys[i] = out
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return ys, nil
}

// Call is the uniform single-array-or-batch entry point: it branches on
// in.IsBatch() exactly once and otherwise delegates to Batch or calls fn
// directly.
func Call(ctx qctx.Context, name string, in Arrays, fn func(x []float64) ([]float64, error)) (Arrays, error) {
	if xs, ok := in.AsBatch(); ok {
		ys, err := Batch(ctx, name, xs, fn)
		if err != nil {
			return Arrays{}, err
		}
		return BatchOf(ys), nil
	}
	x, _ := in.AsSingle()
	y, err := fn(x)
	if err != nil {
		return Arrays{}, err
	}
	return Single(y), nil
}
