package kernel

import (
	"math"

	"github.com/arqora/tsquant/dispatch"
	"github.com/arqora/tsquant/qctx"
)

func sumGroup(seg []float64, w int, strictlyCycle, skipNaN bool) []float64 {
	y := make([]float64, len(seg))
	agg := newRollAgg(w, skipNaN)
	sum := 0.0
	add := func(i int) { sum += seg[i] }
	remove := func(i int) { sum -= seg[i] }
	valid := func(i int) bool { return !math.IsNaN(seg[i]) }
	for i := range seg {
		count, width := agg.step(i, valid, add, remove)
		y[i] = resolve(i, w, count, width, strictlyCycle, skipNaN, valid(i), func(int) float64 { return sum })
	}
	return y
}

// SUM is the rolling sum of x over the preceding W samples (inclusive
// of the current one). W == 0 means cumulative since the start of each
// group.
func SUM(ctx qctx.Context, x []float64, w int) ([]float64, error) {
	if err := checkWindow("SUM", w, true); err != nil {
		return nil, err
	}
	return dispatch.Groups(ctx, "SUM", x, func(seg []float64) ([]float64, error) {
		return sumGroup(seg, w, ctx.StrictlyCycle(), ctx.SkipNaN()), nil
	})
}

// SUMBatch is the batch form of SUM.
func SUMBatch(ctx qctx.Context, xs [][]float64, w int) ([][]float64, error) {
	if err := checkWindow("SUM", w, true); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "SUM", xs, func(x []float64) ([]float64, error) {
		return SUM(ctx, x, w)
	})
}

// productAgg tracks a running product via a log-magnitude and a sign so
// that add/remove stay O(1) even across zero and negative factors,
// rather than restricting the fast path to strictly positive inputs.
type productAgg struct {
	logSum float64
	negs   int
	zeros  int
}

func (p *productAgg) add(v float64) {
	if v == 0 {
		p.zeros++
		return
	}
	if v < 0 {
		p.negs++
		v = -v
	}
	p.logSum += math.Log(v)
}

func (p *productAgg) remove(v float64) {
	if v == 0 {
		p.zeros--
		return
	}
	if v < 0 {
		p.negs--
		v = -v
	}
	p.logSum -= math.Log(v)
}

func (p *productAgg) value() float64 {
	if p.zeros > 0 {
		return 0
	}
	mag := math.Exp(p.logSum)
	if p.negs%2 != 0 {
		return -mag
	}
	return mag
}

func productGroup(seg []float64, w int, strictlyCycle, skipNaN bool) []float64 {
	y := make([]float64, len(seg))
	agg := newRollAgg(w, skipNaN)
	prod := &productAgg{}
	add := func(i int) { prod.add(seg[i]) }
	remove := func(i int) { prod.remove(seg[i]) }
	valid := func(i int) bool { return !math.IsNaN(seg[i]) }
	for i := range seg {
		count, width := agg.step(i, valid, add, remove)
		y[i] = resolve(i, w, count, width, strictlyCycle, skipNaN, valid(i), func(int) float64 { return prod.value() })
	}
	return y
}

// PRODUCT is the rolling product of x over the preceding W samples.
// W == 0 means cumulative since the start of each group.
func PRODUCT(ctx qctx.Context, x []float64, w int) ([]float64, error) {
	if err := checkWindow("PRODUCT", w, true); err != nil {
		return nil, err
	}
	return dispatch.Groups(ctx, "PRODUCT", x, func(seg []float64) ([]float64, error) {
		return productGroup(seg, w, ctx.StrictlyCycle(), ctx.SkipNaN()), nil
	})
}

// PRODUCTBatch is the batch form of PRODUCT.
func PRODUCTBatch(ctx qctx.Context, xs [][]float64, w int) ([][]float64, error) {
	if err := checkWindow("PRODUCT", w, true); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "PRODUCT", xs, func(x []float64) ([]float64, error) {
		return PRODUCT(ctx, x, w)
	})
}

func sumifGroup(x, c []float64, w int, strictlyCycle, skipNaN bool) []float64 {
	n := len(x)
	y := make([]float64, n)
	agg := newRollAgg(w, skipNaN)
	sum := 0.0
	valid := func(i int) bool { return !math.IsNaN(x[i]) && !math.IsNaN(c[i]) }
	add := func(i int) {
		if truthy(c[i]) {
			sum += x[i]
		}
	}
	remove := func(i int) {
		if truthy(c[i]) {
			sum -= x[i]
		}
	}
	for i := 0; i < n; i++ {
		count, width := agg.step(i, valid, add, remove)
		y[i] = resolve(i, w, count, width, strictlyCycle, skipNaN, valid(i), func(int) float64 { return sum })
	}
	return y
}

// SUMIF is the rolling sum of x over the preceding W samples restricted
// to positions where the predicate c is true (non-zero, non-NaN). A
// position where either x or c is NaN is itself treated as missing.
func SUMIF(ctx qctx.Context, x, c []float64, w int) ([]float64, error) {
	if err := checkWindow("SUMIF", w, true); err != nil {
		return nil, err
	}
	return dispatch.Groups2(ctx, "SUMIF", x, c, func(segX, segC []float64) ([]float64, error) {
		return sumifGroup(segX, segC, w, ctx.StrictlyCycle(), ctx.SkipNaN()), nil
	})
}

// SUMIFBatch is the batch form of SUMIF; cs holds one predicate series
// per element of xs.
func SUMIFBatch(ctx qctx.Context, xs, cs [][]float64, w int) ([][]float64, error) {
	return batch2("SUMIF", xs, cs, func(x, c []float64) ([]float64, error) {
		return SUMIF(ctx, x, c, w)
	})
}

func countGroup(c []float64, w int, strictlyCycle, skipNaN bool) []float64 {
	n := len(c)
	y := make([]float64, n)
	agg := newRollAgg(w, skipNaN)
	cnt := 0.0
	valid := func(i int) bool { return !math.IsNaN(c[i]) }
	add := func(i int) {
		if truthy(c[i]) {
			cnt++
		}
	}
	remove := func(i int) {
		if truthy(c[i]) {
			cnt--
		}
	}
	for i := 0; i < n; i++ {
		count, width := agg.step(i, valid, add, remove)
		y[i] = resolve(i, w, count, width, strictlyCycle, skipNaN, valid(i), func(int) float64 { return cnt })
	}
	return y
}

// COUNT is the rolling count of true entries of predicate c over the
// preceding W samples, returned as float64.
func COUNT(ctx qctx.Context, c []float64, w int) ([]float64, error) {
	if err := checkWindow("COUNT", w, true); err != nil {
		return nil, err
	}
	return dispatch.Groups(ctx, "COUNT", c, func(seg []float64) ([]float64, error) {
		return countGroup(seg, w, ctx.StrictlyCycle(), ctx.SkipNaN()), nil
	})
}

// COUNTBatch is the batch form of COUNT.
func COUNTBatch(ctx qctx.Context, cs [][]float64, w int) ([][]float64, error) {
	if err := checkWindow("COUNT", w, true); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "COUNT", cs, func(c []float64) ([]float64, error) {
		return COUNT(ctx, c, w)
	})
}
