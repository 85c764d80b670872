package kernel

import (
	"math"

	"github.com/arqora/tsquant/dispatch"
	"github.com/arqora/tsquant/qctx"
)

func varGroup(seg []float64, w int, sample bool, strictlyCycle, skipNaN bool) []float64 {
	y := make([]float64, len(seg))
	agg := newRollAgg(w, skipNaN)
	sum, sumSq := 0.0, 0.0
	valid := func(i int) bool { return !math.IsNaN(seg[i]) }
	add := func(i int) { sum += seg[i]; sumSq += seg[i] * seg[i] }
	remove := func(i int) { sum -= seg[i]; sumSq -= seg[i] * seg[i] }
	for i := range seg {
		count, width := agg.step(i, valid, add, remove)
		y[i] = resolve(i, w, count, width, strictlyCycle, skipNaN, valid(i), func(c int) float64 {
			n := float64(c)
			mean := sum / n
			v := sumSq/n - mean*mean
			v = clampVariance(v)
			if sample {
				if c < 2 {
					return math.NaN()
				}
				return v * n / (n - 1)
			}
			return v
		})
	}
	return y
}

// VAR is the rolling sample variance of x over the preceding W samples.
func VAR(ctx qctx.Context, x []float64, w int) ([]float64, error) {
	if err := checkWindow("VAR", w, false); err != nil {
		return nil, err
	}
	return dispatch.Groups(ctx, "VAR", x, func(seg []float64) ([]float64, error) {
		return varGroup(seg, w, true, ctx.StrictlyCycle(), ctx.SkipNaN()), nil
	})
}

// VARBatch is the batch form of VAR.
func VARBatch(ctx qctx.Context, xs [][]float64, w int) ([][]float64, error) {
	if err := checkWindow("VAR", w, false); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "VAR", xs, func(x []float64) ([]float64, error) {
		return VAR(ctx, x, w)
	})
}

// STDDEV is the rolling sample standard deviation of x over the
// preceding W samples: sqrt(VAR(x, W)).
func STDDEV(ctx qctx.Context, x []float64, w int) ([]float64, error) {
	v, err := VAR(ctx, x, w)
	if err != nil {
		return nil, err
	}
	y := make([]float64, len(v))
	for i, vi := range v {
		y[i] = math.Sqrt(vi)
	}
	return y, nil
}

// STDDEVBatch is the batch form of STDDEV.
func STDDEVBatch(ctx qctx.Context, xs [][]float64, w int) ([][]float64, error) {
	vs, err := VARBatch(ctx, xs, w)
	if err != nil {
		return nil, err
	}
	ys := make([][]float64, len(vs))
	for i, v := range vs {
		y := make([]float64, len(v))
		for j, vj := range v {
			y[j] = math.Sqrt(vj)
		}
		ys[i] = y
	}
	return ys, nil
}

// pairAgg accumulates the five running sums a rolling covariance,
// correlation, or simple regression needs: sum(x), sum(y), sum(x*x),
// sum(y*y), sum(x*y).
type pairAgg struct {
	sx, sy, sxx, syy, sxy float64
}

func (p *pairAgg) add(x, y float64) {
	p.sx += x
	p.sy += y
	p.sxx += x * x
	p.syy += y * y
	p.sxy += x * y
}

func (p *pairAgg) remove(x, y float64) {
	p.sx -= x
	p.sy -= y
	p.sxx -= x * x
	p.syy -= y * y
	p.sxy -= x * y
}

func (p *pairAgg) covariance(n float64, sample bool) float64 {
	cov := p.sxy/n - (p.sx/n)*(p.sy/n)
	if sample {
		if n < 2 {
			return math.NaN()
		}
		return cov * n / (n - 1)
	}
	return cov
}

// correlation emits NaN whenever either series is at or near constant
// within the window, rather than a hugely inflated finite value off a
// near-zero denominator: varFloor is the same tolerance clampVariance
// uses for round-off, applied here to the product of the two variances
// before the division.
func (p *pairAgg) correlation(n float64) float64 {
	covN := p.sxy/n - (p.sx/n)*(p.sy/n)
	varX := clampVariance(p.sxx/n - (p.sx/n)*(p.sx/n))
	varY := clampVariance(p.syy/n - (p.sy/n)*(p.sy/n))
	if varX*varY < varFloor {
		return math.NaN()
	}
	den := math.Sqrt(varX * varY)
	return safeDiv(covN, den)
}

// slope (beta) and intercept (alpha) of the least-squares line of y on
// x: y = alpha + beta*x.
func (p *pairAgg) beta(n float64) float64 {
	den := n*p.sxx - p.sx*p.sx
	return safeDiv(n*p.sxy-p.sx*p.sy, den)
}

func (p *pairAgg) alpha(n float64) float64 {
	b := p.beta(n)
	if math.IsNaN(b) {
		return math.NaN()
	}
	return p.sy/n - b*p.sx/n
}

func pairGroup(x, y []float64, w int, strictlyCycle, skipNaN bool, calc func(p *pairAgg, n float64) float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	agg := newRollAgg(w, skipNaN)
	p := &pairAgg{}
	valid := func(i int) bool { return !math.IsNaN(x[i]) && !math.IsNaN(y[i]) }
	add := func(i int) { p.add(x[i], y[i]) }
	remove := func(i int) { p.remove(x[i], y[i]) }
	for i := 0; i < n; i++ {
		count, width := agg.step(i, valid, add, remove)
		out[i] = resolve(i, w, count, width, strictlyCycle, skipNaN, valid(i), func(c int) float64 {
			return calc(p, float64(c))
		})
	}
	return out
}

// COV is the rolling sample covariance of x and y over the preceding W
// samples.
func COV(ctx qctx.Context, x, y []float64, w int) ([]float64, error) {
	if err := checkWindow("COV", w, false); err != nil {
		return nil, err
	}
	return dispatch.Groups2(ctx, "COV", x, y, func(sx, sy []float64) ([]float64, error) {
		return pairGroup(sx, sy, w, ctx.StrictlyCycle(), ctx.SkipNaN(), func(p *pairAgg, n float64) float64 {
			return p.covariance(n, true)
		}), nil
	})
}

// CORR is the rolling Pearson correlation of x and y over the
// preceding W samples.
func CORR(ctx qctx.Context, x, y []float64, w int) ([]float64, error) {
	if err := checkWindow("CORR", w, false); err != nil {
		return nil, err
	}
	return dispatch.Groups2(ctx, "CORR", x, y, func(sx, sy []float64) ([]float64, error) {
		return pairGroup(sx, sy, w, ctx.StrictlyCycle(), ctx.SkipNaN(), func(p *pairAgg, n float64) float64 {
			return p.correlation(n)
		}), nil
	})
}

// COVBatch is the batch form of COV; xs and ys are parallel batches.
func COVBatch(ctx qctx.Context, xs, ys [][]float64, w int) ([][]float64, error) {
	return batch2("COV", xs, ys, func(x, y []float64) ([]float64, error) {
		return COV(ctx, x, y, w)
	})
}

// CORRBatch is the batch form of CORR.
func CORRBatch(ctx qctx.Context, xs, ys [][]float64, w int) ([][]float64, error) {
	return batch2("CORR", xs, ys, func(x, y []float64) ([]float64, error) {
		return CORR(ctx, x, y, w)
	})
}

// REGBETA is the rolling least-squares beta of y regressed on x
// (cov(x,y)/var(x)) over the preceding W samples.
func REGBETA(ctx qctx.Context, y, x []float64, w int) ([]float64, error) {
	if err := checkWindow("REGBETA", w, false); err != nil {
		return nil, err
	}
	return dispatch.Groups2(ctx, "REGBETA", x, y, func(sx, sy []float64) ([]float64, error) {
		return pairGroup(sx, sy, w, ctx.StrictlyCycle(), ctx.SkipNaN(), func(p *pairAgg, n float64) float64 {
			return p.beta(n)
		}), nil
	})
}

// REGRESI is the rolling residual of y against its least-squares fit on
// x: y[i] - (alpha[i] + beta[i]*x[i]).
func REGRESI(ctx qctx.Context, y, x []float64, w int) ([]float64, error) {
	if err := checkWindow("REGRESI", w, false); err != nil {
		return nil, err
	}
	return dispatch.Groups2(ctx, "REGRESI", x, y, func(sx, sy []float64) ([]float64, error) {
		n := len(sx)
		out := make([]float64, n)
		agg := newRollAgg(w, ctx.SkipNaN())
		p := &pairAgg{}
		valid := func(i int) bool { return !math.IsNaN(sx[i]) && !math.IsNaN(sy[i]) }
		add := func(i int) { p.add(sx[i], sy[i]) }
		remove := func(i int) { p.remove(sx[i], sy[i]) }
		for i := 0; i < n; i++ {
			count, width := agg.step(i, valid, add, remove)
			out[i] = resolve(i, w, count, width, ctx.StrictlyCycle(), ctx.SkipNaN(), valid(i), func(c int) float64 {
				nf := float64(c)
				b := p.beta(nf)
				a := p.alpha(nf)
				if math.IsNaN(b) || math.IsNaN(a) {
					return math.NaN()
				}
				return sy[i] - (a + b*sx[i])
			})
		}
		return out, nil
	})
}

// REGBETABatch is the batch form of REGBETA; ys and xs are parallel
// batches of dependent and independent series.
func REGBETABatch(ctx qctx.Context, ys, xs [][]float64, w int) ([][]float64, error) {
	return batch2("REGBETA", ys, xs, func(y, x []float64) ([]float64, error) {
		return REGBETA(ctx, y, x, w)
	})
}

// REGRESIBatch is the batch form of REGRESI.
func REGRESIBatch(ctx qctx.Context, ys, xs [][]float64, w int) ([][]float64, error) {
	return batch2("REGRESI", ys, xs, func(y, x []float64) ([]float64, error) {
		return REGRESI(ctx, y, x, w)
	})
}

// trendGroup regresses seg against the implicit sequence 0..count-1 of
// each trailing window: the position fed to pairAgg is a counter that
// advances once per valid sample ever seen in the group (never reset),
// so any contiguous run of count valid samples sees exactly count
// consecutive integers as its independent variable — equivalent to
// 0..count-1 up to a translation, which leaves the least-squares slope
// unchanged and correlation unaffected. INTERCEPT still needs the
// actual 0..count-1 mean, computed directly from count rather than from
// the (arbitrarily offset) running position sums.
func trendGroup(seg []float64, w int, strictlyCycle, skipNaN bool, calc func(p *pairAgg, n float64) float64) []float64 {
	n := len(seg)
	out := make([]float64, n)
	agg := newRollAgg(w, skipNaN)
	p := &pairAgg{}
	positions := make([]float64, n)
	seqPos := 0.0
	valid := func(i int) bool { return !math.IsNaN(seg[i]) }
	add := func(i int) {
		positions[i] = seqPos
		p.add(seqPos, seg[i])
		seqPos++
	}
	remove := func(i int) { p.remove(positions[i], seg[i]) }
	for i := 0; i < n; i++ {
		count, width := agg.step(i, valid, add, remove)
		out[i] = resolve(i, w, count, width, strictlyCycle, skipNaN, valid(i), func(c int) float64 {
			return calc(p, float64(c))
		})
	}
	return out
}

// SLOPE is the rolling least-squares slope of x regressed against the
// sequence 0..W-1 within each trailing window (a linear-trend slope).
func SLOPE(ctx qctx.Context, x []float64, w int) ([]float64, error) {
	if err := checkWindow("SLOPE", w, false); err != nil {
		return nil, err
	}
	return dispatch.Groups(ctx, "SLOPE", x, func(seg []float64) ([]float64, error) {
		return trendGroup(seg, w, ctx.StrictlyCycle(), ctx.SkipNaN(), func(p *pairAgg, n float64) float64 {
			return p.beta(n)
		}), nil
	})
}

// SLOPEBatch is the batch form of SLOPE.
func SLOPEBatch(ctx qctx.Context, xs [][]float64, w int) ([][]float64, error) {
	if err := checkWindow("SLOPE", w, false); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "SLOPE", xs, func(x []float64) ([]float64, error) {
		return SLOPE(ctx, x, w)
	})
}

// INTERCEPT is the rolling least-squares intercept of x regressed
// against the sequence 0..W-1 within each trailing window.
func INTERCEPT(ctx qctx.Context, x []float64, w int) ([]float64, error) {
	if err := checkWindow("INTERCEPT", w, false); err != nil {
		return nil, err
	}
	return dispatch.Groups(ctx, "INTERCEPT", x, func(seg []float64) ([]float64, error) {
		return trendGroup(seg, w, ctx.StrictlyCycle(), ctx.SkipNaN(), func(p *pairAgg, n float64) float64 {
			b := p.beta(n)
			if math.IsNaN(b) {
				return math.NaN()
			}
			relMeanX := (n - 1) / 2
			meanY := p.sy / n
			return meanY - b*relMeanX
		}), nil
	})
}

// INTERCEPTBatch is the batch form of INTERCEPT.
func INTERCEPTBatch(ctx qctx.Context, xs [][]float64, w int) ([][]float64, error) {
	if err := checkWindow("INTERCEPT", w, false); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "INTERCEPT", xs, func(x []float64) ([]float64, error) {
		return INTERCEPT(ctx, x, w)
	})
}

// TS_CORRELATION is the rolling Pearson correlation of x against the
// sequence 0..T-1 within each trailing window — CORR(x, time) rather
// than CORR of two data series, per the naming alpha formulas use for
// a trend-strength indicator.
func TS_CORRELATION(ctx qctx.Context, x []float64, w int) ([]float64, error) {
	if err := checkWindow("TS_CORRELATION", w, false); err != nil {
		return nil, err
	}
	return dispatch.Groups(ctx, "TS_CORRELATION", x, func(seg []float64) ([]float64, error) {
		return trendGroup(seg, w, ctx.StrictlyCycle(), ctx.SkipNaN(), func(p *pairAgg, n float64) float64 {
			return p.correlation(n)
		}), nil
	})
}

// TS_CORRELATIONBatch is the batch form of TS_CORRELATION.
func TS_CORRELATIONBatch(ctx qctx.Context, xs [][]float64, w int) ([][]float64, error) {
	if err := checkWindow("TS_CORRELATION", w, false); err != nil {
		return nil, err
	}
	return dispatch.Batch(ctx, "TS_CORRELATION", xs, func(x []float64) ([]float64, error) {
		return TS_CORRELATION(ctx, x, w)
	})
}
