package expr

import (
	"fmt"
	"math"

	"github.com/arqora/tsquant/kernel"
	"github.com/arqora/tsquant/qctx"
)

// KernelDispatcher is a reference Dispatcher implementation that routes
// Get to a fixed set of named data series and Call to the kernel
// package, so a compiled formula can actually be evaluated end to end
// rather than only emitted as source. It supports the subset of kernel
// operators and canonical arithmetic/logic names common to the alpha
// formulas this library targets; Call panics on an unrecognized name,
// since a Dispatcher is only ever invoked against code this package
// itself emitted from a successfully parsed formula.
type KernelDispatcher struct {
	Ctx    qctx.Context
	Fields map[string][]float64
}

func (d *KernelDispatcher) Get(field string) any {
	v, ok := d.Fields[field]
	if !ok {
		panic(fmt.Sprintf("expr: unknown field %q", field))
	}
	return v
}

// asSeries coerces a Dispatcher.Call argument — either a []float64
// already, or a float64 literal broadcast to the given length — into a
// series suitable for a kernel call.
func asSeries(v any, n int) []float64 {
	switch x := v.(type) {
	case []float64:
		return x
	case int:
		return asSeries(float64(x), n)
	case float64:
		y := make([]float64, n)
		for i := range y {
			y[i] = x
		}
		return y
	default:
		panic(fmt.Sprintf("expr: cannot use %T as a series", v))
	}
}

// asScalar accepts float64 or int so that emitted code can pass numeric
// literals as untyped constants.
func asScalar(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case []float64:
		if len(x) == 1 {
			return x[0]
		}
		panic("expr: cannot use a multi-element series as a scalar")
	default:
		panic(fmt.Sprintf("expr: cannot use %T as a scalar", v))
	}
}

func seriesLen(args ...any) int {
	for _, a := range args {
		if s, ok := a.([]float64); ok {
			return len(s)
		}
	}
	return 1
}

func (d *KernelDispatcher) Call(name string, args ...any) any {
	n := seriesLen(args...)
	series := func(i int) []float64 { return asSeries(args[i], n) }
	period := func(i int) int { return int(asScalar(args[i])) }

	must := func(y []float64, err error) []float64 {
		if err != nil {
			panic(err)
		}
		return y
	}

	switch name {
	case opAdd:
		return elementwise(series(0), series(1), func(a, b float64) float64 { return a + b })
	case opSub:
		return elementwise(series(0), series(1), func(a, b float64) float64 { return a - b })
	case opMul:
		return elementwise(series(0), series(1), func(a, b float64) float64 { return a * b })
	case opDiv:
		return elementwise(series(0), series(1), func(a, b float64) float64 {
			if b == 0 {
				return math.NaN()
			}
			return a / b
		})
	case opNeg:
		return elementwise(series(0), series(0), func(a, _ float64) float64 { return -a })
	case opEq:
		return elementwise(series(0), series(1), func(a, b float64) float64 { return boolFloat64(a == b) })
	case opNe:
		return elementwise(series(0), series(1), func(a, b float64) float64 { return boolFloat64(a != b) })
	case opLt:
		return elementwise(series(0), series(1), func(a, b float64) float64 { return boolFloat64(a < b) })
	case opGt:
		return elementwise(series(0), series(1), func(a, b float64) float64 { return boolFloat64(a > b) })
	case opLe:
		return elementwise(series(0), series(1), func(a, b float64) float64 { return boolFloat64(a <= b) })
	case opGe:
		return elementwise(series(0), series(1), func(a, b float64) float64 { return boolFloat64(a >= b) })
	case opAnd:
		return elementwise(series(0), series(1), func(a, b float64) float64 { return boolFloat64(a != 0 && b != 0) })
	case opOr:
		return elementwise(series(0), series(1), func(a, b float64) float64 { return boolFloat64(a != 0 || b != 0) })
	case opSelect:
		cond, then, els := series(0), series(1), series(2)
		out := make([]float64, n)
		for i := range out {
			if cond[i] != 0 {
				out[i] = then[i]
			} else {
				out[i] = els[i]
			}
		}
		return out
	case opPow:
		return must(kernel.POWER(d.Ctx, series(0), series(1)))
	case "REF":
		return must(kernel.REF(d.Ctx, series(0), period(1)))
	case "DELAY":
		return must(kernel.DELAY(d.Ctx, series(0), period(1)))
	case "DELTA":
		return must(kernel.DELTA(d.Ctx, series(0), period(1)))
	case "MA":
		return must(kernel.MA(d.Ctx, series(0), period(1)))
	case "SUM":
		return must(kernel.SUM(d.Ctx, series(0), period(1)))
	case "STDDEV":
		return must(kernel.STDDEV(d.Ctx, series(0), period(1)))
	case "HHV":
		return must(kernel.HHV(d.Ctx, series(0), period(1)))
	case "LLV":
		return must(kernel.LLV(d.Ctx, series(0), period(1)))
	case "CORR":
		return must(kernel.CORR(d.Ctx, series(0), series(1), period(2)))
	case "MAX":
		return must(kernel.MAX(d.Ctx, series(0), series(1)))
	case "MIN":
		return must(kernel.MIN(d.Ctx, series(0), series(1)))
	case "RANK":
		return must(kernel.RANK(d.Ctx, series(0)))
	case "CROSS":
		return must(kernel.CROSS(d.Ctx, series(0), series(1)))
	default:
		panic(fmt.Sprintf("expr: unknown operator %q", name))
	}
}

func elementwise(x, y []float64, f func(a, b float64) float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		out[i] = f(x[i], y[i])
	}
	return out
}

func boolFloat64(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
