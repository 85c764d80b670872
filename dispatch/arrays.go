package dispatch

// Arrays is a tagged value that is either a single series or a batch of
// equal-length series — the single point where "one array or a list of
// arrays" dynamic dispatch is modeled, per the library's design notes.
// Nothing beneath this boundary does runtime type-switching: every
// kernel call branches on IsBatch exactly once, at the entry.
type Arrays struct {
	single  []float64
	batch   [][]float64
	isBatch bool
}

// Single wraps one series as an Arrays value.
func Single(x []float64) Arrays {
	return Arrays{single: x}
}

// BatchOf wraps a homogeneous list of series as an Arrays value.
func BatchOf(xs [][]float64) Arrays {
	return Arrays{batch: xs, isBatch: true}
}

// IsBatch reports whether this value holds a batch rather than a single
// series.
func (a Arrays) IsBatch() bool { return a.isBatch }

// AsSingle returns the wrapped series and true, or (nil, false) if this
// value holds a batch.
func (a Arrays) AsSingle() ([]float64, bool) {
	if a.isBatch {
		return nil, false
	}
	return a.single, true
}

// AsBatch returns the wrapped batch and true, or (nil, false) if this
// value holds a single series.
func (a Arrays) AsBatch() ([][]float64, bool) {
	if !a.isBatch {
		return nil, false
	}
	return a.batch, true
}
