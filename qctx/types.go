package qctx

// Flags is a bitset of context-wide policy switches. The zero value
// selects partial-window warm-up and NaN-poisons-window semantics for
// every kernel.
type Flags uint8

const (
	// StrictlyCycle makes window kernels emit NaN for the first
	// periods-1 outputs of each group instead of a partial-window
	// result.
	StrictlyCycle Flags = 1 << iota

	// SkipNaN makes window kernels exclude NaN values from a rolling
	// reduction instead of letting a single NaN poison the whole
	// window.
	SkipNaN
)

// Has reports whether every bit set in want is also set in f.
func (f Flags) Has(want Flags) bool { return f&want == want }

// Context is the immutable, process-wide (or per-call) configuration
// every kernel reads: how many equal-length groups an input is split
// into, the warm-up/NaN policy, and an advisory hint for how much
// parallelism the dispatch layer should use.
//
// Context is read-only after construction; kernels treat it as a
// snapshot captured at call entry, per the package doc.
type Context struct {
	groups      int
	flags       Flags
	parallelism int
	metrics     *Recorder
}

// Groups is the number of equal-length groups every input array is
// split into. It is always ≥ 1.
func (c Context) Groups() int { return c.groups }

// Flags returns the warm-up/NaN-skip policy bitset.
func (c Context) Flags() Flags { return c.flags }

// StrictlyCycle reports whether the StrictlyCycle flag is set.
func (c Context) StrictlyCycle() bool { return c.flags.Has(StrictlyCycle) }

// SkipNaN reports whether the SkipNaN flag is set.
func (c Context) SkipNaN() bool { return c.flags.Has(SkipNaN) }

// Parallelism is the advisory maximum number of goroutines the dispatch
// layer should use for one call. 0 means no cap: dispatch starts one
// goroutine per work item with no limit on how many run at once.
func (c Context) Parallelism() int { return c.parallelism }

// Metrics returns the optional metrics recorder attached via
// WithMetrics, or nil if none was configured.
func (c Context) Metrics() *Recorder { return c.metrics }

// Default is the zero-configuration context: 1 group, no flags, no
// parallelism cap, no metrics. Equivalent to New().
var Default = Context{groups: 1, flags: 0, parallelism: 0}
