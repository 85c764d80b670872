package qctx

// Option mutates a Context under construction. Safe to apply repeatedly;
// constructors panic only on nonsensical values (programmer error).
type Option func(*Context)

// New resolves option setters against the documented defaults (1 group,
// no flags, no parallelism cap) and returns the effective, immutable
// Context.
func New(opts ...Option) Context {
	c := Context{groups: 1, flags: 0, parallelism: 0}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithGroups sets the group count G. Every input array length passed to
// the dispatch layer must be divisible by G; that is validated per call,
// not here, since it depends on the input rather than the context.
//
// Panics if g < 1.
func WithGroups(g int) Option {
	if g < 1 {
		panic("qctx: WithGroups: groups must be >= 1")
	}
	return func(c *Context) { c.groups = g }
}

// WithFlags sets the full flag bitset, overwriting any flags set by
// earlier options in the same New call.
func WithFlags(f Flags) Option {
	return func(c *Context) { c.flags = f }
}

// WithStrictlyCycle sets (or clears) the StrictlyCycle flag without
// disturbing SkipNaN.
func WithStrictlyCycle(on bool) Option {
	return func(c *Context) {
		if on {
			c.flags |= StrictlyCycle
		} else {
			c.flags &^= StrictlyCycle
		}
	}
}

// WithSkipNaN sets (or clears) the SkipNaN flag without disturbing
// StrictlyCycle.
func WithSkipNaN(on bool) Option {
	return func(c *Context) {
		if on {
			c.flags |= SkipNaN
		} else {
			c.flags &^= SkipNaN
		}
	}
}

// WithParallelism sets the advisory maximum goroutine count the dispatch
// layer should use for one call. A value <= 0 means "no cap" (dispatch
// decides).
func WithParallelism(n int) Option {
	return func(c *Context) {
		if n < 0 {
			n = 0
		}
		c.parallelism = n
	}
}

// WithMetrics attaches a Recorder that the dispatch layer reports kernel
// invocation counts and group-count histograms to. A nil Recorder
// disables metrics (equivalent to not calling WithMetrics at all).
func WithMetrics(r *Recorder) Option {
	return func(c *Context) { c.metrics = r }
}
