// Package dispatch is the uniform entry point every kernel operator is
// built on: it accepts either a single array or a batch of equal-length
// arrays, allocates outputs, reads the execution context once, and fans
// per-group (or per-batch-element) work out across goroutines with no
// locking — every task writes to its own disjoint output slice.
//
// dispatch knows nothing about any particular operator; kernel functions
// supply the per-group or per-array computation as a closure and let
// Groups/Batch/Call handle shape validation, allocation, context
// snapshotting, and parallel fan-out. This keeps a thin, documented
// facade separate from the algorithmic code it wraps, scaled down to one
// generic fan-out mechanism instead of a facade per type.
//
// Concurrency: parallel fan-out uses golang.org/x/sync/errgroup, bounded
// by the context's advisory Parallelism hint via SetLimit. Shape
// validation happens before any goroutine is spawned, so a BadShape
// error is always returned synchronously with no partial writes to the
// output, per the library's error-handling policy.
package dispatch
