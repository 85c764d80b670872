// Package qctx defines the execution context read by every kernel: the
// group count, the warm-up/NaN-skip flags, and an advisory parallelism
// hint.
//
// A Context is built once through functional options and treated as an
// immutable snapshot for the duration of a call: panic in the
// constructor on a nonsensical value, never at call time.
//
// Concurrency:
//
//	Context values are plain structs; once built they are read-only and
//	safe to share across goroutines without synchronization. The package
//	also offers a convenience process-global default (Global/SetGlobal)
//	for callers that want a script-friendly, implicit context instead of
//	threading one through every call; mutating the global while another
//	goroutine is mid-call is a data race the caller must avoid (see
//	SetGlobal's doc comment).
package qctx
