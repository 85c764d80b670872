// Package tsquant is a library of vectorized time-series operators for
// quantitative finance, plus a small expression compiler that turns
// formulaic alpha definitions (the WorldQuant-101 and GTJA-191 canons, or
// your own) into calls against those operators.
//
// What is tsquant?
//
//	A pure-Go, allocation-disciplined library that brings together:
//
//	  • An execution context: group count, warm-up/NaN-skip flags,
//	    an advisory parallelism hint (qctx/)
//	  • ~40 sliding-window and cross-sectional kernels: moving averages,
//	    rolling correlation/covariance/regression, rolling rank, extremes
//	    and their bar offsets, conditional counts/sums, decay smoothers
//	    (kernel/)
//	  • A dispatch layer that fans a single series or a batch of equal-
//	    length group-series out across goroutines with no locking, because
//	    every kernel writes to a disjoint output slice (dispatch/)
//	  • An expression compiler for an infix DSL (arithmetic, comparisons,
//	    ternary, logical, power, uppercase calls) that emits Go source
//	    calling the kernels above through a ctx-like dispatcher (expr/)
//
// Why tsquant?
//
//   - Causal by construction — every temporal kernel looks only at
//     indices ≤ i within its own group; no accidental lookahead.
//   - Group-isolated — a grouped series is G concatenated per-group
//     series; temporal kernels never leak across a group boundary.
//   - NaN-precise — NaN means "missing," and two context flags
//     (StrictlyCycle, SkipNaN) govern warm-up and missing-data policy
//     identically across every kernel.
//   - Deterministic — same inputs, same context, same parameters, same
//     outputs, always; no hidden global mutable state.
//
// Under the hood, everything is organized under four subpackages:
//
//	qctx/    — Context, Flags, functional options, optional metrics hook
//	kernel/  — the operator families: shift, rolling, smoothers, extremes,
//	           statistics, rank, events, neutralize, future-return utility
//	dispatch/— uniform single-array-or-batch entry point, parallel fan-out
//	expr/    — DSL lexer, parser, AST, Go-source emitter
//
// Data flow: an expression compiled by expr, or a hand-written caller,
// invokes dispatch, which allocates outputs, snapshots the context, and
// fans per-group work out to kernel. Outputs always mirror the shape of
// their primary input.
//
//	go get github.com/arqora/tsquant
package tsquant
