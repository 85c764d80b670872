// Package kernel implements the ~40 sliding-window and cross-sectional
// operators the rest of the library is built around: moving averages and
// smoothers, rolling extremes via a monotonic deque, rolling
// covariance/correlation/regression, rolling rank, conditional counts and
// sums, event counters, cross-sectional rank/bins/neutralization, and a
// non-causal future-return utility.
//
// Every operator is exposed twice: once for a single series
// (e.g. MA(ctx, x, w)) and once for a batch of equal-length series
// (e.g. MABatch(ctx, xs, w)), both built on one unexported per-group
// routine and dispatch.Groups/dispatch.Batch for shape validation,
// context snapshotting, and parallel fan-out — the "uniform calling
// convention" an expression compiler and a hand-written alpha library
// can share, per the package's design brief.
//
// Causality: every temporal kernel's output at index i depends only on
// inputs at indices <= i within the same group. Cross-sectional kernels
// (RANK, BINS, NEUTRALIZE) instead look across groups at a fixed time
// index; FRET is the one deliberately non-causal exception and is
// documented as such at its definition.
//
// NaN policy: NaN means "missing." Unless the context's SkipNaN flag is
// set, one NaN inside a rolling window poisons that window's output;
// with SkipNaN set, NaN values are excluded from the reduction and the
// valid-sample count is carried forward. Division by zero always yields
// NaN, never +-Inf.
package kernel
