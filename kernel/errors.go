package kernel

import "errors"

// ErrBadParameter indicates a negative period/window, a window value a
// particular kernel disallows at zero, or another scalar parameter
// outside the range that kernel documents.
var ErrBadParameter = errors.New("kernel: bad parameter")

// ErrUnsupported indicates a kernel was invoked with a context flag it
// cannot satisfy — concretely, SkipNaN on an operator that does not
// implement it (event counters, shift operators, the cross-sectional
// and future-return families, and TS_RANK).
var ErrUnsupported = errors.New("kernel: unsupported flag combination")
