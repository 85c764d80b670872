package dispatch

import "errors"

// ErrBadShape indicates an input length is not divisible by the
// context's group count, or that batch elements have differing
// lengths, or that paired arrays (e.g. COV's x and y) have mismatched
// lengths, or that an inner kernel returned a segment of the wrong
// length. Input shape errors are detected before any computation runs;
// a wrong inner length is detected after that kernel ran. In both cases
// no partially written output is returned.
var ErrBadShape = errors.New("dispatch: bad shape")
