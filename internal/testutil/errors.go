package testutil

import "errors"

// ErrSimulated возвращают фейки, которым велено упасть.
var ErrSimulated = errors.New("simulated failure")
