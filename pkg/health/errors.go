package health

import "errors"

// ErrCheckTimeout marks a check that ran past the readiness timeout.
var ErrCheckTimeout = errors.New("health: check timeout")
