// Package errorspkg provides common app errors.
package errorspkg

import "errors"

// ErrInternal indicates internal server error.
//
// Its text is what clients see, so it must not carry any detail of the failure.
var ErrInternal = errors.New("Internal server error")
