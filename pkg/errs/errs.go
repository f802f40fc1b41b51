// Package errs holds the error taxonomy shared by the control packages.
package errs

import "errors"

var (
	// ErrInvalidInput indicates an empty or otherwise unusable argument: the
	// mean of an empty buffer, scaling an empty or all-zero speed set, or
	// activating a menu cell that has no button.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnconfigured indicates a port with no hardware bound to it. The
	// robot facade deliberately skips such ports instead of returning this;
	// it is returned only by lookups that need a specific capability.
	ErrUnconfigured = errors.New("port not configured")
)
