package attendance

import "errors"

// Domain-rule violations are surfaced to the caller as rejected operations;
// the adapter layer decides how to present them.
var (
	// ErrAlreadyClockedIn rejects a second clock-in for the same user and day.
	ErrAlreadyClockedIn = errors.New("already clocked in today")

	// ErrNotClockedIn rejects a clock-out with no prior clock-in.
	ErrNotClockedIn = errors.New("not clocked in today")

	// ErrAlreadyClockedOut rejects a clock-out for an already closed day.
	ErrAlreadyClockedOut = errors.New("already clocked out today")

	// ErrInvalidInterval rejects a clock-out earlier than its clock-in.
	ErrInvalidInterval = errors.New("clock-out time precedes clock-in")
)
