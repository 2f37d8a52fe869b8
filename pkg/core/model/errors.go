package model

import "errors"

// Business-rule outcomes returned by the booking and marketplace engines.
// Callers distinguish them with errors.Is and render a specific message;
// none of them indicate a storage fault.
var (
	// ErrNotFound means the referenced shift, posting or request does not exist
	ErrNotFound = errors.New("not found")

	// ErrCapacityExceeded means every seat for the requested role is taken
	ErrCapacityExceeded = errors.New("no free seats for role")

	// ErrDuplicateBooking means the user already holds a seat on the shift
	ErrDuplicateBooking = errors.New("user already booked on shift")

	// ErrConflictOnCall means the user is on call on the shift's date
	ErrConflictOnCall = errors.New("user is on call that day")

	// ErrRoleMismatch means the claiming user's role differs from the posting's original role
	ErrRoleMismatch = errors.New("role does not match posting")

	// ErrAlreadyAssigned means the posting has already been claimed
	ErrAlreadyAssigned = errors.New("posting already assigned")
)
