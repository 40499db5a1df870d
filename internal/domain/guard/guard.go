// Package guard holds the state-machine errors shared by every request type.
package guard

import "errors"

var (
	// ErrAlreadyProcessed is returned when a request has already left its
	// transitionable state.
	ErrAlreadyProcessed = errors.New("already processed")

	// ErrInvalidTransition is returned for a target status the request
	// can never move to.
	ErrInvalidTransition = errors.New("invalid status transition")
)
