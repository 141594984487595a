package flow

import "errors"

var (
	// ErrNoPages is returned when a controller is built without pages.
	ErrNoPages = errors.New("flow: at least one page is required")
	// ErrBlocked is returned when forward navigation is attempted while the
	// active page reports it cannot continue.
	ErrBlocked = errors.New("flow: active page cannot continue")
	// ErrCompleted is returned by forward navigation once the flow is done.
	ErrCompleted = errors.New("flow: already completed")
	// ErrNotConditional is returned by Affirm/Decline on a regular page.
	ErrNotConditional = errors.New("flow: active page is not conditional")
)
