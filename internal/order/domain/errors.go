package domain

import "errors"

var (
	// ErrOrderNotFound no order with that id, or not visible to the caller
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderConflict the conditional update matched no row; another
	// driver won the claim or the order left the expected status
	ErrOrderConflict = errors.New("order already taken or changed state")

	// ErrNotOrderDriver the caller is not the driver assigned to the order
	ErrNotOrderDriver = errors.New("order is assigned to another driver")

	// ErrInvalidTransition the requested lifecycle move is not allowed
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrDriverNotVerified the driver has no verified profile yet
	ErrDriverNotVerified = errors.New("driver is not verified")

	// ErrLocationRequired accepting requires a recent location fix
	ErrLocationRequired = errors.New("driver location required to accept")

	// ErrInvalidCoordinates latitude/longitude out of range
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrMissingField a required order field is empty
	ErrMissingField = errors.New("missing required field")
)
