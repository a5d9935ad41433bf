package domain

import "errors"

var (
	// ErrDriverNotFound no driver_details row for that user
	ErrDriverNotFound = errors.New("driver not found")

	// ErrDetailExists the driver already submitted verification details
	ErrDetailExists = errors.New("driver details already submitted")

	// ErrInvalidIDNumber the national id number failed validation
	ErrInvalidIDNumber = errors.New("invalid id number")

	// ErrInvalidCoordinates latitude/longitude out of range
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrTooFrequent a fix arrived before the rate-limit window elapsed
	ErrTooFrequent = errors.New("location updates too frequent")

	// ErrInvalidVerificationStatus unknown verification decision
	ErrInvalidVerificationStatus = errors.New("invalid verification status")
)
