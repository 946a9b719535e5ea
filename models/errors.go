package models

import "errors"

// Domain errors shared between the stores and the services. Handlers map
// these onto HTTP status codes at the boundary of each operation.
var (
	// ErrSlotTaken is the single conflict condition the slot guard reports,
	// whether it was caught by the pre-check or by the storage-layer
	// uniqueness constraint.
	ErrSlotTaken = errors.New("this time slot is already booked")

	ErrWorkerNotFound  = errors.New("worker not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrInvalidStatus   = errors.New("invalid booking status")
	ErrValidation      = errors.New("validation failed")
)
