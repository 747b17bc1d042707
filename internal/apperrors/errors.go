package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation is not allowed in the resource's current state,
// e.g. deleting a client that still has invoices.
var ErrConflict = errors.New("operation conflicts with resource state")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// Failure classes for the reminder pipeline. Each marks one stage of processing a
// single invoice; callers wrap them with %w so the dispatcher can classify failures
// without aborting the batch.
var (
	// ErrStore marks a read or write failure against the invoice store.
	ErrStore = errors.New("store error")
	// ErrGeneration marks a document rendering failure.
	ErrGeneration = errors.New("document generation error")
	// ErrDelivery marks a notification transport failure.
	ErrDelivery = errors.New("delivery error")
)
