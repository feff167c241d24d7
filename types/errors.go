package types

import "errors"

var (
	// ErrNotFound is returned when a document doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when the resource conflicts (e.g. a second mailbox)
	ErrConflict = errors.New("conflict")

	// ErrBadRequest for malformed input
	ErrBadRequest = errors.New("bad request")

	// ErrInvalidPhoneNumber is returned when a phone number fails to parse or validate
	ErrInvalidPhoneNumber = errors.New("invalid phone number")

	// ErrInvalidPayload is returned when a config payload can't be decoded or misses required fields
	ErrInvalidPayload = errors.New("invalid config payload")
)
