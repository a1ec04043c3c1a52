package models

import "errors"

var (
	// ErrInvalidParameters marks caller input that failed validation.
	ErrInvalidParameters = errors.New("INVALID_PARAMETERS")
	// ErrStoreUnavailable marks a record store that could not be reached at all.
	ErrStoreUnavailable = errors.New("RECORD_STORE_UNAVAILABLE")
)
