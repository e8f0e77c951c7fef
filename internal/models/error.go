package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrBadRequest     = errors.New("bad request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInternalServer = errors.New("internal server error")

	// Decision-path errors
	ErrStoreUnavailable = errors.New("attempt store unavailable")
	ErrPredictor        = errors.New("predictor failure")
)
