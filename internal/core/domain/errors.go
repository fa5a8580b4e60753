package domain

import "errors"

var (
	ErrInvalidProduct   = errors.New("invalid product")
	ErrInvalidForm      = errors.New("invalid form")
	ErrInvalidPage      = errors.New("invalid page")
	ErrSubmitInProgress = errors.New("submit in progress")

	// ErrUnauthorized reports a token rejected by the remote API.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUpstream wraps every failure of the remote API.
	ErrUpstream = errors.New("upstream failure")
)
