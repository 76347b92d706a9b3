package shared

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Pipeline errors
	ErrEmptyInput        = fmt.Errorf("empty input")
	ErrInvalidSong       = fmt.Errorf("invalid song")
	ErrUpstream          = fmt.Errorf("upstream request failed")
	ErrMalformedResponse = fmt.Errorf("malformed upstream response")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)

// StatusFor maps a pipeline error to the HTTP status reported for it.
//
// Input problems are 4xx, everything else (including unknown errors) is 5xx.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrEmptyInput), errors.Is(err, ErrInvalidSong), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
