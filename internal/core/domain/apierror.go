package domain

import (
	"errors"
	"fmt"
	"time"
)

// MediaWiki API error codes with dedicated handling.
const (
	ErrorCodeBadToken     = "badtoken"
	ErrorCodeNoToken      = "notoken"
	ErrorCodeEditConflict = "editconflict"
	ErrorCodeNoSuchEntity = "no-such-entity"
	ErrorCodeMaxlag       = "maxlag"
)

// APIError is an error reported in the "error" section of an API response.
type APIError struct {
	// Code is the machine-readable error code, e.g. "badtoken".
	Code string

	// Info is the human-readable message sent by the service.
	Info string

	// Lag is the replication lag reported with maxlag errors.
	Lag time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mediawiki: API error %s: %s", e.Code, e.Info)
}

// Is makes errors.Is(err, ErrRateLimited) hold for maxlag errors.
func (e *APIError) Is(target error) bool {
	return target == ErrRateLimited && e.Code == ErrorCodeMaxlag
}

// IsTokenError reports whether err is an API error for a missing or
// expired CSRF token.
func IsTokenError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == ErrorCodeBadToken || apiErr.Code == ErrorCodeNoToken
	}
	return false
}

// IsEditConflict reports whether err is an edit conflict on a base revision.
func IsEditConflict(err error) bool {
	return hasCode(err, ErrorCodeEditConflict)
}

// IsNoSuchEntity reports whether the edited entity does not exist.
func IsNoSuchEntity(err error) bool {
	return hasCode(err, ErrorCodeNoSuchEntity)
}

// IsMaxlag reports whether the request was refused because of replication lag.
func IsMaxlag(err error) bool {
	return hasCode(err, ErrorCodeMaxlag)
}

func hasCode(err error, code string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
