package turndown

import (
	"errors"

	"github.com/turndownhq/turndown/sdk/internal/apierror"
)

// Error is the typed error returned for any non-2xx API response.
type Error = apierror.Error

var (
	ErrMissingCodeParameter   = errors.New("missing required property code parameter")
	ErrMissingDateParameter   = errors.New("missing required date parameter")
	ErrMissingNumberParameter = errors.New("missing required room number parameter")
)

// IsNotFound reports whether err is an API error for a missing property
// or room.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.IsNotFound()
}

// IsConflict reports whether err is an API error for a duplicate room
// number.
func IsConflict(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.IsConflict()
}

// IsValidation reports whether err is an API error for rejected input.
func IsValidation(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.IsValidation()
}
