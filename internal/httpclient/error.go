package httpclient

import (
	goerrors "errors"
	"net/http"

	"github.com/ledgerbook/ledgerbook/internal/errors"
)

// Error represents an HTTP client error
type Error struct {
	*errors.InternalError
	StatusCode int
	Response   []byte
}

func (e *Error) Unwrap() error {
	return e.InternalError.Unwrap()
}

func (e *Error) Error() string {
	return e.InternalError.Error()
}

// NewError creates a new HTTP client error. The response status maps onto
// the error taxonomy so callers can match with errors.IsNotFound and friends
// instead of inspecting status codes.
func NewError(statusCode int, response []byte) *Error {
	return &Error{
		InternalError: errorForStatus(statusCode),
		StatusCode:    statusCode,
		Response:      response,
	}
}

func errorForStatus(statusCode int) *errors.InternalError {
	switch statusCode {
	case http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "resource not found")
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.New(errors.ErrCodePermissionDenied, "permission denied")
	default:
		return errors.New(errors.ErrCodeHTTPClient, "http client error")
	}
}

// IsHTTPError checks if an error is an HTTP client error
func IsHTTPError(err error) (*Error, bool) {
	var httpErr *Error
	if goerrors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
