package apperr

import (
	"errors"
	"fmt"
)

// Error codes shared by every failure the pipelines can produce.
const (
	CodeHTTPNotOK            = "HTTP_NOT_OK"
	CodeHTTPFetchFailed      = "HTTP_FETCH_FAILED"
	CodeBadUpstreamShape     = "BAD_UPSTREAM_SHAPE"
	CodeNotEnoughData        = "NOT_ENOUGH_DATA"
	CodeNotEnoughYoY         = "NOT_ENOUGH_YOY"
	CodeNoPriorMonth         = "NO_PRIOR_MONTH"
	CodeMissingProxyOrAPIKey = "MISSING_PROXY_OR_API_KEY"
	CodeInternal             = "INTERNAL"
)

// AppError is the single error shape every pipeline failure normalizes to.
// Status carries the upstream HTTP status when one exists, 0 otherwise.
type AppError struct {
	Status  int            `json:"status"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New creates an AppError with the given status, code and message.
func New(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

// WithDetail attaches one key/value pair to the error's details.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// As unwraps err into an *AppError, reporting whether one was found.
func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	ae, ok := As(err)
	return ok && ae.Code == code
}

// From normalizes an arbitrary error into an AppError. Errors that already
// are AppErrors pass through unchanged.
func From(err error) *AppError {
	if ae, ok := As(err); ok {
		return ae
	}
	return New(0, CodeInternal, err.Error())
}
