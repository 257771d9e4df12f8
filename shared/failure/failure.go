package failure

import (
	"errors"
	"net/http"
)

// Category classifies a failure independently of its HTTP status.
type Category string

const (
	CategoryValidation             Category = "validation"
	CategoryConflict               Category = "conflict"
	CategoryNotFoundOrUnauthorized Category = "not_found_or_unauthorized"
	CategoryPermissionDenied       Category = "permission_denied"
	CategoryUpstream               Category = "upstream"
	CategoryUnauthorized           Category = "unauthorized"
	CategoryNotFound               Category = "not_found"
	CategoryInternal               Category = "internal"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code           int      `json:"code"`
	Category       Category `json:"category"`
	Message        string   `json:"message"`
	Details        string   `json:"details,omitempty"`
	UpstreamCode   any      `json:"upstream_code,omitempty"`
	AvailableSlots string   `json:"available_slots,omitempty"`
}

// Error returns the error message.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:     http.StatusBadRequest,
			Category: CategoryValidation,
			Message:  err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:     http.StatusBadRequest,
		Category: CategoryValidation,
		Message:  msg,
	}
}

// Validation returns a bad request with a user-facing message and the rule that failed.
func Validation(message, details string) error {
	return &Failure{
		Code:     http.StatusBadRequest,
		Category: CategoryValidation,
		Message:  message,
		Details:  details,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:     http.StatusUnauthorized,
		Category: CategoryUnauthorized,
		Message:  msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:     http.StatusInternalServerError,
			Category: CategoryInternal,
			Message:  err.Error(),
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(msg string) error {
	return &Failure{
		Code:     http.StatusNotFound,
		Category: CategoryNotFound,
		Message:  msg,
	}
}

// Conflict returns a new Failure for a slot that is already taken.
func Conflict(message, details, availableSlots string) error {
	return &Failure{
		Code:           http.StatusConflict,
		Category:       CategoryConflict,
		Message:        message,
		Details:        details,
		AvailableSlots: availableSlots,
	}
}

// CalendarNotFound is returned when the target calendar does not exist or is not shared
// with the service account.
func CalendarNotFound(message, details string, code any) error {
	return &Failure{
		Code:         http.StatusInternalServerError,
		Category:     CategoryNotFoundOrUnauthorized,
		Message:      message,
		Details:      details,
		UpstreamCode: code,
	}
}

// PermissionDenied is returned when the service account may not write to the calendar.
func PermissionDenied(message, details string, code any) error {
	return &Failure{
		Code:         http.StatusInternalServerError,
		Category:     CategoryPermissionDenied,
		Message:      message,
		Details:      details,
		UpstreamCode: code,
	}
}

// Upstream wraps any other calendar backend error.
func Upstream(message, details string, code any) error {
	return &Failure{
		Code:         http.StatusInternalServerError,
		Category:     CategoryUpstream,
		Message:      message,
		Details:      details,
		UpstreamCode: code,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetCategory returns the failure category, or CategoryInternal for plain errors.
func GetCategory(err error) Category {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Category
	}

	return CategoryInternal
}

// As extracts the Failure from an error chain.
func As(err error) (*Failure, bool) {
	var fail *Failure
	ok := errors.As(err, &fail)

	return fail, ok
}
