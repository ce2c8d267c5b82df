package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable machine-readable codes returned in error bodies.
const (
	CodeNotFound             = "not_found"
	CodeValidation           = "validation_error"
	CodeDuplicateEmail       = "duplicate_email"
	CodeUnauthenticated      = "unauthenticated"
	CodeGuardianInfoRequired = "guardian_info_required"
	CodeAlreadySignedIn      = "already_signed_in"
	CodeAlreadySignedOut     = "already_signed_out"
	CodeBadgeInUse           = "badge_in_use"
	CodeMealLimitExceeded    = "meal_limit_exceeded"
	CodeMalformedCallback    = "malformed_callback"
	CodeCouldNotVerify       = "could_not_verify"
	CodeConflict             = "conflict"
	CodeInternal             = "internal"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by code so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || t == nil || e == nil {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func newf(status int, code, format string, args ...any) *Error {
	return New(status, code, fmt.Errorf(format, args...))
}

func NotFound(format string, args ...any) *Error {
	return newf(http.StatusBadRequest, CodeNotFound, format, args...)
}

func Validation(format string, args ...any) *Error {
	return newf(http.StatusBadRequest, CodeValidation, format, args...)
}

func DuplicateEmail() *Error {
	return newf(http.StatusBadRequest, CodeDuplicateEmail, "Email already in use")
}

func Unauthenticated(format string, args ...any) *Error {
	return newf(http.StatusUnauthorized, CodeUnauthenticated, format, args...)
}

func GuardianInfoRequired() *Error {
	return newf(http.StatusBadRequest, CodeGuardianInfoRequired, "Minors must provide guardian information")
}

func AlreadySignedIn() *Error {
	return newf(http.StatusBadRequest, CodeAlreadySignedIn, "User already signed in")
}

func AlreadySignedOut() *Error {
	return newf(http.StatusBadRequest, CodeAlreadySignedOut, "User already signed out")
}

func BadgeInUse() *Error {
	return newf(http.StatusBadRequest, CodeBadgeInUse, "Badge already in use")
}

func MealLimitExceeded(slot int) *Error {
	return newf(http.StatusBadRequest, CodeMealLimitExceeded, "Meal %d already redeemed the maximum number of times", slot)
}

func MalformedCallback(format string, args ...any) *Error {
	return newf(http.StatusBadRequest, CodeMalformedCallback, format, args...)
}

func CouldNotVerify() *Error {
	return newf(http.StatusUnprocessableEntity, CodeCouldNotVerify, "Could not verify")
}

func Conflict(format string, args ...any) *Error {
	return newf(http.StatusConflict, CodeConflict, format, args...)
}

// HasCode reports whether err carries an *Error with the given code.
func HasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
