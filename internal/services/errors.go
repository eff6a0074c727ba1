package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrDuplicateProfile   = errors.New("doctor profile already exists for this user")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("not authorized to perform this action")
	ErrInvalidState       = errors.New("invalid appointment state")
	ErrConsistency        = errors.New("record failed consistency check")

	ErrNotFound              = errors.New("not found")
	ErrUserNotFound          = wrapNotFound("user not found")
	ErrDoctorNotFound        = wrapNotFound("doctor not found")
	ErrDoctorProfileNotFound = wrapNotFound("doctor profile not found")
	ErrAppointmentNotFound   = wrapNotFound("appointment not found")
)

type notFoundError struct{ msg string }

func (e *notFoundError) Error() string        { return e.msg }
func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

func wrapNotFound(msg string) error { return &notFoundError{msg: msg} }

// ValidationError reports input that is missing or malformed. Fields maps a
// field name to its problem and may be empty.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Message: msg, Fields: map[string]string{field: msg}}
}
