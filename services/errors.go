package services

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type ErrorKind string

const (
	ApplicationError  ErrorKind = "application"
	SettingsError     ErrorKind = "settings"
	StartupError      ErrorKind = "startup"
	DatabaseError     ErrorKind = "database"
	NotSupportedError ErrorKind = "not_supported"
	NotFoundError     ErrorKind = "not_found"
	ConflictError     ErrorKind = "conflict"
	ForbiddenError    ErrorKind = "forbidden"
)

// Error is the base application error. It knows how it should be logged
// and which HTTP status it maps to.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int
	Level   log.Level
	cause   error
}

func (s *Error) Error() string {
	if s.cause != nil {
		return fmt.Sprintf("%s: %s", s.Message, s.cause)
	}
	return s.Message
}

func (s *Error) Unwrap() error {
	return s.cause
}

func (s *Error) Cause() error {
	return s.cause
}

func newError(kind ErrorKind, status int, level log.Level, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Status:  status,
		Level:   level,
		cause:   cause,
	}
}

func NewApplicationError(format string, args ...any) *Error {
	return newError(ApplicationError, http.StatusInternalServerError, log.ErrorLevel, nil, format, args...)
}

func NewSettingsError(cause error, format string, args ...any) *Error {
	return newError(SettingsError, http.StatusInternalServerError, log.ErrorLevel, cause, format, args...)
}

func NewStartupError(cause error, format string, args ...any) *Error {
	return newError(StartupError, http.StatusInternalServerError, log.ErrorLevel, cause, format, args...)
}

func NewDatabaseError(cause error, format string, args ...any) *Error {
	return newError(DatabaseError, http.StatusInternalServerError, log.ErrorLevel, cause, format, args...)
}

func NewNotSupportedError(format string, args ...any) *Error {
	return newError(NotSupportedError, http.StatusNotImplemented, log.WarnLevel, nil, format, args...)
}

func NewNotFoundError(format string, args ...any) *Error {
	return newError(NotFoundError, http.StatusNotFound, log.InfoLevel, nil, format, args...)
}

func NewConflictError(format string, args ...any) *Error {
	return newError(ConflictError, http.StatusConflict, log.WarnLevel, nil, format, args...)
}

func NewForbiddenError(format string, args ...any) *Error {
	return newError(ForbiddenError, http.StatusForbidden, log.WarnLevel, nil, format, args...)
}

// AsError finds an application error in the chain. Anything else is reported
// as a generic application error with status 500.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return newError(ApplicationError, http.StatusInternalServerError, log.ErrorLevel, err, "application error")
}

func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
