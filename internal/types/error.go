package types

import (
	"errors"
	"fmt"
)

// CustomError is an error carrying the HTTP status and error type reported
// to clients.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// Kind classifies domain failures.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindValidation      Kind = "validation"
	KindAuth            Kind = "auth"
	KindPersistence     Kind = "persistence"
	KindExternalService Kind = "external_service"
)

// DomainError is returned by the store and services. Match it with
// errors.Is against the Err* sentinels.
type DomainError struct {
	Kind    Kind
	Message string
	Err     error
}

// Sentinels for errors.Is.
var (
	ErrNotFound        = &DomainError{Kind: KindNotFound}
	ErrValidation      = &DomainError{Kind: KindValidation}
	ErrAuth            = &DomainError{Kind: KindAuth}
	ErrPersistence     = &DomainError{Kind: KindPersistence}
	ErrExternalService = &DomainError{Kind: KindExternalService}
)

func (e *DomainError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError of the same kind.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Kind == e.Kind
}

// NotFound builds a not-found error.
func NotFound(format string, args ...interface{}) error {
	return &DomainError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation builds a validation failure.
func Validation(format string, args ...interface{}) error {
	return &DomainError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Auth builds an authentication failure. The message must stay generic.
func Auth(message string) error {
	return &DomainError{Kind: KindAuth, Message: message}
}

// Persistence wraps a storage failure.
func Persistence(message string, err error) error {
	return &DomainError{Kind: KindPersistence, Message: message, Err: err}
}

// ExternalService wraps a collaborator failure.
func ExternalService(message string, err error) error {
	return &DomainError{Kind: KindExternalService, Message: message, Err: err}
}

// KindOf returns the kind of a domain error, or "" for other errors.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
