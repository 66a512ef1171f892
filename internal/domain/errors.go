package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid input")
	ErrConflict = errors.New("conflict")
)

type ErrorKind string

const (
	KindValidation        ErrorKind = "validation_error"
	KindUpstreamRejected  ErrorKind = "upstream_rejected"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindNetworkFailure    ErrorKind = "network_failure"
)

// AdapterError is returned by the PMS adapters and transport.
type AdapterError struct {
	Kind    ErrorKind
	Op      string // RoomInfo, Inventory, RoomAvailability
	Code    string
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("pms %s: %s %s: %s", e.Op, e.Kind, e.Code, msg)
	}
	return fmt.Sprintf("pms %s: %s: %s", e.Op, e.Kind, msg)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// Is matches another *AdapterError by kind, so errors.Is(err, &AdapterError{Kind: k}) works.
func (e *AdapterError) Is(target error) bool {
	t, ok := target.(*AdapterError)
	return ok && t.Kind == e.Kind && t.Op == "" && t.Code == ""
}

// KindOf returns the adapter error kind of err, or "" when err is not one.
func KindOf(err error) ErrorKind {
	var ae *AdapterError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// Invalid wraps ErrInvalid with a reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
