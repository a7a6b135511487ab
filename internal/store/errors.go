package store

import (
	"errors"
	"fmt"
)

// Failure taxonomy surfaced to callers. The store never retries on its own;
// every error carries the operation and scope so the caller can decide
// remediation.
var (
	ErrAlreadyExists   = errors.New("already exists")
	ErrSubjectNotFound = errors.New("subject not found")
	ErrModuleNotFound  = errors.New("module not found")
	ErrInvalidName     = errors.New("invalid name")
	ErrStorage         = errors.New("storage failure")
)

// OpError wraps a failure with the operation name ("init-subject",
// "init-module", "update-web-folio"), the scope it targeted, and the taxonomy
// sentinel it belongs to.
type OpError struct {
	Op    string
	Scope string
	Kind  error // one of the sentinels above
	Err   error // underlying cause; may be nil
}

func (e *OpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store: %s %s: %v: %v", e.Op, e.Scope, e.Kind, e.Err)
	}
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Scope, e.Kind)
}

func (e *OpError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func opErr(op, scope string, kind, err error) *OpError {
	return &OpError{Op: op, Scope: scope, Kind: kind, Err: err}
}
