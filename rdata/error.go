// Copyright © 2024 The ELPS authors

package rdata

import (
	"errors"
	"fmt"
)

// Condition classifies an Error.
type Condition string

// Error conditions signaled by the vector model and the operations built on
// it.  NA is never an error; it is an ordinary element value.
const (
	// CondIndex is an element access outside [0, length).  Inside the core
	// this is always a contract violation and is raised by panicking.
	CondIndex Condition = "index-error"
	// CondTypeMismatch is an operation applied to an element kind it is not
	// defined on.  It is returned to the caller as an error.
	CondTypeMismatch Condition = "type-mismatch"
	// CondFatalInternal is a violated sharing-state contract.  It indicates
	// a bug upstream of the failing call and is raised by panicking.
	CondFatalInternal Condition = "fatal-internal-error"
)

// Error is the error type of the vector runtime.  The condition is the
// programmatic classification; Op names the operation that failed.
type Error struct {
	Cond Condition
	Op   string
	Msg  string
}

var _ error = (*Error)(nil)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Cond, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Cond, e.Op, e.Msg)
}

// Is matches errors of the same condition so that callers may write
// errors.Is(err, rdata.ErrTypeMismatch).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Op == "" && t.Msg == "" && t.Cond == e.Cond
}

// Sentinels for use with errors.Is.
var (
	ErrIndex         = &Error{Cond: CondIndex}
	ErrTypeMismatch  = &Error{Cond: CondTypeMismatch}
	ErrFatalInternal = &Error{Cond: CondFatalInternal}
)

// TypeMismatch returns a CondTypeMismatch error.
func TypeMismatch(op string, format string, v ...interface{}) *Error {
	return &Error{Cond: CondTypeMismatch, Op: op, Msg: fmt.Sprintf(format, v...)}
}

// IsContractViolation returns true if err is a condition raised by panic.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrIndex) || errors.Is(err, ErrFatalInternal)
}

func indexPanic(i, n int) {
	panic(&Error{
		Cond: CondIndex,
		Msg:  fmt.Sprintf("index %d out of range [0, %d)", i, n),
	})
}

func fatalf(op string, format string, v ...interface{}) {
	panic(&Error{Cond: CondFatalInternal, Op: op, Msg: fmt.Sprintf(format, v...)})
}

func checkIndex(i, n int) {
	if i < 0 || i >= n {
		indexPanic(i, n)
	}
}
