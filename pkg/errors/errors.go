// Package errors provides structured error handling for the data controller.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindInvalidUpdate indicates a change-set inconsistent with the data source counts.
	KindInvalidUpdate
	// KindMissingContent indicates a node block that produced no node.
	KindMissingContent
	// KindProviderUnavailable indicates the data source went away mid-transaction.
	KindProviderUnavailable
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConfig indicates a configuration error.
	KindConfig
	// KindClosed indicates a submission to a controller that has been closed.
	KindClosed
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidUpdate:
		return "invalid_update"
	case KindMissingContent:
		return "missing_content"
	case KindProviderUnavailable:
		return "provider_unavailable"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	case KindClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Soft reports whether errors of kind k are expected outcomes rather than
// bugs: a node block that produced nothing, a detached data source, or a
// submission after Close. Soft errors are logged quietly and carry no stack
// trace.
func (k ErrorKind) Soft() bool {
	switch k {
	case KindMissingContent, KindProviderUnavailable, KindClosed:
		return true
	default:
		return false
	}
}

var (
	// ErrProviderUnavailable is reported when the data source is detached
	// while a transaction still needs it. It is a soft cancellation.
	ErrProviderUnavailable = stderrors.New("data source unavailable")
	// ErrClosed is returned by submissions to a closed controller.
	ErrClosed = stderrors.New("controller closed")
)

// ControllerError represents a structured error raised by the data controller.
type ControllerError struct {
	// Op is the operation that failed (e.g., "datacontroller.Submit").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Transaction is the id of the transaction, if applicable.
	Transaction string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ControllerError) Error() string {
	if e.Transaction != "" {
		return fmt.Sprintf("%s [%s] txn=%s: %v", e.Op, e.Kind, e.Transaction, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ControllerError) Unwrap() error {
	return e.Err
}

// InvalidUpdateError is returned when a change-set's deltas do not add up to
// the counts the data source reports.
type InvalidUpdateError struct {
	// Reason describes the inconsistency.
	Reason string
	// Responsible names the data source implementation, if known.
	Responsible string
}

func (e *InvalidUpdateError) Error() string {
	if e.Responsible != "" {
		return fmt.Sprintf("invalid update: %s (data source: %s)", e.Reason, e.Responsible)
	}
	return "invalid update: " + e.Reason
}

// Invalidf builds an InvalidUpdateError from a format string.
func Invalidf(format string, args ...any) *InvalidUpdateError {
	return &InvalidUpdateError{Reason: fmt.Sprintf(format, args...)}
}

// IsInvalidUpdate reports whether err is or wraps an InvalidUpdateError.
func IsInvalidUpdate(err error) bool {
	var target *InvalidUpdateError
	return stderrors.As(err, &target)
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "datacontroller.layout").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the data controller.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *ControllerError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
