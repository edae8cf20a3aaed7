package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents a failure detected by a store.
//
// Runtime errors include:
//   - Plugin failure: a pre- or post-plugin returned an error
//   - Repeated cold start: ColdStart called more than once
//   - Invalid action: nil action dispatched or produced by a validator
//   - Invalid store: construction with a nil reducer
//
// RuntimeError wraps the underlying cause (if any) for errors.Is/As.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// StoreID identifies the affected store.
	StoreID string

	// Kind is the kind of the action being dispatched, when there is one.
	Kind string

	// Err is the underlying cause.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodePluginFailed indicates a plugin returned an error; nothing was committed.
	ErrCodePluginFailed RuntimeErrorCode = "PLUGIN_FAILED"

	// ErrCodeColdStartRepeated indicates ColdStart was called more than once.
	ErrCodeColdStartRepeated RuntimeErrorCode = "COLD_START_REPEATED"

	// ErrCodeInvalidAction indicates a nil action entered the pipeline.
	ErrCodeInvalidAction RuntimeErrorCode = "INVALID_ACTION"

	// ErrCodeInvalidStore indicates a store could not be constructed.
	ErrCodeInvalidStore RuntimeErrorCode = "INVALID_STORE"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.StoreID != "" && e.Kind != "" {
		msg = fmt.Sprintf("%s (store=%s, kind=%s)", msg, e.StoreID, e.Kind)
	} else if e.StoreID != "" {
		msg = fmt.Sprintf("%s (store=%s)", msg, e.StoreID)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsPluginError returns true if err is (or wraps) a plugin failure.
func IsPluginError(err error) bool {
	return hasCode(err, ErrCodePluginFailed)
}

// IsColdStartRepeated returns true if err is (or wraps) a repeated cold start.
func IsColdStartRepeated(err error) bool {
	return hasCode(err, ErrCodeColdStartRepeated)
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}
