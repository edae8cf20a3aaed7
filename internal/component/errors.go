package component

import (
	"errors"
	"fmt"
)

// InitErrorCode categorizes initialisation failures.
type InitErrorCode string

const (
	// ErrCodeMissingInitData indicates a model name has no init-data entry.
	ErrCodeMissingInitData InitErrorCode = "MISSING_INIT_DATA"

	// ErrCodeInvalidInitData indicates the entry could not be decoded or the
	// model's store could not be built from it.
	ErrCodeInvalidInitData InitErrorCode = "INVALID_INIT_DATA"

	// ErrCodeViewFailed indicates a view could not be mounted.
	ErrCodeViewFailed InitErrorCode = "VIEW_FAILED"

	// ErrCodeAlreadyInitialized indicates Init was called twice on one model.
	ErrCodeAlreadyInitialized InitErrorCode = "ALREADY_INITIALIZED"
)

// InitError is returned when a component tree cannot be initialised.
type InitError struct {
	Code  InitErrorCode
	Model string
	Err   error
}

func (e *InitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: model %q: %v", e.Code, e.Model, e.Err)
	}
	return fmt.Sprintf("%s: model %q", e.Code, e.Model)
}

// Unwrap returns the underlying cause.
func (e *InitError) Unwrap() error {
	return e.Err
}

// IsMissingInitData returns true if err is (or wraps) a missing init-data
// failure.
func IsMissingInitData(err error) bool {
	var ie *InitError
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeMissingInitData
	}
	return false
}

// ErrNotInitialized is returned by model operations called before Init.
var ErrNotInitialized = errors.New("model not initialized")

// ErrPropsCollision is reported when MapState and MapDispatch produce the
// same key.
var ErrPropsCollision = errors.New("props key collision")
