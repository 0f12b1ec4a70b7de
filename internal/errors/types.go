package errors

import (
	"errors"
	"net/http"
)

var (
	ErrValidation = errors.New("request validation failed")
	ErrStaging    = errors.New("staging failed")
	ErrBuild      = errors.New("image build failed")
	ErrLaunch     = errors.New("container launch failed")
	ErrResolve    = errors.New("endpoint resolution failed")
	ErrConfig     = errors.New("configuration invalid")
	ErrRuntime    = errors.New("container runtime unavailable")
)

// LaunchpadError carries the failing stage's classification alongside the underlying error.
// Error() returns the underlying message verbatim so engine and filesystem causes reach the caller unchanged.
type LaunchpadError struct {
	Type        error
	Context     string
	Cause       string
	Suggestion  string
	OriginalErr error
}

func (e *LaunchpadError) Error() string {
	return e.OriginalErr.Error()
}

func (e *LaunchpadError) Unwrap() error {
	return e.OriginalErr
}

// Is reports a match against the error's classification sentinel.
func (e *LaunchpadError) Is(target error) bool {
	return e.Type == target
}

func NewLaunchpadError(errorType error, context, cause, suggestion string, originalErr error) *LaunchpadError {
	if originalErr == nil {
		originalErr = errorType
	}
	return &LaunchpadError{
		Type:        errorType,
		Context:     context,
		Cause:       cause,
		Suggestion:  suggestion,
		OriginalErr: originalErr,
	}
}

func NewValidationError(context, cause, suggestion string, originalErr error) *LaunchpadError {
	return NewLaunchpadError(ErrValidation, context, cause, suggestion, originalErr)
}

func NewStagingError(context, cause, suggestion string, originalErr error) *LaunchpadError {
	return NewLaunchpadError(ErrStaging, context, cause, suggestion, originalErr)
}

func NewBuildError(context, cause, suggestion string, originalErr error) *LaunchpadError {
	return NewLaunchpadError(ErrBuild, context, cause, suggestion, originalErr)
}

func NewLaunchError(context, cause, suggestion string, originalErr error) *LaunchpadError {
	return NewLaunchpadError(ErrLaunch, context, cause, suggestion, originalErr)
}

func NewResolveError(context, cause, suggestion string, originalErr error) *LaunchpadError {
	return NewLaunchpadError(ErrResolve, context, cause, suggestion, originalErr)
}

func NewConfigError(context, cause, suggestion string, originalErr error) *LaunchpadError {
	return NewLaunchpadError(ErrConfig, context, cause, suggestion, originalErr)
}

func NewRuntimeError(context, cause, suggestion string, originalErr error) *LaunchpadError {
	return NewLaunchpadError(ErrRuntime, context, cause, suggestion, originalErr)
}

// StatusCode maps an error to the HTTP status reported to callers.
// Validation failures are client faults; every other failure is a server fault.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
