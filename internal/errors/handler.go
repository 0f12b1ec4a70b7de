package errors

import (
	"context"
	"errors"
	"log/slog"

	"launchpad/internal/ui"
)

type ErrorHandler struct {
	logger  *slog.Logger
	console *ui.Console
}

// NewErrorHandler builds a handler; nil arguments fall back to slog.Default and a stderr console.
func NewErrorHandler(logger *slog.Logger, console *ui.Console) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if console == nil {
		console = ui.NewConsole()
	}
	return &ErrorHandler{
		logger:  logger,
		console: console,
	}
}

func (h *ErrorHandler) Handle(err error) {
	if err == nil {
		return
	}

	var lpErr *LaunchpadError
	if errors.As(err, &lpErr) {
		h.handleLaunchpadError(lpErr)
	} else {
		h.handleGenericError(err)
	}
}

func (h *ErrorHandler) handleLaunchpadError(err *LaunchpadError) {
	h.logStructuredError(err)

	cause := err.Cause
	if cause == "" {
		cause = err.OriginalErr.Error()
	}
	message := h.console.FormatErrorMessage(err.Context, cause, err.Suggestion)
	h.console.PrintError(message)
}

func (h *ErrorHandler) handleGenericError(err error) {
	h.logger.Error("Unhandled error occurred",
		"error", err.Error(),
		"type", "generic",
	)

	h.console.PrintError(err.Error())
}

func (h *ErrorHandler) logStructuredError(err *LaunchpadError) {
	logAttrs := []slog.Attr{
		slog.String("error", err.OriginalErr.Error()),
		slog.String("type", TypeName(err.Type)),
		slog.String("context", err.Context),
	}

	if err.Cause != "" {
		logAttrs = append(logAttrs, slog.String("cause", err.Cause))
	}

	if err.Suggestion != "" {
		logAttrs = append(logAttrs, slog.String("suggestion", err.Suggestion))
	}

	h.logger.LogAttrs(context.TODO(), slog.LevelError, "Launchpad error occurred", logAttrs...)
}

// TypeName returns the stable identifier used in logs for an error classification.
func TypeName(errType error) string {
	switch errType {
	case ErrValidation:
		return "validation_failed"
	case ErrStaging:
		return "staging_failed"
	case ErrBuild:
		return "build_failed"
	case ErrLaunch:
		return "launch_failed"
	case ErrResolve:
		return "resolve_failed"
	case ErrConfig:
		return "config_invalid"
	case ErrRuntime:
		return "runtime_unavailable"
	default:
		return "unknown"
	}
}
