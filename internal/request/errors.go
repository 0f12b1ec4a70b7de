package request

import (
	"errors"
	"fmt"
	"strings"

	lperrors "launchpad/internal/errors"
)

var (
	errMissingFile    = errors.New("Missing file")
	errNoFileSelected = errors.New("No file selected")
)

// MissingFile reports a request without a file part.
func MissingFile() error {
	return lperrors.NewValidationError("Missing file", "", "", errMissingFile)
}

// NoFileSelected reports a file part with an empty filename.
func NoFileSelected() error {
	return lperrors.NewValidationError("No file selected", "", "", errNoFileSelected)
}

// DisallowedExtension reports an upload whose extension is not accepted.
func DisallowedExtension(allowed []string) error {
	msg := "File must be a Python (.py) file"
	if len(allowed) != 1 || strings.ToLower(allowed[0]) != ".py" {
		msg = fmt.Sprintf("File must have one of the extensions: %s", strings.Join(allowed, ", "))
	}
	return lperrors.NewValidationError("Disallowed file extension", "", "", errors.New(msg))
}
