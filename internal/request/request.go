// Package request validates untrusted build-and-run input before any side effect runs.
package request

import (
	"path/filepath"
	"regexp"
	"strings"

	lperrors "launchpad/internal/errors"
	"launchpad/internal/validation"
	"launchpad/pkg/workload"
)

// Form is the typed schema of the multipart form fields.
type Form struct {
	Endpoint  string `form:"endpoint" validate:"required,port"`
	ImageName string `form:"image_name" validate:"required,imageref"`
}

// Validate checks the form and returns validation.Errors wrapped as a validation failure.
func (f *Form) Validate() error {
	f.Endpoint = strings.TrimSpace(f.Endpoint)
	f.ImageName = strings.TrimSpace(f.ImageName)
	if err := validation.Struct(f); err != nil {
		return lperrors.NewValidationError("Invalid request", "", "", err)
	}
	return nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Sanitize reduces an uploaded filename to a safe single path component.
// It returns "" when nothing usable remains.
func Sanitize(filename string) string {
	filename = strings.ReplaceAll(filename, `\`, "/")
	filename = filepath.Base(filename)
	filename = strings.Join(strings.Fields(filename), "_")
	filename = unsafeChars.ReplaceAllString(filename, "")
	filename = strings.Trim(filename, "._")
	if filename == "" || filename == "." || filename == ".." {
		return ""
	}
	return filename
}

// AllowedExtension reports whether filename ends in one of the allowed extensions.
func AllowedExtension(filename string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return true
		}
	}
	return false
}

// Build validates the form and upload and assembles the RunRequest.
// Failures are validation errors carrying the message reported to the caller.
func Build(form Form, filename string, source []byte, allowed []string) (workload.RunRequest, error) {
	if err := form.Validate(); err != nil {
		return workload.RunRequest{}, err
	}
	if filename == "" {
		return workload.RunRequest{}, NoFileSelected()
	}
	if !AllowedExtension(filename, allowed) {
		return workload.RunRequest{}, DisallowedExtension(allowed)
	}

	safe := Sanitize(filename)
	if safe == "" || !AllowedExtension(safe, allowed) {
		return workload.RunRequest{}, DisallowedExtension(allowed)
	}

	// Form.Validate has already range-checked the port.
	endpoint, _ := validation.ParsePort(form.Endpoint)

	return workload.RunRequest{
		Endpoint:       endpoint,
		ImageName:      form.ImageName,
		SourceFilename: safe,
		Source:         source,
	}, nil
}
