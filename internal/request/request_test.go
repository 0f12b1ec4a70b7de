package request

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lperrors "launchpad/internal/errors"
	"launchpad/internal/validation"
)

var pythonOnly = []string{".py"}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"app.py", "app.py"},
		{"../../etc/passwd.py", "passwd.py"},
		{`C:\Users\me\app.py`, "app.py"},
		{"my app.py", "my_app.py"},
		{".hidden.py", "hidden.py"},
		{"wéird$name.py", "wirdname.py"},
		{"..", ""},
		{"", ""},
		{"///", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestAllowedExtension(t *testing.T) {
	assert.True(t, AllowedExtension("app.py", pythonOnly))
	assert.True(t, AllowedExtension("APP.PY", pythonOnly))
	assert.False(t, AllowedExtension("app.js", pythonOnly))
	assert.False(t, AllowedExtension("app", pythonOnly))
	assert.False(t, AllowedExtension("app.py.txt", pythonOnly))
	assert.True(t, AllowedExtension("worker.py3", []string{".py", ".py3"}))
}

func TestBuild_Valid(t *testing.T) {
	req, err := Build(Form{Endpoint: "5001", ImageName: "demo"}, "app.py", []byte("print('hi')"), pythonOnly)
	require.NoError(t, err)

	assert.Equal(t, 5001, req.Endpoint)
	assert.Equal(t, "demo", req.ImageName)
	assert.Equal(t, "app.py", req.SourceFilename)
	assert.Equal(t, []byte("print('hi')"), req.Source)
}

func TestBuild_EmptySourceAccepted(t *testing.T) {
	req, err := Build(Form{Endpoint: "5001", ImageName: "demo"}, "app.py", nil, pythonOnly)
	require.NoError(t, err)
	assert.Empty(t, req.Source)
}

func TestBuild_SchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		form   Form
		fields []string
	}{
		{"non-integer endpoint", Form{Endpoint: "http", ImageName: "demo"}, []string{"endpoint"}},
		{"missing image name", Form{Endpoint: "5001"}, []string{"image_name"}},
		{"both missing", Form{}, []string{"endpoint", "image_name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.form, "app.py", nil, pythonOnly)
			require.Error(t, err)
			assert.True(t, errors.Is(err, lperrors.ErrValidation))

			var fieldErrs validation.Errors
			require.True(t, errors.As(err, &fieldErrs))

			var got []string
			for _, fe := range fieldErrs {
				got = append(got, fe.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestBuild_FileErrors(t *testing.T) {
	form := Form{Endpoint: "5001", ImageName: "demo"}

	_, err := Build(form, "", nil, pythonOnly)
	require.Error(t, err)
	assert.Equal(t, "No file selected", err.Error())
	assert.True(t, errors.Is(err, lperrors.ErrValidation))

	_, err = Build(form, "app.js", nil, pythonOnly)
	require.Error(t, err)
	assert.Equal(t, "File must be a Python (.py) file", err.Error())

	_, err = Build(form, "app.rb", nil, []string{".py", ".py3"})
	require.Error(t, err)
	assert.Equal(t, "File must have one of the extensions: .py, .py3", err.Error())
}

func TestMissingFile(t *testing.T) {
	err := MissingFile()
	assert.Equal(t, "Missing file", err.Error())
	assert.Equal(t, 400, lperrors.StatusCode(err))
}
