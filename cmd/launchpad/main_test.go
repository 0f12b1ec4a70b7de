package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/config"
	lperrors "launchpad/internal/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeWorkload(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("from flask import Flask\n"), 0644))
	return path
}

func TestRunCmd_DryRun(t *testing.T) {
	file := writeWorkload(t, "app.py")

	out, err := execute(t, "run", "--file", file, "--endpoint", "5001", "--image", "demo", "--dry-run")

	require.NoError(t, err)
	assert.Contains(t, out, `run container "demo-con"`)
	assert.Contains(t, out, "FROM python:3.9-slim-buster")
	assert.Contains(t, out, "EXPOSE 5001")
	assert.Contains(t, out, "ENV FLASK_APP=app.py")
}

func TestRunCmd_DryRunUsesConfigFile(t *testing.T) {
	file := writeWorkload(t, "app.py")
	cfgPath := filepath.Join(t.TempDir(), "launchpad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("workload:\n  base_image: python:3.12-slim\nlog:\n  level: error\n"), 0644))

	out, err := execute(t, "--config", cfgPath, "run", "-f", file, "-p", "8080", "-i", "demo", "--dry-run")

	require.NoError(t, err)
	assert.Contains(t, out, "FROM python:3.12-slim")
}

func TestRunCmd_Errors(t *testing.T) {
	pyFile := writeWorkload(t, "app.py")
	txtFile := writeWorkload(t, "notes.txt")

	tests := []struct {
		name        string
		args        []string
		errContains string
		errType     error
	}{
		{
			name:        "missing required flags",
			args:        []string{"run", "--dry-run"},
			errContains: "required flag(s)",
		},
		{
			name:        "wrong extension",
			args:        []string{"run", "-f", txtFile, "-p", "5001", "-i", "demo", "--dry-run"},
			errContains: "File must be a Python (.py) file",
			errType:     lperrors.ErrValidation,
		},
		{
			name:        "port out of range",
			args:        []string{"run", "-f", pyFile, "-p", "70000", "-i", "demo", "--dry-run"},
			errContains: "endpoint",
			errType:     lperrors.ErrValidation,
		},
		{
			name:        "missing file",
			args:        []string{"run", "-f", filepath.Join(t.TempDir(), "absent.py"), "-p", "5001", "-i", "demo", "--dry-run"},
			errContains: "no such file",
			errType:     lperrors.ErrValidation,
		},
		{
			name:        "missing config file",
			args:        []string{"--config", "/nonexistent/launchpad.yaml", "run", "-f", pyFile, "-p", "5001", "-i", "demo", "--dry-run"},
			errContains: "config file not found",
			errType:     lperrors.ErrConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
			if tt.errType != nil {
				assert.True(t, errors.Is(err, tt.errType), "expected %v, got %v", tt.errType, err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LogConfig
		debugOn  bool
		wantJSON bool
	}{
		{"json info", config.LogConfig{Level: "info", Format: "json"}, false, true},
		{"text debug", config.LogConfig{Level: "debug", Format: "text"}, true, false},
		{"error only", config.LogConfig{Level: "error", Format: "json"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(tt.cfg, &buf)

			assert.Equal(t, tt.debugOn, logger.Enabled(context.Background(), slog.LevelDebug))

			logger.Error("boom", "k", "v")
			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"msg":"boom"`)
			} else {
				assert.Contains(t, buf.String(), "msg=boom")
			}
		})
	}
}
