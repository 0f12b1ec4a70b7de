package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/config"
	"launchpad/internal/testutil"
)

func TestNewFromConfig(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Staging.Root = t.TempDir()
	cfg.Staging.Keep = true

	orch := NewFromConfig(cfg, testutil.NewMockContainerRuntime())

	require.NotNil(t, orch)
	assert.True(t, orch.keepStaging)
	assert.Len(t, orch.stages, 5)
}

func TestNewStager_RendersConfiguredBaseImage(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Workload.BaseImage = "python:3.12-slim"

	manifest, err := NewStager(cfg).Render("app.py", 5001)

	require.NoError(t, err)
	assert.Contains(t, manifest.Text, "FROM python:3.12-slim")
}
