package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunState_ForwardOnly(t *testing.T) {
	state := newRunState(demoRequest())
	assert.Equal(t, PhaseValidating, state.Phase)
	assert.NotEmpty(t, state.RunID)

	require.NoError(t, state.enter(PhaseValidating))
	state.succeed()
	require.NoError(t, state.enter(PhaseStaging))
	state.succeed()
	require.NoError(t, state.enter(PhaseBuilding))

	err := state.enter(PhaseStaging)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot move from building back to staging")
	assert.Equal(t, PhaseStaging, state.LastSuccessfulPhase)
}

func TestRunState_TerminalPhases(t *testing.T) {
	t.Run("failed", func(t *testing.T) {
		state := newRunState(demoRequest())
		require.NoError(t, state.enter(PhaseBuilding))
		state.fail(errors.New("boom"))

		assert.Equal(t, PhaseFailed, state.Phase)
		assert.False(t, state.FinishedAt.IsZero())
		assert.Error(t, state.enter(PhaseLaunching))
	})

	t.Run("done", func(t *testing.T) {
		state := newRunState(demoRequest())
		state.finish()

		assert.Equal(t, PhaseDone, state.Phase)
		assert.Error(t, state.enter(PhaseResolving))
	})
}

func TestRunState_RunIDsAreUnique(t *testing.T) {
	a := newRunState(demoRequest())
	b := newRunState(demoRequest())
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestRunState_LogValue(t *testing.T) {
	state := newRunState(demoRequest())
	state.succeed()
	state.finish()

	attrs := map[string]string{}
	for _, a := range state.LogValue().Group() {
		attrs[a.Key] = a.Value.String()
	}

	assert.Equal(t, state.RunID, attrs["runId"])
	assert.Equal(t, "done", attrs["phase"])
	assert.Equal(t, "demo", attrs["image"])
	assert.Equal(t, "5001", attrs["endpoint"])
	assert.Contains(t, attrs, "elapsed")
}
