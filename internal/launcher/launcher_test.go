package launcher

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	lperrors "launchpad/internal/errors"
	"launchpad/internal/testutil"
	"launchpad/pkg/runtime"
	"launchpad/pkg/workload"
)

func TestContainerLauncher_Launch(t *testing.T) {
	mockRuntime := testutil.NewMockContainerRuntime()
	mockRuntime.On("RunContainer", mock.Anything, runtime.RunOptions{
		Image: "demo",
		Name:  "demo-con",
		Ports: map[int]int{5001: 5001},
	}).Return("4f1c2a9e7b3d5f60", nil)

	l := NewContainerLauncher(mockRuntime, time.Minute)
	handle, err := l.Launch(context.Background(), "demo", 5001)

	require.NoError(t, err)
	assert.Equal(t, workload.ContainerHandle{ID: "4f1c2a9e7b3d5f60", Name: "demo-con"}, handle)
	mockRuntime.AssertExpectations(t)
}

func TestContainerLauncher_Failures(t *testing.T) {
	engineConflict := errors.New(`Conflict. The container name "/demo-con" is already in use by container "abc"`)

	tests := []struct {
		name           string
		runErr         error
		wantContext    string
		wantSuggestion bool
		wantMessage    string
	}{
		{
			name:           "name conflict",
			runErr:         fmt.Errorf("%w: %w", runtime.ErrNameConflict, engineConflict),
			wantContext:    "Container name conflict",
			wantSuggestion: true,
			wantMessage:    engineConflict.Error(),
		},
		{
			name:        "missing image",
			runErr:      fmt.Errorf("%w: No such image: demo:latest", runtime.ErrImageNotFound),
			wantContext: "Image not found",
			wantMessage: "No such image: demo:latest",
		},
		{
			name:        "port already allocated",
			runErr:      errors.New("failed to start container: Bind for 0.0.0.0:5001 failed: port is already allocated"),
			wantContext: "Container launch failed",
			wantMessage: "port is already allocated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRuntime := testutil.NewMockContainerRuntime()
			mockRuntime.On("RunContainer", mock.Anything, mock.Anything).Return("", tt.runErr).Once()

			l := NewContainerLauncher(mockRuntime, time.Minute)
			_, err := l.Launch(context.Background(), "demo", 5001)

			require.Error(t, err)
			assert.True(t, errors.Is(err, lperrors.ErrLaunch))
			assert.Contains(t, err.Error(), tt.wantMessage)

			var lpErr *lperrors.LaunchpadError
			require.True(t, errors.As(err, &lpErr))
			assert.Equal(t, tt.wantContext, lpErr.Context)
			assert.Equal(t, tt.wantSuggestion, lpErr.Suggestion != "")

			// No retry is attempted.
			mockRuntime.AssertNumberOfCalls(t, "RunContainer", 1)
		})
	}
}
