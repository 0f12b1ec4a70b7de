package builder

import (
	"context"
	"errors"
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

func TestImageBuilder_Build(t *testing.T) {
	dir := t.TempDir()
	staged := &workload.StagedWorkload{Dir: dir}

	tests := []struct {
		name          string
		staged        *workload.StagedWorkload
		setupMock     func(*testutil.MockContainerRuntime)
		expectError   bool
		errorContains string
	}{
		{
			name:   "successful build",
			staged: staged,
			setupMock: func(m *testutil.MockContainerRuntime) {
				m.On("BuildImage", mock.Anything, runtime.BuildOptions{
					ContextDir: dir,
					Dockerfile: "Dockerfile",
					Tag:        "demo",
				}).Return(nil)
			},
		},
		{
			name:   "engine failure is passed through",
			staged: staged,
			setupMock: func(m *testutil.MockContainerRuntime) {
				m.On("BuildImage", mock.Anything, mock.Anything).
					Return(errors.New("COPY failed: stat requirements.txt: file does not exist"))
			},
			expectError:   true,
			errorContains: "COPY failed: stat requirements.txt: file does not exist",
		},
		{
			name:          "missing build context",
			staged:        &workload.StagedWorkload{Dir: dir + "/gone"},
			setupMock:     func(m *testutil.MockContainerRuntime) {},
			expectError:   true,
			errorContains: "build context",
		},
		{
			name:          "nil staged workload",
			staged:        nil,
			setupMock:     func(m *testutil.MockContainerRuntime) {},
			expectError:   true,
			errorContains: "no staged workload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRuntime := testutil.NewMockContainerRuntime()
			tt.setupMock(mockRuntime)

			b := NewImageBuilder(mockRuntime, time.Minute)
			ref, err := b.Build(context.Background(), tt.staged, "demo")

			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, lperrors.ErrBuild), "expected build error, got %v", err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "demo", ref)
			}

			mockRuntime.AssertExpectations(t)
		})
	}
}

func TestImageBuilder_Timeout(t *testing.T) {
	mockRuntime := testutil.NewMockContainerRuntime()
	mockRuntime.On("BuildImage", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(context.DeadlineExceeded)

	b := NewImageBuilder(mockRuntime, 20*time.Millisecond)
	_, err := b.Build(context.Background(), &workload.StagedWorkload{Dir: t.TempDir()}, "demo")

	require.Error(t, err)
	assert.True(t, errors.Is(err, lperrors.ErrBuild))
	assert.Contains(t, err.Error(), "image build timed out after 20ms")
}
