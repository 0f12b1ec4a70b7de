// Package testutil provides test doubles shared across packages.
package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"launchpad/pkg/runtime"
)

// MockContainerRuntime is a mock implementation of the ContainerRuntime interface
type MockContainerRuntime struct {
	mock.Mock
}

func NewMockContainerRuntime() *MockContainerRuntime {
	return &MockContainerRuntime{}
}

func (m *MockContainerRuntime) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockContainerRuntime) BuildImage(ctx context.Context, opts runtime.BuildOptions) error {
	args := m.Called(ctx, opts)
	return args.Error(0)
}

func (m *MockContainerRuntime) RunContainer(ctx context.Context, opts runtime.RunOptions) (string, error) {
	args := m.Called(ctx, opts)
	return args.String(0), args.Error(1)
}

func (m *MockContainerRuntime) InspectPorts(ctx context.Context, containerID string) ([]runtime.PortMapping, error) {
	args := m.Called(ctx, containerID)
	mappings, _ := args.Get(0).([]runtime.PortMapping)
	return mappings, args.Error(1)
}

// Bound returns a single mapping of containerPort/tcp published on hostPort.
func Bound(containerPort, hostPort string) runtime.PortMapping {
	return runtime.PortMapping{
		ContainerPort: containerPort + "/tcp",
		Bindings:      []runtime.PortBinding{{HostIP: "0.0.0.0", HostPort: hostPort}},
	}
}
