package runtime

import (
	"context"
)

// BuildOptions defines the parameters for building an image.
type BuildOptions struct {
	ContextDir string
	Dockerfile string
	Tag        string
}

// RunOptions defines the parameters for running a detached container.
type RunOptions struct {
	Image string
	Name  string
	// Ports maps a container TCP port to the host port it is published on.
	Ports map[int]int
}

// PortBinding is one host-side binding of a container port.
type PortBinding struct {
	HostIP   string
	HostPort string
}

// PortMapping lists the host bindings of a single container port, e.g. "5001/tcp".
type PortMapping struct {
	ContainerPort string
	Bindings      []PortBinding
}

// ContainerRuntime defines the contract for container engine operations.
type ContainerRuntime interface {
	Ping(ctx context.Context) error
	BuildImage(ctx context.Context, opts BuildOptions) error
	RunContainer(ctx context.Context, opts RunOptions) (string, error)
	InspectPorts(ctx context.Context, containerID string) ([]PortMapping, error)
}
