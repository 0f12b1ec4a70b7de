package app

import (
	"context"

	"launchpad/pkg/workload"
)

// Stage is a single step of a build-and-run. Stages run strictly in order and
// each one records its output on the shared RunState.
type Stage interface {
	Name() string
	Execute(ctx context.Context, state *RunState) error
}

// WorkloadStager prepares a build context for a request.
type WorkloadStager interface {
	Stage(ctx context.Context, filename string, source []byte, endpoint int) (*workload.StagedWorkload, error)
	Cleanup(staged *workload.StagedWorkload) error
}

// ImageBuilder turns a staged workload into a tagged image.
type ImageBuilder interface {
	Build(ctx context.Context, staged *workload.StagedWorkload, tag string) (string, error)
}

// ContainerLauncher starts a container from a built image.
type ContainerLauncher interface {
	Launch(ctx context.Context, image string, endpoint int) (workload.ContainerHandle, error)
}

// EndpointResolver reports where a running container can be reached.
type EndpointResolver interface {
	Resolve(ctx context.Context, handle workload.ContainerHandle) (workload.ResolvedEndpoint, error)
}
