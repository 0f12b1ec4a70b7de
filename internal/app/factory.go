package app

import (
	"context"

	"launchpad/internal/builder"
	"launchpad/internal/config"
	lperrors "launchpad/internal/errors"
	"launchpad/internal/launcher"
	"launchpad/internal/resolver"
	dockerruntime "launchpad/internal/runtime"
	"launchpad/internal/stager"
	"launchpad/pkg/runtime"
)

// NewStager creates the workload stager described by cfg.
func NewStager(cfg *config.Config) *stager.Stager {
	return stager.New(stager.Options{
		Root:             cfg.Staging.Root,
		RequirementsFile: cfg.Staging.RequirementsFile,
		BaseImage:        cfg.Workload.BaseImage,
	})
}

// NewFromConfig wires an Orchestrator from cfg around an existing container runtime.
func NewFromConfig(cfg *config.Config, containerRuntime runtime.ContainerRuntime) *Orchestrator {
	return NewOrchestrator(Components{
		Stager:   NewStager(cfg),
		Builder:  builder.NewImageBuilder(containerRuntime, cfg.Engine.BuildTimeout),
		Launcher: launcher.NewContainerLauncher(containerRuntime, cfg.Engine.LaunchTimeout),
		Resolver: resolver.NewEndpointResolver(containerRuntime, cfg.Network.AdvertiseHost),
	}, cfg.Staging.Keep)
}

// ConnectRuntime opens the Docker engine client shared by every request.
func ConnectRuntime(ctx context.Context) (*dockerruntime.DockerRuntime, error) {
	rt, err := dockerruntime.NewDockerRuntime(ctx)
	if err != nil {
		return nil, lperrors.NewRuntimeError("Container engine unavailable", "",
			"Ensure the Docker daemon is running and DOCKER_HOST points at it", err)
	}
	return rt, nil
}
