package app

import (
	"context"
)

// LaunchStage starts the container for the built image on the requested endpoint.
type LaunchStage struct {
	launcher ContainerLauncher
}

func NewLaunchStage(launcher ContainerLauncher) *LaunchStage {
	return &LaunchStage{launcher: launcher}
}

func (s *LaunchStage) Name() string {
	return string(PhaseLaunching)
}

func (s *LaunchStage) Execute(ctx context.Context, state *RunState) error {
	handle, err := s.launcher.Launch(ctx, state.ImageRef, state.Request.Endpoint)
	if err != nil {
		return err
	}
	state.Container = handle
	return nil
}
