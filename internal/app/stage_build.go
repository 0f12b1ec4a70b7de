package app

import (
	"context"
)

// BuildStage builds the staged workload into an image tagged with the requested name.
type BuildStage struct {
	builder ImageBuilder
}

func NewBuildStage(builder ImageBuilder) *BuildStage {
	return &BuildStage{builder: builder}
}

func (s *BuildStage) Name() string {
	return string(PhaseBuilding)
}

func (s *BuildStage) Execute(ctx context.Context, state *RunState) error {
	ref, err := s.builder.Build(ctx, state.Staged, state.Request.ImageName)
	if err != nil {
		return err
	}
	state.ImageRef = ref
	return nil
}
