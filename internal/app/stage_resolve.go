package app

import (
	"context"
	"log/slog"
)

// ResolveStage derives the URLs of the running container.
type ResolveStage struct {
	resolver EndpointResolver
}

func NewResolveStage(resolver EndpointResolver) *ResolveStage {
	return &ResolveStage{resolver: resolver}
}

func (s *ResolveStage) Name() string {
	return string(PhaseResolving)
}

func (s *ResolveStage) Execute(ctx context.Context, state *RunState) error {
	result, err := s.resolver.Resolve(ctx, state.Container)
	if err != nil {
		return err
	}
	if result.URLs == nil {
		result.URLs = []string{}
	}
	if len(result.URLs) == 0 {
		// Reported as success; the container runs but publishes nothing reachable.
		slog.Warn("Container has no published ports", "runId", state.RunID, "container", state.Container.Name)
	}
	state.Result = result
	return nil
}
