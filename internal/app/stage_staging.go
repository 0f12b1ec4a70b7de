package app

import (
	"context"
	"log/slog"
)

// StagingStage writes the workload and its manifest into a fresh build context.
type StagingStage struct {
	stager WorkloadStager
}

func NewStagingStage(stager WorkloadStager) *StagingStage {
	return &StagingStage{stager: stager}
}

func (s *StagingStage) Name() string {
	return string(PhaseStaging)
}

func (s *StagingStage) Execute(ctx context.Context, state *RunState) error {
	req := state.Request
	staged, err := s.stager.Stage(ctx, req.SourceFilename, req.Source, req.Endpoint)
	if err != nil {
		return err
	}

	state.Staged = staged
	slog.Info("Workload staged", "runId", state.RunID, "dir", staged.Dir)
	return nil
}
