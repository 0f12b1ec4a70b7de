package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"launchpad/pkg/workload"
)

// RunPhase is the lifecycle position of a single build-and-run.
type RunPhase string

const (
	PhaseValidating RunPhase = "validating"
	PhaseStaging    RunPhase = "staging"
	PhaseBuilding   RunPhase = "building"
	PhaseLaunching  RunPhase = "launching"
	PhaseResolving  RunPhase = "resolving"
	PhaseDone       RunPhase = "done"
	PhaseFailed     RunPhase = "failed"
)

var phaseOrder = map[RunPhase]int{
	PhaseValidating: 0,
	PhaseStaging:    1,
	PhaseBuilding:   2,
	PhaseLaunching:  3,
	PhaseResolving:  4,
	PhaseDone:       5,
}

// RunState tracks one build-and-run from request to result. It lives only for the
// duration of the call and is never persisted.
type RunState struct {
	RunID               string
	Phase               RunPhase
	LastSuccessfulPhase RunPhase
	Request             workload.RunRequest

	Staged    *workload.StagedWorkload
	ImageRef  string
	Container workload.ContainerHandle
	Result    workload.ResolvedEndpoint

	Err        error
	StartedAt  time.Time
	UpdatedAt  time.Time
	FinishedAt time.Time
}

func newRunState(req workload.RunRequest) *RunState {
	now := time.Now()
	return &RunState{
		RunID:     uuid.New().String(),
		Phase:     PhaseValidating,
		Request:   req,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// enter moves the run forward to phase. Moving backwards or leaving a terminal phase is a bug.
func (s *RunState) enter(phase RunPhase) error {
	if s.terminal() {
		return fmt.Errorf("run %s already %s", s.RunID, s.Phase)
	}
	if phaseOrder[phase] < phaseOrder[s.Phase] {
		return fmt.Errorf("run %s cannot move from %s back to %s", s.RunID, s.Phase, phase)
	}
	s.Phase = phase
	s.UpdatedAt = time.Now()
	return nil
}

// succeed records the current phase as completed.
func (s *RunState) succeed() {
	s.LastSuccessfulPhase = s.Phase
	s.UpdatedAt = time.Now()
}

func (s *RunState) finish() {
	s.Phase = PhaseDone
	s.FinishedAt = time.Now()
	s.UpdatedAt = s.FinishedAt
}

func (s *RunState) fail(err error) {
	s.Err = err
	s.Phase = PhaseFailed
	s.FinishedAt = time.Now()
	s.UpdatedAt = s.FinishedAt
}

func (s *RunState) terminal() bool {
	return s.Phase == PhaseDone || s.Phase == PhaseFailed
}

// LogValue implements slog.LogValuer.
func (s *RunState) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("runId", s.RunID),
		slog.String("phase", string(s.Phase)),
		slog.String("image", s.Request.ImageName),
		slog.Int("endpoint", s.Request.Endpoint),
	}
	if s.LastSuccessfulPhase != "" {
		attrs = append(attrs, slog.String("lastSuccessful", string(s.LastSuccessfulPhase)))
	}
	if !s.FinishedAt.IsZero() {
		attrs = append(attrs, slog.Duration("elapsed", s.FinishedAt.Sub(s.StartedAt)))
	}
	return slog.GroupValue(attrs...)
}
