package app

import (
	"context"
	"log/slog"

	"launchpad/pkg/workload"
)

// Orchestrator drives a build-and-run through validation, staging, build, launch
// and resolution. The first failing stage ends the run and its error is returned
// unchanged. Side effects of completed stages are not rolled back.
type Orchestrator struct {
	stager      WorkloadStager
	stages      []Stage
	keepStaging bool
}

// Components are the collaborators an Orchestrator drives.
type Components struct {
	Stager   WorkloadStager
	Builder  ImageBuilder
	Launcher ContainerLauncher
	Resolver EndpointResolver
}

// NewOrchestrator creates an Orchestrator. When keepStaging is false the staging
// directory of every run is removed once the run finishes, successful or not.
func NewOrchestrator(c Components, keepStaging bool) *Orchestrator {
	return &Orchestrator{
		stager: c.Stager,
		stages: []Stage{
			NewValidateStage(),
			NewStagingStage(c.Stager),
			NewBuildStage(c.Builder),
			NewLaunchStage(c.Launcher),
			NewResolveStage(c.Resolver),
		},
		keepStaging: keepStaging,
	}
}

// Run executes every stage for req and returns the reachable URLs of the new container.
func (o *Orchestrator) Run(ctx context.Context, req workload.RunRequest) (workload.ResolvedEndpoint, error) {
	state := newRunState(req)
	slog.Info("Starting build and run", "run", state)

	defer o.cleanup(state)

	for _, stage := range o.stages {
		if err := state.enter(RunPhase(stage.Name())); err != nil {
			state.fail(err)
			return workload.ResolvedEndpoint{}, err
		}

		slog.Debug("Stage started", "runId", state.RunID, "stage", stage.Name())
		if err := stage.Execute(ctx, state); err != nil {
			state.fail(err)
			slog.Error("Build and run failed", "run", state, "stage", stage.Name(), "error", err)
			return workload.ResolvedEndpoint{}, err
		}
		state.succeed()
	}

	state.finish()
	slog.Info("Build and run completed", "run", state, "urls", state.Result.URLs)
	return state.Result, nil
}

func (o *Orchestrator) cleanup(state *RunState) {
	if o.keepStaging || state.Staged == nil {
		return
	}
	if err := o.stager.Cleanup(state.Staged); err != nil {
		slog.Warn("Failed to remove staging directory", "runId", state.RunID, "dir", state.Staged.Dir, "error", err)
	}
}
