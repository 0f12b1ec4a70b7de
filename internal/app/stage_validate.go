package app

import (
	"context"

	lperrors "launchpad/internal/errors"
	"launchpad/internal/validation"
)

// ValidateStage rejects requests that did not come through request.Build intact.
type ValidateStage struct{}

func NewValidateStage() *ValidateStage {
	return &ValidateStage{}
}

func (s *ValidateStage) Name() string {
	return string(PhaseValidating)
}

func (s *ValidateStage) Execute(ctx context.Context, state *RunState) error {
	if err := validation.Struct(state.Request); err != nil {
		return lperrors.NewValidationError("Invalid request", "", "", err)
	}
	return nil
}
