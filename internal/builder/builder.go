package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	lperrors "launchpad/internal/errors"
	"launchpad/pkg/runtime"
	"launchpad/pkg/workload"
)

// ImageBuilder builds workload images through a container runtime.
type ImageBuilder struct {
	containerRuntime runtime.ContainerRuntime
	timeout          time.Duration
}

// NewImageBuilder creates an ImageBuilder. A zero timeout leaves builds unbounded.
func NewImageBuilder(containerRuntime runtime.ContainerRuntime, timeout time.Duration) *ImageBuilder {
	return &ImageBuilder{
		containerRuntime: containerRuntime,
		timeout:          timeout,
	}
}

// Build builds the staged workload and tags the result with tag, which is returned as the image reference.
// An existing image with the same tag is replaced according to the engine's own semantics.
func (b *ImageBuilder) Build(ctx context.Context, staged *workload.StagedWorkload, tag string) (string, error) {
	if staged == nil {
		return "", lperrors.NewBuildError("Nothing to build", "", "", errors.New("no staged workload"))
	}
	if _, err := os.Stat(staged.Dir); err != nil {
		return "", lperrors.NewBuildError("Build context unavailable", "", "",
			fmt.Errorf("build context %s: %w", staged.Dir, err))
	}

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	start := time.Now()
	err := b.containerRuntime.BuildImage(ctx, runtime.BuildOptions{
		ContextDir: staged.Dir,
		Dockerfile: workload.ManifestFileName,
		Tag:        tag,
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", lperrors.NewBuildError("Image build timed out", "",
				fmt.Sprintf("Builds are limited to %s", b.timeout), fmt.Errorf("image build timed out after %s: %w", b.timeout, err))
		}
		return "", lperrors.NewBuildError("Image build failed", "", "", err)
	}

	slog.Info("Image built", "tag", tag, "duration", time.Since(start).Round(time.Millisecond))
	return tag, nil
}
