package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	lperrors "launchpad/internal/errors"
	"launchpad/pkg/runtime"
	"launchpad/pkg/workload"
)

// ContainerLauncher starts workload containers through a container runtime.
type ContainerLauncher struct {
	containerRuntime runtime.ContainerRuntime
	timeout          time.Duration
}

// NewContainerLauncher creates a ContainerLauncher. A zero timeout leaves launches unbounded.
func NewContainerLauncher(containerRuntime runtime.ContainerRuntime, timeout time.Duration) *ContainerLauncher {
	return &ContainerLauncher{
		containerRuntime: containerRuntime,
		timeout:          timeout,
	}
}

// Launch starts a detached container from image named "<image>-con", publishing
// container port endpoint/tcp on the same host port. Nothing is retried or renamed.
func (l *ContainerLauncher) Launch(ctx context.Context, image string, endpoint int) (workload.ContainerHandle, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	name := workload.ContainerName(image)
	id, err := l.containerRuntime.RunContainer(ctx, runtime.RunOptions{
		Image: image,
		Name:  name,
		Ports: map[int]int{endpoint: endpoint},
	})
	if err != nil {
		return workload.ContainerHandle{}, classify(ctx, err, name, l.timeout)
	}

	slog.Info("Container started", "name", name, "id", workload.ShortID(id), "port", endpoint)
	return workload.ContainerHandle{ID: id, Name: name}, nil
}

func classify(ctx context.Context, err error, name string, timeout time.Duration) error {
	switch {
	case errors.Is(err, runtime.ErrNameConflict):
		return lperrors.NewLaunchError("Container name conflict", "",
			fmt.Sprintf("Remove container %q or choose a different image name", name), err)
	case errors.Is(err, runtime.ErrImageNotFound):
		return lperrors.NewLaunchError("Image not found", "", "", err)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return lperrors.NewLaunchError("Container launch timed out", "", "",
			fmt.Errorf("container launch timed out after %s: %w", timeout, err))
	default:
		return lperrors.NewLaunchError("Container launch failed", "", "", err)
	}
}
