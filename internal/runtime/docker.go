package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/go-connections/nat"

	"launchpad/pkg/runtime"
)

// DockerRuntime implements the ContainerRuntime interface using Docker client.
type DockerRuntime struct {
	client *client.Client
}

// NewDockerRuntime creates a new DockerRuntime instance using client.FromEnv.
func NewDockerRuntime(ctx context.Context) (*DockerRuntime, error) {
	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	if _, err := dockerClient.Ping(ctx); err != nil {
		dockerClient.Close()
		return nil, fmt.Errorf("failed to connect to Docker daemon: %w", err)
	}

	return &DockerRuntime{
		client: dockerClient,
	}, nil
}

// Close releases the underlying client.
func (d *DockerRuntime) Close() error {
	return d.client.Close()
}

// Ping checks that the Docker daemon is reachable.
func (d *DockerRuntime) Ping(ctx context.Context) error {
	if _, err := d.client.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to Docker daemon: %w", err)
	}
	return nil
}

// BuildImage builds and tags an image from a local build context directory.
// It blocks until the engine finishes and returns the engine's own error message on failure.
func (d *DockerRuntime) BuildImage(ctx context.Context, opts runtime.BuildOptions) error {
	slog.Info("Building Docker image", "tag", opts.Tag, "context", opts.ContextDir)

	buildCtx, err := archive.TarWithOptions(opts.ContextDir, &archive.TarOptions{})
	if err != nil {
		return fmt.Errorf("failed to create build context: %w", err)
	}
	defer buildCtx.Close()

	resp, err := d.client.ImageBuild(ctx, buildCtx, types.ImageBuildOptions{
		Tags:        []string{opts.Tag},
		Dockerfile:  opts.Dockerfile,
		Remove:      true, // Remove intermediate containers
		ForceRemove: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build image: %w", err)
	}
	defer resp.Body.Close()

	if err := drainBuildOutput(resp.Body, opts.Tag); err != nil {
		return err
	}

	slog.Info("Successfully built Docker image", "tag", opts.Tag)
	return nil
}

// drainBuildOutput reads the build progress stream to completion.
// Errors reported inside the stream are returned as *jsonmessage.JSONError.
func drainBuildOutput(body io.Reader, tag string) error {
	out := newLineLogger("Build output", "tag", tag)
	err := jsonmessage.DisplayJSONMessagesStream(body, out, 0, false, nil)
	out.Flush()
	return err
}

// RunContainer creates and starts a detached container and returns its ID.
func (d *DockerRuntime) RunContainer(ctx context.Context, opts runtime.RunOptions) (string, error) {
	slog.Info("Running container", "image", opts.Image, "name", opts.Name, "ports", opts.Ports)

	exposed, bindings := portSpec(opts.Ports)

	containerConfig := &container.Config{
		Image:        opts.Image,
		ExposedPorts: exposed,
	}

	hostConfig := &container.HostConfig{
		PortBindings: bindings,
	}

	resp, err := d.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, opts.Name)
	if err != nil {
		switch {
		case errdefs.IsConflict(err):
			return "", fmt.Errorf("%w: %w", runtime.ErrNameConflict, err)
		case errdefs.IsNotFound(err):
			return "", fmt.Errorf("%w: %w", runtime.ErrImageNotFound, err)
		}
		return "", fmt.Errorf("failed to create container: %w", err)
	}

	containerID := resp.ID

	if err := d.client.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		// Clean up on start failure
		if removeErr := d.client.ContainerRemove(context.WithoutCancel(ctx), containerID, container.RemoveOptions{Force: true}); removeErr != nil {
			slog.Error("Failed to remove container after start failure", "containerID", containerID, "error", removeErr)
		}
		return "", fmt.Errorf("failed to start container: %w", err)
	}

	return containerID, nil
}

// InspectPorts returns the container's published port bindings ordered by container port.
func (d *DockerRuntime) InspectPorts(ctx context.Context, containerID string) ([]runtime.PortMapping, error) {
	info, err := d.client.ContainerInspect(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect container: %w", err)
	}
	if info.NetworkSettings == nil {
		return nil, nil
	}
	return portMappings(info.NetworkSettings.Ports), nil
}

// portSpec publishes each container TCP port on its host port.
func portSpec(ports map[int]int) (nat.PortSet, nat.PortMap) {
	exposed := nat.PortSet{}
	bindings := nat.PortMap{}
	for containerPort, hostPort := range ports {
		p := nat.Port(fmt.Sprintf("%d/tcp", containerPort))
		exposed[p] = struct{}{}
		bindings[p] = []nat.PortBinding{{HostPort: strconv.Itoa(hostPort)}}
	}
	return exposed, bindings
}

// portMappings flattens an engine port map. Map iteration order is random, so
// entries are sorted by port number then protocol to keep results stable.
func portMappings(ports nat.PortMap) []runtime.PortMapping {
	keys := make([]nat.Port, 0, len(ports))
	for p := range ports {
		keys = append(keys, p)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Int() != keys[j].Int() {
			return keys[i].Int() < keys[j].Int()
		}
		return keys[i].Proto() < keys[j].Proto()
	})

	result := make([]runtime.PortMapping, 0, len(keys))
	for _, p := range keys {
		mapping := runtime.PortMapping{ContainerPort: string(p)}
		for _, b := range ports[p] {
			mapping.Bindings = append(mapping.Bindings, runtime.PortBinding{
				HostIP:   b.HostIP,
				HostPort: b.HostPort,
			})
		}
		result = append(result, mapping)
	}
	return result
}
