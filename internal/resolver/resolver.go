package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"

	lperrors "launchpad/internal/errors"
	"launchpad/pkg/runtime"
	"launchpad/pkg/workload"
)

// HostFunc returns the address placed in generated URLs.
type HostFunc func(ctx context.Context) (string, error)

// EndpointResolver turns a running container's port bindings into reachable URLs.
type EndpointResolver struct {
	containerRuntime runtime.ContainerRuntime
	host             HostFunc
}

// NewEndpointResolver creates a resolver. When advertiseHost is empty the local
// hostname is resolved on every call.
func NewEndpointResolver(containerRuntime runtime.ContainerRuntime, advertiseHost string) *EndpointResolver {
	host := LocalHostAddress
	if advertiseHost != "" {
		host = StaticHost(advertiseHost)
	}
	return NewEndpointResolverWithHost(containerRuntime, host)
}

// NewEndpointResolverWithHost creates a resolver with a custom host lookup.
func NewEndpointResolverWithHost(containerRuntime runtime.ContainerRuntime, host HostFunc) *EndpointResolver {
	return &EndpointResolver{
		containerRuntime: containerRuntime,
		host:             host,
	}
}

// StaticHost always returns host.
func StaticHost(host string) HostFunc {
	return func(context.Context) (string, error) {
		return host, nil
	}
}

// LocalHostAddress resolves the machine's hostname, preferring the first IPv4 address.
// Loopback results are returned unchanged.
func LocalHostAddress(ctx context.Context) (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("failed to read hostname: %w", err)
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, hostname)
	if err != nil {
		return "", fmt.Errorf("failed to resolve hostname %q: %w", hostname, err)
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("hostname %q resolved to no addresses", hostname)
	}

	for _, a := range addrs {
		if v4 := a.IP.To4(); v4 != nil {
			return v4.String(), nil
		}
	}
	return addrs[0].IP.String(), nil
}

// Resolve inspects the container and returns one URL per container port with a host binding.
// Ports without bindings are skipped; an empty result is not an error.
func (r *EndpointResolver) Resolve(ctx context.Context, handle workload.ContainerHandle) (workload.ResolvedEndpoint, error) {
	if handle.ID == "" {
		return workload.ResolvedEndpoint{}, lperrors.NewResolveError("No container to inspect", "", "", errors.New("empty container id"))
	}

	mappings, err := r.containerRuntime.InspectPorts(ctx, handle.ID)
	if err != nil {
		return workload.ResolvedEndpoint{}, lperrors.NewResolveError("Container inspection failed", "", "", err)
	}

	host, err := r.host(ctx)
	if err != nil {
		return workload.ResolvedEndpoint{}, lperrors.NewResolveError("Host address lookup failed", "",
			"Set network.advertise_host to the address clients should use", err)
	}

	return workload.ResolvedEndpoint{URLs: BuildURLs(host, mappings)}, nil
}

// BuildURLs derives http URLs from port mappings in their given order.
// Only the first binding of each container port is used. The result is never nil.
func BuildURLs(host string, mappings []runtime.PortMapping) []string {
	urls := []string{}
	for _, m := range mappings {
		if len(m.Bindings) == 0 || m.Bindings[0].HostPort == "" {
			slog.Debug("Skipping unbound container port", "port", m.ContainerPort)
			continue
		}
		urls = append(urls, "http://"+net.JoinHostPort(host, m.Bindings[0].HostPort))
	}
	return urls
}
