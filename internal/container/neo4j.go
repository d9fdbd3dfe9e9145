// Package container manages the Neo4j container Lab2 runs against.
package container

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// dockerAPI is the part of *client.Client the manager uses.
type dockerAPI interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]types.Container, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
	ImagePull(ctx context.Context, refStr string, options image.PullOptions) (io.ReadCloser, error)
	VolumeRemove(ctx context.Context, volumeID string, force bool) error
	Close() error
}

// Spec describes the container to run.
type Spec struct {
	Name     string
	Image    string
	Platform string
	Volume   string
	BoltPort string
	HTTPPort string
	Username string
	Password string
}

type Manager struct {
	cli  dockerAPI
	spec Spec
}

func NewManager(spec Spec) (*Manager, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return newManager(cli, spec), nil
}

func newManager(cli dockerAPI, spec Spec) *Manager {
	return &Manager{cli: cli, spec: spec}
}

func (m *Manager) Close() error {
	return m.cli.Close()
}

// Up starts the container, creating it (and pulling the image) when it does
// not exist. It returns the container ID.
func (m *Manager) Up(ctx context.Context) (string, error) {
	existing, err := m.find(ctx)
	if err != nil {
		return "", err
	}

	if existing != nil {
		if existing.State == "running" {
			slog.Info("neo4j container already running", "name", m.spec.Name, "id", shortID(existing.ID))
			return existing.ID, nil
		}
		if err := m.cli.ContainerStart(ctx, existing.ID, container.StartOptions{}); err != nil {
			return "", fmt.Errorf("failed to start container %s: %w", m.spec.Name, err)
		}
		slog.Info("neo4j container started", "name", m.spec.Name, "id", shortID(existing.ID))
		return existing.ID, nil
	}

	containerConfig, hostConfig := m.containerConfig()
	platform := m.platform()

	resp, err := m.cli.ContainerCreate(ctx, containerConfig, hostConfig, nil, platform, m.spec.Name)
	if err != nil {
		if !client.IsErrNotFound(err) {
			return "", fmt.Errorf("failed to create container: %w", err)
		}
		slog.Info("image not found locally, pulling", "image", m.spec.Image)
		if err := m.pull(ctx); err != nil {
			return "", err
		}
		resp, err = m.cli.ContainerCreate(ctx, containerConfig, hostConfig, nil, platform, m.spec.Name)
		if err != nil {
			return "", fmt.Errorf("failed to create container: %w", err)
		}
	}

	if err := m.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("failed to start container %s: %w", m.spec.Name, err)
	}
	slog.Info("neo4j container created", "name", m.spec.Name, "id", shortID(resp.ID), "bolt_port", m.spec.BoltPort)
	return resp.ID, nil
}

// Down removes the container and its data volume. Missing ones are ignored.
func (m *Manager) Down(ctx context.Context) error {
	existing, err := m.find(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		opts := container.RemoveOptions{Force: true, RemoveVolumes: true}
		if err := m.cli.ContainerRemove(ctx, existing.ID, opts); err != nil && !client.IsErrNotFound(err) {
			return fmt.Errorf("failed to remove container %s: %w", m.spec.Name, err)
		}
		slog.Info("neo4j container removed", "name", m.spec.Name)
	}

	if m.spec.Volume != "" {
		if err := m.cli.VolumeRemove(ctx, m.spec.Volume, true); err != nil && !client.IsErrNotFound(err) {
			return fmt.Errorf("failed to remove volume %s: %w", m.spec.Volume, err)
		}
	}
	return nil
}

// Logs copies the container's stdout and stderr to w.
func (m *Manager) Logs(ctx context.Context, w io.Writer, follow bool) error {
	existing, err := m.find(ctx)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("container %s does not exist", m.spec.Name)
	}

	out, err := m.cli.ContainerLogs(ctx, existing.ID, container.LogsOptions{ShowStdout: true, ShowStderr: true, Follow: follow})
	if err != nil {
		return fmt.Errorf("failed to read logs: %w", err)
	}
	defer out.Close()

	_, err = stdcopy.StdCopy(w, w, out)
	return err
}

func (m *Manager) find(ctx context.Context) (*types.Container, error) {
	list, err := m.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", m.spec.Name)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	// The name filter matches substrings.
	for i := range list {
		for _, name := range list[i].Names {
			if strings.TrimPrefix(name, "/") == m.spec.Name {
				return &list[i], nil
			}
		}
	}
	return nil, nil
}

func (m *Manager) pull(ctx context.Context) error {
	rc, err := m.cli.ImagePull(ctx, m.spec.Image, image.PullOptions{Platform: m.spec.Platform})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", m.spec.Image, err)
	}
	defer rc.Close()
	// The pull only completes once the progress stream is drained.
	if _, err := io.Copy(io.Discard, rc); err != nil {
		return fmt.Errorf("failed to pull image %s: %w", m.spec.Image, err)
	}
	return nil
}

func (m *Manager) containerConfig() (*container.Config, *container.HostConfig) {
	bolt := nat.Port("7687/tcp")
	http := nat.Port("7474/tcp")

	containerConfig := &container.Config{
		Image:        m.spec.Image,
		Env:          []string{fmt.Sprintf("NEO4J_AUTH=%s/%s", m.spec.Username, m.spec.Password)},
		ExposedPorts: nat.PortSet{bolt: struct{}{}, http: struct{}{}},
	}

	hostConfig := &container.HostConfig{
		PortBindings: nat.PortMap{
			bolt: []nat.PortBinding{{HostIP: "0.0.0.0", HostPort: m.spec.BoltPort}},
			http: []nat.PortBinding{{HostIP: "0.0.0.0", HostPort: m.spec.HTTPPort}},
		},
		RestartPolicy: container.RestartPolicy{Name: container.RestartPolicyUnlessStopped},
	}
	if m.spec.Volume != "" {
		hostConfig.Mounts = []mount.Mount{{
			Type:   mount.TypeVolume,
			Source: m.spec.Volume,
			Target: "/data",
		}}
	}
	return containerConfig, hostConfig
}

func (m *Manager) platform() *ocispec.Platform {
	os, arch, ok := strings.Cut(m.spec.Platform, "/")
	if !ok {
		return nil
	}
	return &ocispec.Platform{OS: os, Architecture: arch}
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
