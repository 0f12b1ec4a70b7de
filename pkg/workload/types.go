package workload

import "strings"

// ManifestFileName is the name the build manifest is written under inside a staging directory.
const ManifestFileName = "Dockerfile"

// RequirementsFileName is the companion dependency list the manifest installs from.
const RequirementsFileName = "requirements.txt"

// containerSuffix is appended to the image name to derive the container name.
const containerSuffix = "-con"

// RunRequest is a validated request to build and launch a single-file workload.
// It is created per call and discarded when the call completes.
type RunRequest struct {
	Endpoint       int    `json:"endpoint" validate:"min=1,max=65535"`
	ImageName      string `json:"image_name" validate:"required,imageref"`
	SourceFilename string `json:"filename" validate:"required"`
	Source         []byte `json:"-"`
}

// BuildManifest is the container build recipe synthesized for one request.
type BuildManifest struct {
	Text string
}

// StagedWorkload describes a staging directory ready to be used as a build context.
type StagedWorkload struct {
	Dir          string
	SourcePath   string
	ManifestPath string
	Manifest     BuildManifest
}

// ContainerHandle identifies a container started by the launcher.
type ContainerHandle struct {
	ID   string
	Name string
}

// ResolvedEndpoint holds the URLs at which a running container can be reached.
// URLs follow the binding enumeration order reported by the engine.
type ResolvedEndpoint struct {
	URLs []string `json:"urls"`
}

// ContainerName derives the deterministic container name for an image.
func ContainerName(imageName string) string {
	return imageName + containerSuffix
}

// ShortID trims an engine container ID for display.
func ShortID(id string) string {
	id = strings.TrimPrefix(id, "sha256:")
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
