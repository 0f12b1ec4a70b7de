package stager

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/google/uuid"

	lperrors "launchpad/internal/errors"
	"launchpad/pkg/workload"
)

// Options configures a Stager.
type Options struct {
	// Root holds one subdirectory per request.
	Root string
	// RequirementsFile is the companion dependency list copied into every staging directory.
	RequirementsFile string
	BaseImage        string
}

// Stager writes uploaded workloads and their build manifests into isolated staging directories.
type Stager struct {
	root             string
	requirementsFile string
	baseImage        string
}

// New creates a Stager.
func New(opts Options) *Stager {
	return &Stager{
		root:             opts.Root,
		requirementsFile: opts.RequirementsFile,
		baseImage:        opts.BaseImage,
	}
}

// Render returns the manifest that Stage would write for filename and endpoint.
func (s *Stager) Render(filename string, endpoint int) (workload.BuildManifest, error) {
	return RenderManifest(s.baseImage, filename, endpoint)
}

// Stage persists source under a fresh staging directory next to the rendered manifest
// and the companion requirements file. Each call gets its own directory, so concurrent
// requests never share a build context.
func (s *Stager) Stage(ctx context.Context, filename string, source []byte, endpoint int) (*workload.StagedWorkload, error) {
	if err := ctx.Err(); err != nil {
		return nil, lperrors.NewStagingError("Staging cancelled", "", "", err)
	}

	manifest, err := s.Render(filename, endpoint)
	if err != nil {
		return nil, lperrors.NewStagingError("Failed to render build manifest", "", "", err)
	}

	if err := os.MkdirAll(s.root, 0750); err != nil {
		return nil, lperrors.NewStagingError("Failed to create staging root", "",
			"Check that the staging root is writable", fmt.Errorf("failed to create staging root: %w", err))
	}

	dir := filepath.Join(s.root, uuid.New().String())
	if err := os.Mkdir(dir, 0750); err != nil {
		return nil, lperrors.NewStagingError("Failed to create staging directory", "", "",
			fmt.Errorf("failed to create staging directory: %w", err))
	}

	staged, err := s.populate(dir, filename, source, manifest)
	if err != nil {
		if removeErr := os.RemoveAll(dir); removeErr != nil {
			slog.Warn("Failed to remove staging directory after error", "dir", dir, "error", removeErr)
		}
		return nil, lperrors.NewStagingError("Failed to stage workload", "", "", err)
	}

	slog.Debug("Workload staged", "dir", dir, "file", filename, "endpoint", endpoint)
	return staged, nil
}

func (s *Stager) populate(dir, filename string, source []byte, manifest workload.BuildManifest) (*workload.StagedWorkload, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return nil, fmt.Errorf("invalid workload filename: %q", filename)
	}
	sourcePath, err := securejoin.SecureJoin(dir, filename)
	if err != nil || filepath.Dir(sourcePath) != dir {
		return nil, fmt.Errorf("invalid workload filename: %q", filename)
	}
	if filename == workload.ManifestFileName || filename == workload.RequirementsFileName {
		return nil, fmt.Errorf("workload filename %q collides with a generated file", filename)
	}

	if err := os.WriteFile(sourcePath, source, 0644); err != nil {
		return nil, fmt.Errorf("failed to write workload file: %w", err)
	}

	if err := s.copyRequirements(dir); err != nil {
		return nil, err
	}

	manifestPath := filepath.Join(dir, workload.ManifestFileName)
	if err := os.WriteFile(manifestPath, []byte(manifest.Text), 0644); err != nil {
		return nil, fmt.Errorf("failed to write build manifest: %w", err)
	}

	return &workload.StagedWorkload{
		Dir:          dir,
		SourcePath:   sourcePath,
		ManifestPath: manifestPath,
		Manifest:     manifest,
	}, nil
}

// copyRequirements copies the companion dependency list when it exists.
// A missing file is not an error here; the build reports it.
func (s *Stager) copyRequirements(dir string) error {
	if s.requirementsFile == "" {
		return nil
	}
	if _, err := os.Stat(s.requirementsFile); os.IsNotExist(err) {
		slog.Warn("Requirements file not found, build will fail to install dependencies", "path", s.requirementsFile)
		return nil
	}
	return copyFile(s.requirementsFile, filepath.Join(dir, workload.RequirementsFileName))
}

// Cleanup removes a staging directory created by Stage.
func (s *Stager) Cleanup(staged *workload.StagedWorkload) error {
	if staged == nil || staged.Dir == "" {
		return nil
	}
	if err := os.RemoveAll(staged.Dir); err != nil {
		return fmt.Errorf("failed to remove staging directory: %w", err)
	}
	return nil
}

// copyFile copies a single file from src to dst.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src, err)
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return fmt.Errorf("failed to copy file content: %w", err)
	}

	return dstFile.Close()
}
