package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"launchpad/internal/app"
	"launchpad/internal/config"
	lperrors "launchpad/internal/errors"
	"launchpad/internal/request"
	"launchpad/internal/server"
	"launchpad/internal/ui"
)

// version is set at build time via ldflags
var version = "dev"

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "launchpad",
		Short:   "Launchpad - build and launch single-file web workloads in containers",
		Version: version,
		Long: `Launchpad accepts a single Python web application, packages it into a container
image, starts a container bound to the requested port and reports the URLs it can be
reached at.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML configuration file")

	load := func(logOut io.Writer) (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, lperrors.NewConfigError("Invalid configuration", "",
				"Check the configuration file and LAUNCHPAD_* environment variables", err)
		}
		slog.SetDefault(newLogger(cfg.Log, logOut))
		return cfg, nil
	}

	rootCmd.AddCommand(newServeCmd(load), newRunCmd(load))
	return rootCmd
}

func newServeCmd(load func(io.Writer) (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Serve exposes POST /build_and_run and GET /healthz. Each request stages the upload
in its own directory, builds an image tagged with image_name and runs "<image_name>-con".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := app.ConnectRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			orchestrator := app.NewFromConfig(cfg, rt)
			handler := server.NewHandler(orchestrator, rt, cfg.Workload.AllowedExtensions)
			return server.New(cfg, handler).Run(ctx)
		},
	}
}

func newRunCmd(load func(io.Writer) (*config.Config, error)) *cobra.Command {
	var (
		file     string
		endpoint int
		image    string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build and launch a local file",
		Long: `Run executes the same build-and-run pipeline as the HTTP API for a file on disk
and prints the resulting URLs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			console := ui.NewWriterConsole(cmd.OutOrStdout(), cmd.ErrOrStderr())

			source, err := os.ReadFile(file)
			if err != nil {
				return lperrors.NewValidationError("Cannot read workload file", "", "", err)
			}

			form := request.Form{Endpoint: strconv.Itoa(endpoint), ImageName: image}
			req, err := request.Build(form, filepath.Base(file), source, cfg.Workload.AllowedExtensions)
			if err != nil {
				return err
			}

			if dryRun {
				manifest, err := app.NewStager(cfg).Render(req.SourceFilename, req.Endpoint)
				if err != nil {
					return err
				}
				console.PrintInfo(fmt.Sprintf("DRY RUN: would build image %q and run container %q", req.ImageName, req.ImageName+"-con"))
				console.Print(manifest.Text)
				return nil
			}

			rt, err := app.ConnectRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			result, err := app.NewFromConfig(cfg, rt).Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			if len(result.URLs) == 0 {
				console.PrintWarning(fmt.Sprintf("Container %s-con started but publishes no ports", req.ImageName))
				return nil
			}
			console.PrintSuccess(fmt.Sprintf("Container %s-con is running", req.ImageName))
			for _, u := range result.URLs {
				console.Print(u)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the Python file to launch (required)")
	cmd.Flags().IntVarP(&endpoint, "endpoint", "p", 0, "Port the workload listens on and is published at (required)")
	cmd.Flags().StringVarP(&image, "image", "i", "", "Image name to build and tag (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the generated Dockerfile without building anything")
	for _, name := range []string{"file", "endpoint", "image"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			slog.Error("Failed to mark flag as required for run command", "flag", name, "error", err)
		}
	}

	return cmd
}

// newLogger builds the process logger from the log section of the configuration.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		lperrors.HandleError(err)
		os.Exit(1)
	}
}
