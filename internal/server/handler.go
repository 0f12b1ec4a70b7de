package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	lperrors "launchpad/internal/errors"
	"launchpad/internal/request"
	"launchpad/internal/validation"
	"launchpad/pkg/workload"
)

const fileField = "file"

// Runner executes a validated build-and-run.
type Runner interface {
	Run(ctx context.Context, req workload.RunRequest) (workload.ResolvedEndpoint, error)
}

// Pinger reports whether the container engine is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the build-and-run API.
type Handler struct {
	runner            Runner
	engine            Pinger
	allowedExtensions []string
}

func NewHandler(runner Runner, engine Pinger, allowedExtensions []string) *Handler {
	return &Handler{
		runner:            runner,
		engine:            engine,
		allowedExtensions: allowedExtensions,
	}
}

// BuildAndRun handles POST /build_and_run. Every request check happens before
// anything is written to disk or sent to the engine.
func (h *Handler) BuildAndRun(c *fiber.Ctx) error {
	filename, fh, ok := h.filePart(c)
	if !ok {
		return writeError(c, request.MissingFile())
	}

	var form request.Form
	if err := c.BodyParser(&form); err != nil {
		return writeError(c, lperrors.NewValidationError("Invalid request", "", "", err))
	}

	var source []byte
	if fh != nil {
		var err error
		if source, err = readUpload(fh); err != nil {
			return writeError(c, lperrors.NewStagingError("Failed to read upload", "", "", err))
		}
	}

	req, err := request.Build(form, filename, source, h.allowedExtensions)
	if err != nil {
		return writeError(c, err)
	}

	result, err := h.runner.Run(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"urls":   result.URLs,
		"status": fiber.StatusOK,
	})
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(c *fiber.Ctx) error {
	if err := h.engine.Ping(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// filePart locates the "file" part. A part sent with an empty filename is decoded
// as a plain value, so it is reported with an empty name and no header.
func (h *Handler) filePart(c *fiber.Ctx) (string, *multipart.FileHeader, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		return "", nil, false
	}
	if files := form.File[fileField]; len(files) > 0 {
		return files[0].Filename, files[0], true
	}
	if _, ok := form.Value[fileField]; ok {
		return "", nil, true
	}
	return "", nil, false
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeError(c *fiber.Ctx, err error) error {
	status := lperrors.StatusCode(err)
	body := fiber.Map{
		"error":  err.Error(),
		"status": status,
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		body["error"] = "Invalid request"
		body["message"] = fieldErrs
	}

	if status >= fiber.StatusInternalServerError {
		slog.Error("Request failed", "path", c.Path(), "type", lperrors.TypeName(err), "error", err)
	} else {
		slog.Info("Request rejected", "path", c.Path(), "error", body["error"])
	}
	return c.Status(status).JSON(body)
}
