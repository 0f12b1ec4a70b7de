package stager

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/moby/buildkit/frontend/dockerfile/parser"

	"launchpad/pkg/workload"
)

var manifestTemplate = template.Must(template.New("Dockerfile").Parse(`FROM {{.BaseImage}}
WORKDIR /app
COPY ./requirements.txt /app
RUN pip install -r requirements.txt
COPY . .
EXPOSE {{.Endpoint}}
ENV FLASK_APP={{.Filename}}
CMD ["flask", "run", "--host", "0.0.0.0", "--port", "{{.Endpoint}}"]
`))

type manifestParams struct {
	BaseImage string
	Endpoint  int
	Filename  string
}

// RenderManifest synthesizes the build manifest for a workload file listening on endpoint.
// The result is parsed as a Dockerfile so template mistakes fail before reaching the engine.
func RenderManifest(baseImage, filename string, endpoint int) (workload.BuildManifest, error) {
	if baseImage == "" {
		return workload.BuildManifest{}, fmt.Errorf("base image is required")
	}

	var buf bytes.Buffer
	if err := manifestTemplate.Execute(&buf, manifestParams{
		BaseImage: baseImage,
		Endpoint:  endpoint,
		Filename:  filename,
	}); err != nil {
		return workload.BuildManifest{}, fmt.Errorf("failed to render build manifest: %w", err)
	}

	if _, err := parser.Parse(bytes.NewReader(buf.Bytes())); err != nil {
		return workload.BuildManifest{}, fmt.Errorf("parse generated dockerfile: %w", err)
	}

	return workload.BuildManifest{Text: buf.String()}, nil
}
