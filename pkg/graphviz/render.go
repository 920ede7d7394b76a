package graphviz

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/pgcascade/pkg/resolver"
)

// ErrRenderBackend indicates the external rendering step failed after the
// cascade itself succeeded; the in-memory cascade is still usable for the
// text report path.
var ErrRenderBackend = errors.New("render backend failure")

// Renderer writes cascade graphs to disk, delegating image formats to the
// external Graphviz dot binary.
type Renderer struct {
	// DotPath is the dot executable to invoke for non-DOT formats.
	// Empty means "dot" resolved from PATH.
	DotPath string
	log     *logrus.Logger
}

// NewRenderer creates a Renderer. A nil logger falls back to a default one.
func NewRenderer(log *logrus.Logger) *Renderer {
	if log == nil {
		log = logrus.New()
	}
	return &Renderer{log: log}
}

// OutputPath returns the file path a render of the cascade would produce
// under dir: <dir>/<schema>.<root>.<format>.
func OutputPath(dir string, c *resolver.Cascade, format string) string {
	name := fmt.Sprintf("%s.%s.%s", c.Root.Schema, c.Root.Name, format)
	return filepath.Join(dir, name)
}

// Render writes the cascade graph to dir in the requested format and
// returns the written path. Format "dot" writes the graph description
// directly; any other format is handed to the dot binary.
func (r *Renderer) Render(ctx context.Context, c *resolver.Cascade, dir, format string) (string, error) {
	source := Export(c)
	out := OutputPath(dir, c, format)

	if format == "dot" {
		if err := os.WriteFile(out, []byte(source), 0644); err != nil {
			return "", fmt.Errorf("%w: write %s: %v", ErrRenderBackend, out, err)
		}
		return out, nil
	}

	dot := r.DotPath
	if dot == "" {
		dot = "dot"
	}

	cmd := exec.CommandContext(ctx, dot, "-T"+format, "-o", out)
	cmd.Stdin = strings.NewReader(source)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return "", fmt.Errorf("%w: %s -T%s: %s", ErrRenderBackend, dot, format, detail)
	}

	r.log.WithFields(logrus.Fields{
		"path":   out,
		"format": format,
	}).Debug("graph rendered")

	return out, nil
}
