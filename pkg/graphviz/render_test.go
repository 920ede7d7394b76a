package graphviz

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputPath(t *testing.T) {
	c := demoCascade(t)
	assert.Equal(t, filepath.Join("/tmp", "app.t1.pdf"), OutputPath("/tmp", c, "pdf"))
	assert.Equal(t, "app.t1.dot", OutputPath("", c, "dot"))
}

func TestRenderDotFormat(t *testing.T) {
	c := demoCascade(t)
	dir := t.TempDir()

	path, err := NewRenderer(nil).Render(context.Background(), c, dir, "dot")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "app.t1.dot"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Export(c), string(data))
}

func TestRenderDotFormatUnwritableDir(t *testing.T) {
	c := demoCascade(t)

	_, err := NewRenderer(nil).Render(context.Background(), c, filepath.Join(t.TempDir(), "missing"), "dot")
	assert.ErrorIs(t, err, ErrRenderBackend)
}

func TestRenderMissingBackend(t *testing.T) {
	c := demoCascade(t)
	r := NewRenderer(nil)
	r.DotPath = filepath.Join(t.TempDir(), "no-such-dot")

	_, err := r.Render(context.Background(), c, t.TempDir(), "png")
	assert.ErrorIs(t, err, ErrRenderBackend)
}
