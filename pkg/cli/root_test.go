package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("PGCASCADE_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("USER", "tester")
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()

	assert.Equal(t, "pgcascade", root.Name)
	assert.Contains(t, root.Subcommands, "summary")
	assert.Contains(t, root.Subcommands, "cascade")
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PGCASCADE_HOST", "env-host")

	cmd := newSummaryCommand()
	require.NoError(t, cmd.Flags.Parse([]string{
		"-host", "flag-host",
		"-port", "5433",
		"-user", "inspector",
		"-database", "warehouse",
		"-sslmode", "require",
		"myschema",
	}))

	cfg, err := loadConfig(cmd.Flags)
	require.NoError(t, err)

	// Flags beat environment.
	assert.Equal(t, "flag-host", cfg.Connection.Host)
	assert.Equal(t, 5433, cfg.Connection.Port)
	assert.Equal(t, "inspector", cfg.Connection.User)
	assert.Equal(t, "warehouse", cfg.Connection.Database)
	assert.Equal(t, "require", cfg.Connection.SSLMode)
	assert.Equal(t, "myschema", cmd.Flags.Arg(0))
}

func TestLoadConfigKeepsEnvWhenFlagsUnset(t *testing.T) {
	isolate(t)
	t.Setenv("PGCASCADE_HOST", "env-host")
	t.Setenv("PGCASCADE_DATABASE", "envdb")

	cmd := newSummaryCommand()
	require.NoError(t, cmd.Flags.Parse([]string{"myschema"}))

	cfg, err := loadConfig(cmd.Flags)
	require.NoError(t, err)

	assert.Equal(t, "env-host", cfg.Connection.Host)
	assert.Equal(t, "envdb", cfg.Connection.Database)
}

func TestCascadeCommandFlags(t *testing.T) {
	isolate(t)

	cmd := newCascadeCommand()
	require.NoError(t, cmd.Flags.Parse([]string{
		"-graph",
		"-format", "svg",
		"-out", "/tmp/graphs",
		"-depth", "2",
		"myschema", "mytable",
	}))

	assert.Equal(t, "true", cmd.Flags.Lookup("graph").Value.String())
	assert.Equal(t, "svg", cmd.Flags.Lookup("format").Value.String())
	assert.Equal(t, "/tmp/graphs", cmd.Flags.Lookup("out").Value.String())
	assert.Equal(t, "2", cmd.Flags.Lookup("depth").Value.String())
	assert.Equal(t, "myschema", cmd.Flags.Arg(0))
	assert.Equal(t, "mytable", cmd.Flags.Arg(1))
}
