package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, cfg.Lab2.Features.TagsEnabled())
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labs.yaml")
	content := `
log:
  level: debug
lab1:
  db_path: /tmp/inventory.db
lab2:
  neo4j:
    uri: neo4j://graph:7687
  connect:
    max_attempts: 3
    delay: 250ms
  features:
    tags: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "/tmp/inventory.db", cfg.Lab1.DBPath)
	assert.Equal(t, ":8101", cfg.Lab1.Listen)
	assert.Equal(t, "neo4j://graph:7687", cfg.Lab2.Neo4j.URI)
	assert.Equal(t, "neo4j", cfg.Lab2.Neo4j.Username)
	assert.Equal(t, 3, cfg.Lab2.Connect.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Lab2.Connect.Delay)
	assert.False(t, cfg.Lab2.Features.TagsEnabled())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lab1:\n  listen: ':9000'\n"), 0o644))

	t.Setenv("LAB1_LISTEN", ":9100")
	t.Setenv("NEO4J_PASSWORD", "s3cretpass")
	t.Setenv("LAB2_TAGS", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Lab1.Listen)
	assert.Equal(t, "s3cretpass", cfg.Lab2.Neo4j.Password)
	assert.False(t, cfg.Lab2.Features.TagsEnabled())
}

func TestLoadRejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lab1: [not, a, map"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	t.Setenv("LAB2_TAGS", "sometimes")
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv("LAB_CONFIG", "/etc/labs.yaml")
	assert.Equal(t, "/etc/labs.yaml", PathFromEnv())
}
