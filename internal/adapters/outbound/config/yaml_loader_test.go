package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/tdkit/agentaudit/internal/adapters/outbound/config"
	"github.com/tdkit/agentaudit/internal/domain"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".agentaudit.yaml"), []byte(content), 0644))
}

func TestYAMLLoader_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAuditConfig(), cfg)
}

func TestYAMLLoader_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
agents_dir: agents
index_doc: docs/AGENTS_INDEX.md
reference_docs:
  - README.md
  - docs/OVERVIEW.md
`)
	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "agents", cfg.AgentsDir)
	assert.Equal(t, "docs/AGENTS_INDEX.md", cfg.IndexDoc)
	assert.Equal(t, domain.DefaultFallbackDoc, cfg.FallbackDoc, "unset fields keep defaults")
	assert.Equal(t, []string{"README.md", "docs/OVERVIEW.md"}, cfg.ReferenceDocs)
}

func TestYAMLLoader_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{{{invalid yaml`)

	_, err := appconfig.New().Load(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing .agentaudit.yaml")
}

func TestYAMLLoader_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `agents_dir: ../elsewhere`)

	_, err := appconfig.New().Load(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid .agentaudit.yaml")
}

func TestYAMLLoader_EmptyFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAuditConfig(), cfg)
}

func TestYAMLLoader_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agents_dir: custom\n"), 0644))

	cfg, err := appconfig.NewWithFile(path).Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.AgentsDir)
}

func TestYAMLLoader_ExplicitFileMissing(t *testing.T) {
	_, err := appconfig.NewWithFile(filepath.Join(t.TempDir(), "nope.yaml")).Load(t.TempDir())
	assert.Error(t, err)
}
