package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allenanswerzq/llmcc/internal/config"
)

func TestLoadFallsBackToDefaultWhenNoConfigFilePresent(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Depth)
	require.True(t, cfg.Graph)
	require.Equal(t, dir, cfg.ProjectRoot)
}

func TestLoadKDLParsesRecognizedKeys(t *testing.T) {
	dir := t.TempDir()
	kdlPath := filepath.Join(dir, ".llmcc.kdl")
	content := `
project {
    root "."
}
lang "go"
depth 2
pagerank_top_k 10
cluster_by_crate true
short_labels true
graph false
include {
    "**/*.go"
}
exclude {
    "**/testdata/**"
}
`
	require.NoError(t, os.WriteFile(kdlPath, []byte(content), 0644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.Equal(t, "go", cfg.Lang)
	require.Equal(t, 2, cfg.Depth)
	require.Equal(t, 10, cfg.PageRankTopK)
	require.True(t, cfg.ClusterByCrate)
	require.True(t, cfg.ShortLabels)
	require.False(t, cfg.Graph)
	require.Equal(t, []string{"**/*.go"}, cfg.Include)
	require.Equal(t, []string{"**/testdata/**"}, cfg.Exclude)
	require.Equal(t, dir, cfg.ProjectRoot)
}

func TestLoadTOMLParsesRecognizedKeys(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, ".llmcc.toml")
	content := `
lang = "rust"
depth = 1
pagerank_top_k = 5
cluster_by_crate = true
include = ["src/**"]
`
	require.NoError(t, os.WriteFile(tomlPath, []byte(content), 0644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.Equal(t, "rust", cfg.Lang)
	require.Equal(t, 1, cfg.Depth)
	require.Equal(t, 5, cfg.PageRankTopK)
	require.True(t, cfg.ClusterByCrate)
	require.Equal(t, []string{"src/**"}, cfg.Include)
}

func TestKDLTakesPrecedenceOverTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".llmcc.kdl"), []byte(`lang "go"`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".llmcc.toml"), []byte(`lang = "rust"`), 0644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.Equal(t, "go", cfg.Lang)
}

func TestLoadExplicitFilePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`lang = "python"`), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "python", cfg.Lang)
}

func TestDefaultExclusionsAppliedWhenExcludeOmitted(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".llmcc.kdl"), []byte(`lang "go"`), 0644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.Contains(t, cfg.Exclude, "**/vendor/**")
}
