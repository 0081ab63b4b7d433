// Package config loads the compiler's configuration: the six recognized
// keys from .llmcc.kdl or .llmcc.toml, plus the include/exclude globs
// that drive internal/sourceset's file discovery.
package config

import (
	"os"
	"path/filepath"

	"github.com/allenanswerzq/llmcc/internal/cerr"
)

// Config holds everything a compile run needs beyond the source files
// themselves.
type Config struct {
	// ProjectRoot is the absolute directory the compile is rooted at.
	ProjectRoot string

	// Lang forces every matched file to a single language, bypassing
	// extension-based inference. Empty means infer per file.
	Lang string

	// Depth selects graph emission granularity: 0 (project), 1 (crate),
	// 2 (module), 3 (file+symbol).
	Depth int

	// PageRankTopK, when > 0, prunes emitted nodes to the top-K by
	// PageRank score. 0 disables pruning.
	PageRankTopK int

	// ClusterByCrate groups module nodes under a DOT subgraph per
	// parent crate.
	ClusterByCrate bool

	// ShortLabels emits only the last path component in node labels.
	ShortLabels bool

	// Graph enables DOT emission. When false the compile context is
	// still built (bindings, block graph) but nothing is printed.
	Graph bool

	// Include and Exclude are doublestar glob patterns, relative to
	// ProjectRoot, that internal/sourceset applies when walking for
	// source files. An empty Include matches everything.
	Include []string
	Exclude []string
}

// Default returns the configuration used when no config file is found.
func Default(projectRoot string) *Config {
	return &Config{
		ProjectRoot: projectRoot,
		Depth:       3,
		Graph:       true,
		Include:     []string{"**"},
		Exclude:     DefaultExclusions(),
	}
}

// DefaultExclusions lists glob patterns excluded even when Exclude is
// left unset: build output and vendored dependency trees that are
// never useful to project architecturally.
func DefaultExclusions() []string {
	return []string{
		"**/.git/**",
		"**/node_modules/**",
		"**/vendor/**",
		"**/target/**",
		"**/dist/**",
		"**/build/**",
	}
}

// Load resolves configuration for projectRoot. It tries .llmcc.kdl
// first, then .llmcc.toml, falling back to Default if neither file is
// present. A path to an explicit config file (KDL or TOML, selected by
// extension) may be passed instead of a directory.
func Load(projectRoot string) (*Config, error) {
	info, err := os.Stat(projectRoot)
	if err == nil && !info.IsDir() {
		return loadFile(projectRoot)
	}

	kdlPath := filepath.Join(projectRoot, ".llmcc.kdl")
	if _, err := os.Stat(kdlPath); err == nil {
		return LoadKDL(kdlPath)
	}

	tomlPath := filepath.Join(projectRoot, ".llmcc.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		return LoadTOML(tomlPath)
	}

	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = projectRoot
	}
	return Default(abs), nil
}

func loadFile(path string) (*Config, error) {
	switch filepath.Ext(path) {
	case ".kdl":
		return LoadKDL(path)
	case ".toml":
		return LoadTOML(path)
	default:
		return nil, cerr.NewConfigError("path", path, os.ErrInvalid)
	}
}

// resolveRoot makes cfg.ProjectRoot absolute, resolving relative paths
// against the directory containing the config file that set it.
func resolveRoot(cfg *Config, configDir string) {
	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = configDir
		return
	}
	if filepath.IsAbs(cfg.ProjectRoot) {
		cfg.ProjectRoot = filepath.Clean(cfg.ProjectRoot)
		return
	}
	cfg.ProjectRoot = filepath.Clean(filepath.Join(configDir, cfg.ProjectRoot))
}
