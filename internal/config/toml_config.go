package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// tomlDoc mirrors the flat shape of a .llmcc.toml file.
type tomlDoc struct {
	Root           string   `toml:"root"`
	Lang           string   `toml:"lang"`
	Depth          *int     `toml:"depth"`
	PageRankTopK   int      `toml:"pagerank_top_k"`
	ClusterByCrate bool     `toml:"cluster_by_crate"`
	ShortLabels    bool     `toml:"short_labels"`
	Graph          *bool    `toml:"graph"`
	Include        []string `toml:"include"`
	Exclude        []string `toml:"exclude"`
}

// LoadTOML loads configuration from a .llmcc.toml file at path.
func LoadTOML(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc tomlDoc
	if err := toml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse TOML config: %w", err)
	}

	cfg := Default("")
	cfg.ProjectRoot = doc.Root
	cfg.Lang = doc.Lang
	cfg.PageRankTopK = doc.PageRankTopK
	cfg.ClusterByCrate = doc.ClusterByCrate
	cfg.ShortLabels = doc.ShortLabels
	if doc.Depth != nil {
		cfg.Depth = *doc.Depth
	}
	if doc.Graph != nil {
		cfg.Graph = *doc.Graph
	}
	if len(doc.Include) > 0 {
		cfg.Include = doc.Include
	}
	if len(doc.Exclude) > 0 {
		cfg.Exclude = doc.Exclude
	}

	resolveRoot(cfg, filepath.Dir(path))
	return cfg, nil
}
