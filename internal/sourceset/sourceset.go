// Package sourceset discovers the source files a compile run should
// parse: walk the project root, keep what the config's include globs
// match and the exclude globs don't, and resolve each survivor to a
// registered language by extension.
//
// This package leans on github.com/bmatcuk/doublestar/v4 for **
// recursive-glob matching rather than hand-rolling a glob-to-regex
// optimizer for the same "does this path match a pattern" problem.
package sourceset

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/allenanswerzq/llmcc/internal/cerr"
	"github.com/allenanswerzq/llmcc/internal/config"
	"github.com/allenanswerzq/llmcc/internal/langregistry"
)

// File is one discovered source file.
type File struct {
	// Path is absolute.
	Path string
	// Rel is Path relative to the project root, forward-slash
	// separated, used for matching and for the module label the
	// emitter displays.
	Rel string
	Lang langregistry.Language
}

// Discover walks cfg.ProjectRoot and returns every file that matches
// cfg.Include and none of cfg.Exclude, in deterministic (lexical path)
// order, resolved to a registered language by extension.
//
// A file whose extension matches no registered language is silently
// skipped: this compiler only has opinions about source files it can
// parse.
func Discover(cfg *config.Config) ([]File, error) {
	root := cfg.ProjectRoot
	info, err := os.Stat(root)
	if err != nil {
		return nil, cerr.NewResourceError("stat "+root, err)
	}
	if !info.IsDir() {
		return nil, cerr.NewConfigError("project_root", root, os.ErrInvalid)
	}

	include := cfg.Include
	if len(include) == 0 {
		include = []string{"**"}
	}

	var out []File
	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if matchesAny(cfg.Exclude, rel+"/") || matchesAny(cfg.Exclude, rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !matchesAny(include, rel) {
			return nil
		}
		if matchesAny(cfg.Exclude, rel) {
			return nil
		}

		lang := languageFor(cfg, rel)
		if lang == nil {
			return nil
		}

		out = append(out, File{Path: path, Rel: rel, Lang: lang})
		return nil
	})
	if walkErr != nil {
		return nil, cerr.NewResourceError("walk "+root, walkErr)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Rel < out[j].Rel })
	return out, nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// languageFor resolves rel's language: cfg.Lang forces every file to
// one tag (returning nil if that tag isn't registered), otherwise the
// file's extension is looked up in the language registry.
func languageFor(cfg *config.Config, rel string) langregistry.Language {
	if cfg.Lang != "" {
		lang, _ := langregistry.ByTag(cfg.Lang)
		return lang
	}
	ext := filepath.Ext(rel)
	lang, _ := langregistry.ByExtension(ext)
	return lang
}
