package sourceset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allenanswerzq/llmcc/internal/block"
	"github.com/allenanswerzq/llmcc/internal/config"
	"github.com/allenanswerzq/llmcc/internal/hir"
	"github.com/allenanswerzq/llmcc/internal/langregistry"
	"github.com/allenanswerzq/llmcc/internal/parsetree"
	"github.com/allenanswerzq/llmcc/internal/sourceset"
)

type stubLang struct{ tag string }

func (l stubLang) Tag() string                            { return l.tag }
func (l stubLang) Parse(src []byte) (parsetree.Tree, error) { return nil, nil }
func (l stubLang) HirKind(uint16) hir.Kind                 { return hir.KindScope }
func (l stubLang) BlockKind(uint16) block.Kind             { return block.KindUndefined }
func (l stubLang) TokenStr(uint16) (string, bool)          { return "", false }
func (l stubLang) IsValidToken(uint16) bool                { return true }
func (l stubLang) NameField() uint16                       { return 0 }
func (l stubLang) TypeField() uint16                       { return 0 }
func (l stubLang) SupportedExtensions() []string           { return []string{".stub"} }

func init() {
	langregistry.Register(stubLang{tag: "stub"})
}

func TestDiscoverFiltersByIncludeExcludeAndExtension(t *testing.T) {
	root := t.TempDir()

	mustWrite(t, filepath.Join(root, "main.stub"), "x")
	mustWrite(t, filepath.Join(root, "README.md"), "x")
	mustWrite(t, filepath.Join(root, "vendor", "dep.stub"), "x")
	mustWrite(t, filepath.Join(root, "sub", "lib.stub"), "x")

	cfg := config.Default(root)

	files, err := sourceset.Discover(cfg)
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.Rel)
		require.Equal(t, "stub", f.Lang.Tag())
	}
	require.Equal(t, []string{"main.stub", "sub/lib.stub"}, rels)
}

func TestDiscoverForcedLanguage(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "main.stub"), "x")

	cfg := config.Default(root)
	cfg.Lang = "stub"

	files, err := sourceset.Discover(cfg)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "stub", files[0].Lang.Tag())
}

func TestDiscoverUnknownProjectRoot(t *testing.T) {
	cfg := config.Default(filepath.Join(t.TempDir(), "does-not-exist"))
	_, err := sourceset.Discover(cfg)
	require.Error(t, err)
}

func mustWrite(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}
