package treesitter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/allenanswerzq/llmcc/frontend/treesitter"
	"github.com/allenanswerzq/llmcc/internal/langregistry"
)

// TestAllLanguagesRegistered checks every language this package
// registers in its init is discoverable by tag and by at least one of
// its declared extensions.
func TestAllLanguagesRegistered(t *testing.T) {
	want := map[string]string{
		"go":         ".go",
		"rust":       ".rs",
		"python":     ".py",
		"javascript": ".js",
		"typescript": ".ts",
		"tsx":        ".tsx",
		"java":       ".java",
		"cpp":        ".cpp",
		"csharp":     ".cs",
		"php":        ".php",
		"zig":        ".zig",
	}

	for tag, ext := range want {
		byTag, ok := langregistry.ByTag(tag)
		require.True(t, ok, "tag %q should be registered", tag)
		require.Equal(t, tag, byTag.Tag())

		byExt, ok := langregistry.ByExtension(ext)
		require.True(t, ok, "extension %q should resolve a language", ext)
		require.Equal(t, tag, byExt.Tag())
	}
}

// TestGoAdapterParsesSource exercises the full path: a real
// tree-sitter grammar parses actual Go source and the result's root
// node reports the source_file kind id this adapter registered for
// hir.KindFile.
func TestGoAdapterParsesSource(t *testing.T) {
	lang, ok := langregistry.ByTag("go")
	require.True(t, ok)

	src := []byte("package main\n\nfunc greet(name string) {\n\tprintln(name)\n}\n")
	tree, err := lang.Parse(src)
	require.NoError(t, err)
	require.NotNil(t, tree)
	defer tree.Close()

	root := tree.Root()
	require.NotNil(t, root)
	require.True(t, lang.IsValidToken(root.Kind()), "source_file should be a registered token")
	require.Greater(t, root.ChildCount(), 0)
}

// TestRustAdapterParsesSource exercises the same real-grammar path for
// Rust, whose grammar carries the impl_item/trait_item constructs no
// other registered language has.
func TestRustAdapterParsesSource(t *testing.T) {
	lang, ok := langregistry.ByTag("rust")
	require.True(t, ok)

	src := []byte("struct Point { x: i32, y: i32 }\n\nimpl Point {\n    fn area(&self) -> i32 { self.x * self.y }\n}\n")
	tree, err := lang.Parse(src)
	require.NoError(t, err)
	require.NotNil(t, tree)
	defer tree.Close()

	root := tree.Root()
	require.NotNil(t, root)
	require.True(t, lang.IsValidToken(root.Kind()))
	require.Greater(t, root.ChildCount(), 0)
}

// TestUnregisteredTokenFallsBackSafely checks that a token id no
// langSpec ever assigns (the zero value, never handed out by
// IdForNodeKind per tree-sitter convention) is reported as invalid and
// has no token name, rather than panicking.
func TestUnregisteredTokenFallsBackSafely(t *testing.T) {
	lang, ok := langregistry.ByTag("zig")
	require.True(t, ok)

	require.False(t, lang.IsValidToken(0))
	_, ok = lang.TokenStr(0)
	require.False(t, ok)
}
