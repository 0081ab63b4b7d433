// Package langregistry defines the per-language trait the rest of the
// compiler is built against, plus a process-wide registry of
// languages keyed by tag ("go", "rust", "typescript", ...) and by file
// extension. frontend/treesitter is the one concrete implementation
// shipped with this module; adding a language means implementing
// Language and calling Register.
package langregistry

import (
	"sync"

	"github.com/allenanswerzq/llmcc/internal/block"
	"github.com/allenanswerzq/llmcc/internal/hir"
	"github.com/allenanswerzq/llmcc/internal/parsetree"
)

// Language is the trait a language frontend implements. The core
// compiler depends only on this interface, never on a concrete parser.
type Language interface {
	// Tag is this language's short identifier, e.g. "go", "rust".
	Tag() string

	// Parse produces a parse tree for src, or nil plus an error if the
	// source could not be parsed at all (a recoverable ParseError
	// condition, not a panic).
	Parse(src []byte) (parsetree.Tree, error)

	// HirKind maps a raw parser token id to the HIR Kind it represents.
	HirKind(tokenID uint16) hir.Kind

	// BlockKind maps a raw parser token id to the coarser Kind the
	// block builder should emit for it.
	BlockKind(tokenID uint16) block.Kind

	// TokenStr returns this language's human-readable name for
	// tokenID, if the language registry tracks one (useful for
	// diagnostics); ok is false otherwise.
	TokenStr(tokenID uint16) (name string, ok bool)

	// IsValidToken reports whether tokenID is one this language
	// recognizes at all. An unrecognized token makes the HIR builder
	// fall back to hir.KindInternal.
	IsValidToken(tokenID uint16) bool

	// NameField and TypeField return the grammar field ids used to
	// find a node's name/type child via parsetree.Node.FieldChild.
	NameField() uint16
	TypeField() uint16

	// SupportedExtensions lists the file extensions (with leading
	// dot, e.g. ".go") this language claims by default.
	SupportedExtensions() []string
}

var (
	mu          sync.RWMutex
	byTag       = map[string]Language{}
	byExtension = map[string]Language{}
)

// Register adds lang to the process-wide registry under its Tag and
// every extension in SupportedExtensions. A later Register for the
// same tag or extension overrides the earlier one.
func Register(lang Language) {
	mu.Lock()
	defer mu.Unlock()

	byTag[lang.Tag()] = lang
	for _, ext := range lang.SupportedExtensions() {
		byExtension[ext] = lang
	}
}

// ByTag looks up a language by its registered tag.
func ByTag(tag string) (Language, bool) {
	mu.RLock()
	defer mu.RUnlock()
	lang, ok := byTag[tag]
	return lang, ok
}

// ByExtension looks up a language by file extension (with leading
// dot, e.g. ".rs").
func ByExtension(ext string) (Language, bool) {
	mu.RLock()
	defer mu.RUnlock()
	lang, ok := byExtension[ext]
	return lang, ok
}

// Tags returns every registered language tag, for diagnostics and CLI
// help text.
func Tags() []string {
	mu.RLock()
	defer mu.RUnlock()
	tags := make([]string, 0, len(byTag))
	for tag := range byTag {
		tags = append(tags, tag)
	}
	return tags
}
