package bind

import "strings"

// extractImport recovers the local name a use/import node binds and
// the module path text it names, from that node's raw source span.
// Lookup is keyed by the owning language's tag; a language with no
// dedicated extractor falls back to the generic one. Each extractor
// runs over one already-isolated use/import node's span rather than a
// whole file's text.
func extractImport(tag, text string) (localName, modulePath string, ok bool) {
	switch tag {
	case "go":
		return extractGoImport(text)
	default:
		return extractGenericImport(text)
	}
}

// extractGoImport parses a single Go import_spec's source text: an
// optional alias identifier followed by a quoted import path, e.g.
// `"fmt"` or `csv "encoding/csv"`.
func extractGoImport(text string) (localName, modulePath string, ok bool) {
	text = strings.TrimSpace(text)
	start := strings.IndexByte(text, '"')
	end := strings.LastIndexByte(text, '"')
	if start < 0 || end <= start {
		return "", "", false
	}
	modulePath = text[start+1 : end]
	if modulePath == "" {
		return "", "", false
	}
	if alias := strings.TrimSpace(text[:start]); alias != "" && alias != "_" {
		localName = alias
	} else {
		localName = lastPathSegment(modulePath, "/")
	}
	if localName == "" {
		return "", "", false
	}
	return localName, modulePath, true
}

// extractGenericImport covers the "import NAME from MODULE" shape the
// test/fake language fixtures use, plus a bare "import MODULE" or
// "use MODULE;" shape for languages without a dedicated extractor,
// deriving a name from the last path segment in that case.
func extractGenericImport(text string) (localName, modulePath string, ok bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, ";")
	text = strings.TrimPrefix(text, "import ")
	text = strings.TrimPrefix(text, "use ")
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, " from "); idx >= 0 {
		localName = strings.TrimSpace(text[:idx])
		modulePath = unquote(strings.TrimSpace(text[idx+len(" from "):]))
	} else {
		modulePath = unquote(text)
		if strings.Contains(modulePath, "::") {
			localName = lastPathSegment(modulePath, "::")
		} else {
			localName = lastPathSegment(modulePath, "/")
		}
	}
	if localName == "" || modulePath == "" {
		return "", "", false
	}
	return localName, modulePath, true
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func lastPathSegment(path, sep string) string {
	idx := strings.LastIndex(path, sep)
	if idx < 0 {
		return path
	}
	return path[idx+len(sep):]
}
