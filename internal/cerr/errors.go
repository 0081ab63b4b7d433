// Package cerr defines the compiler's error taxonomy: configuration
// errors, parse failures, binding failures, type-reference failures,
// resource exhaustion, and internal invariant violations. Only the
// first and the last two are ever fatal; the rest are recorded and the
// pipeline degrades gracefully around them.
package cerr

import (
	"fmt"
)

// Kind classifies an error along the taxonomy this compiler recognizes.
type Kind string

const (
	KindConfig        Kind = "config"
	KindParse         Kind = "parse"
	KindBinding       Kind = "binding"
	KindTypeReference Kind = "type_reference"
	KindResource      Kind = "resource"
	KindInvariant     Kind = "invariant"
)

// ConfigError reports an unrecognized or conflicting configuration
// option. Configuration errors are surfaced to the caller before any
// compile work begins — the pipeline is never started.
type ConfigError struct {
	Key        string
	Value      string
	Underlying error
}

func NewConfigError(key, value string, err error) *ConfigError {
	return &ConfigError{Key: key, Value: value, Underlying: err}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for %q=%q: %v", e.Key, e.Value, e.Underlying)
}

func (e *ConfigError) Unwrap() error { return e.Underlying }

// ParseError reports that a language's parser produced no tree for a
// file. The affected compile unit proceeds with an empty HIR; other
// units are unaffected.
type ParseError struct {
	Path       string
	Language   string
	Underlying error
}

func NewParseError(path, language string, err error) *ParseError {
	return &ParseError{Path: path, Language: language, Underlying: err}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s (%s): %v", e.Path, e.Language, e.Underlying)
}

func (e *ParseError) Unwrap() error { return e.Underlying }

// BindingError describes an identifier the binder could not resolve.
// The compiler never returns this as a hard failure — it leaves the
// HIR node's symbol slot empty and continues — but it is recorded so
// callers that want visibility into dangling references can get it
// through the diagnostics surface.
type BindingError struct {
	Name string
	Unit string
}

func NewBindingError(name, unit string) *BindingError {
	return &BindingError{Name: name, Unit: unit}
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("unresolved identifier %q in %s", e.Name, e.Unit)
}

// TypeReferenceError describes a parameter/field/return whose declared
// type could not be resolved to a symbol with a defining block. The
// block keeps its textual type_name and omits type_ref — this error
// exists purely for diagnostics.
type TypeReferenceError struct {
	TypeName string
	Unit     string
}

func NewTypeReferenceError(typeName, unit string) *TypeReferenceError {
	return &TypeReferenceError{TypeName: typeName, Unit: unit}
}

func (e *TypeReferenceError) Error() string {
	return fmt.Sprintf("unresolved type reference %q in %s", e.TypeName, e.Unit)
}

// ResourceError reports arena or interner exhaustion. It is always
// fatal: the owning compile context is unusable once raised.
type ResourceError struct {
	Resource   string
	Underlying error
}

func NewResourceError(resource string, err error) *ResourceError {
	return &ResourceError{Resource: resource, Underlying: err}
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource exhausted (%s): %v", e.Resource, e.Underlying)
}

func (e *ResourceError) Unwrap() error { return e.Underlying }

// InvariantError reports a violated internal invariant, typically
// recovered from a panicking worker goroutine so that a bug in one
// compile unit cannot take down the whole compile. Always indicates a
// bug in this compiler, not in the input source.
type InvariantError struct {
	Where string
	Cause any
}

func NewInvariantError(where string, cause any) *InvariantError {
	return &InvariantError{Where: where, Cause: cause}
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated in %s: %v", e.Where, e.Cause)
}

// MultiError aggregates independent errors from parallel work (e.g. one
// per compile unit) without losing any of them.
type MultiError struct {
	Errors []error
}

// NewMultiError collects non-nil errors into a MultiError. Returns nil
// if every error in errs is nil.
func NewMultiError(errs []error) error {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return &MultiError{Errors: filtered}
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

func (e *MultiError) Unwrap() []error { return e.Errors }
