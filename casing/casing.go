// Package casing converts Go identifiers between naming conventions.
//
// Converters are kept in a Registry keyed by style name, so generators
// depend on the registry and not on one case conversion library. The
// default registry knows the common styles. All word based styles split
// identifiers the same way, so acronyms become one word:
//
//	verbatim              VariantOne
//	lowercase             variantone
//	UPPERCASE             VARIANTONE
//	PascalCase            VariantOne
//	camelCase             variantOne
//	snake_case            variant_one
//	SCREAMING_SNAKE_CASE  VARIANT_ONE
//	kebab-case            variant-one
//	SCREAMING-KEBAB-CASE  VARIANT-ONE
//	Title Case            Variant One
//	Train-Case            Variant-One
//
//	snake_case            HTTPServer -> http_server
//	camelCase             HTTPServer -> httpServer
//	Title Case            HTTPServer -> Http Server
package casing

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Canonical style names.
const (
	Verbatim           = "verbatim"
	Lowercase          = "lowercase"
	Uppercase          = "UPPERCASE"
	PascalCase         = "PascalCase"
	CamelCase          = "camelCase"
	SnakeCase          = "snake_case"
	ScreamingSnakeCase = "SCREAMING_SNAKE_CASE"
	KebabCase          = "kebab-case"
	ScreamingKebabCase = "SCREAMING-KEBAB-CASE"
	TitleCase          = "Title Case"
	TrainCase          = "Train-Case"
)

// ErrUnknownStyle is returned for style names that are not registered.
var ErrUnknownStyle = errors.New("casing: unknown style")

// Converter converts an identifier to a naming convention.
type Converter func(string) string

// Registry maps style names and their aliases to converters.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	convs  map[string]Converter
	styles map[string]string // name or alias -> canonical name
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		convs:  make(map[string]Converter),
		styles: make(map[string]string),
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry holding the built-in styles.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		registerBuiltins(defaultRegistry)
	})
	return defaultRegistry
}

// Register adds a converter under the given canonical name and aliases.
// Names are matched exactly; registering a taken name is an error.
func (r *Registry) Register(name string, conv Converter, aliases ...string) error {
	if name == "" {
		return errors.New("casing: style name cannot be empty")
	}
	if conv == nil {
		return fmt.Errorf("casing: nil converter for style %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := append([]string{name}, aliases...)
	for _, k := range keys {
		if k == "" {
			return fmt.Errorf("casing: empty alias for style %q", name)
		}
		if owner, ok := r.styles[k]; ok {
			return fmt.Errorf("casing: %q is already registered for style %q", k, owner)
		}
	}
	r.convs[name] = conv
	for _, k := range keys {
		r.styles[k] = name
	}
	return nil
}

// Lookup returns the converter registered for the name or alias.
// The empty name returns nil and no error, meaning no conversion.
func (r *Registry) Lookup(name string) (Converter, error) {
	if name == "" {
		return nil, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	canonical, ok := r.styles[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownStyle, name)
	}
	return r.convs[canonical], nil
}

// Canonical returns the canonical name for a style name or alias.
func (r *Registry) Canonical(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	canonical, ok := r.styles[name]
	return canonical, ok
}

// Convert converts ident to the given style. The empty style returns
// ident unchanged.
func (r *Registry) Convert(style, ident string) (string, error) {
	conv, err := r.Lookup(style)
	if err != nil {
		return "", err
	}
	if conv == nil {
		return ident, nil
	}
	return conv(ident), nil
}

// Styles returns the canonical style names in sorted order.
func (r *Registry) Styles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.convs))
	for name := range r.convs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Convert converts ident using the default registry.
func Convert(style, ident string) (string, error) {
	return Default().Convert(style, ident)
}

// words splits an identifier into lower-cased words. Every word based
// style starts from this split, so "HTTPServer" is always the two words
// "http" and "server".
func words(s string) []string {
	return strings.Fields(strcase.ToDelimited(s, ' '))
}

// titled joins the words of s with sep, upper-casing the first letter
// of each word except the first one when lowerFirst is set.
func titled(s, sep string, lowerFirst bool) string {
	ws := words(s)
	// A cases.Caser keeps state between calls, so every call gets its own.
	title := cases.Title(language.Und)
	for i, w := range ws {
		if i == 0 && lowerFirst {
			continue
		}
		ws[i] = title.String(w)
	}
	return strings.Join(ws, sep)
}

func registerBuiltins(r *Registry) {
	lower := func(s string) string { return cases.Lower(language.Und).String(s) }
	upper := func(s string) string { return cases.Upper(language.Und).String(s) }
	builtins := []struct {
		name    string
		conv    Converter
		aliases []string
	}{
		{Verbatim, func(s string) string { return s }, []string{"none"}},
		{Lowercase, lower, []string{"lower"}},
		{Uppercase, upper, []string{"upper"}},
		{PascalCase, func(s string) string { return titled(s, "", false) }, []string{"pascal", "UpperCamelCase"}},
		{CamelCase, func(s string) string { return titled(s, "", true) }, []string{"camel", "lowerCamelCase"}},
		{SnakeCase, strcase.ToSnake, []string{"snake"}},
		{ScreamingSnakeCase, strcase.ToScreamingSnake, []string{"snake_upper", "snake-upper"}},
		{KebabCase, strcase.ToKebab, []string{"kebab"}},
		{ScreamingKebabCase, strcase.ToScreamingKebab, []string{"kebab_upper", "kebab-upper"}},
		{TitleCase, func(s string) string { return titled(s, " ", false) }, []string{"title"}},
		{TrainCase, func(s string) string { return titled(s, "-", false) }, []string{"train"}},
	}
	for _, b := range builtins {
		if err := r.Register(b.name, b.conv, b.aliases...); err != nil {
			panic(err)
		}
	}
}
