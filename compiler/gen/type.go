package gen

import (
	"errors"
	"fmt"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/syssam/pathstr"
	"github.com/syssam/pathstr/compiler/load"
)

// The following types and their exported methods are used by the
// generator to render the Path methods.
type (
	// Package holds the derived enum types of one Go package.
	Package struct {
		*Config
		// Name is the package name.
		Name string
		// Path is the package import path.
		Path string
		// Dir is the package directory the output is written to.
		Dir string
		// Types holds the derived types in declaration order.
		Types []*Type
		// Ignored holds the declarations that carry pathstr directives
		// but no //pathstr:derive. The directives have no effect on them.
		Ignored []string
	}

	// Type is an enum type that gets a Path method.
	Type struct {
		// Name is the type name.
		Name string
		// Kind is either load.KindInteger or load.KindString.
		Kind load.Kind
		// Unsigned is set for unsigned integer types.
		Unsigned bool
		// Pos is the position of the type declaration.
		Pos string
		// Config is the path configuration read from //pathstr:path.
		Config PathConfig
		// Case is the canonical case style applied to the labels.
		// Empty means the constant names are used verbatim.
		Case string
		// Receiver is the receiver name of the generated method.
		Receiver string
		// Arms holds one switch arm per distinct constant value.
		Arms []*Arm
		// Skipped holds constants that repeat the value of an earlier one.
		// A switch cannot list the same value twice, so the first
		// declared name wins.
		Skipped []string
	}

	// PathConfig is the configuration of the //pathstr:path directive.
	PathConfig struct {
		// Prefix is required and placed before the "/".
		Prefix string
		// Suffix is optional and appended after the label.
		Suffix string
		// TrimPrefix is removed from each constant name before case conversion.
		TrimPrefix string
	}

	// Arm is one arm of the generated switch.
	Arm struct {
		// Variant is the constant identifier.
		Variant string
		// Label is the variant name after trimming and case conversion.
		Label string
		// Path is the returned string.
		Path string
	}
)

// NewPackage builds the derived types of a loaded package. All types
// are validated; the returned error joins every failure found.
func NewPackage(c *Config, p *load.Package) (*Package, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	pkg := &Package{
		Config: c,
		Name:   p.Name,
		Path:   p.Path,
		Dir:    p.Dir,
	}
	var errs []error
	for _, d := range p.Decls {
		if !d.Derived() {
			pkg.Ignored = append(pkg.Ignored, d.Name)
			continue
		}
		if !c.selected(d.Name) {
			continue
		}
		t, err := NewType(c, d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		pkg.Types = append(pkg.Types, t)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return pkg, nil
}

// NewType validates a declaration carrying //pathstr:derive and
// computes the path of each of its constants.
func NewType(c *Config, d *load.Decl) (*Type, error) {
	pos := d.Pos.String()
	if !d.Kind.Enumerable() {
		return nil, NewShapeError(d.Name, string(d.Kind), pos)
	}
	if len(d.Variants) == 0 {
		return nil, NewShapeError(d.Name, string(d.Kind)+" type without constants", pos)
	}
	if err := checkDirectives(d); err != nil {
		return nil, err
	}
	pc, err := pathConfig(d)
	if err != nil {
		return nil, err
	}
	style, err := caseStyle(c, d)
	if err != nil {
		return nil, err
	}
	t := &Type{
		Name:     d.Name,
		Kind:     d.Kind,
		Unsigned: d.Unsigned,
		Pos:      pos,
		Config:   pc,
		Case:     style,
	}
	conv, err := c.Casing.Lookup(style)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(d.Variants))
	for _, v := range d.Variants {
		if seen[v.Value] {
			t.Skipped = append(t.Skipped, v.Name)
			continue
		}
		seen[v.Value] = true
		label := strings.TrimPrefix(v.Name, pc.TrimPrefix)
		if conv != nil {
			label = conv(label)
		}
		if label == "" {
			return nil, &ConfigError{
				Type:    d.Name,
				Option:  pathstr.OptionTrimPrefix,
				Value:   pc.TrimPrefix,
				Message: fmt.Sprintf("label of %s is empty", v.Name),
			}
		}
		t.Arms = append(t.Arms, &Arm{
			Variant: v.Name,
			Label:   label,
			Path:    pc.Path(label),
		})
	}
	t.Receiver = receiver(d)
	return t, nil
}

// Path returns the path for a label.
func (pc PathConfig) Path(label string) string {
	return pc.Prefix + "/" + label + pc.Suffix
}

// Fallback returns the path prefix and suffix wrapped around the
// printed value of a constant the type does not declare.
func (t *Type) Fallback() (before, after string) {
	return t.Config.Prefix + "/" + t.Name + "(", ")" + t.Config.Suffix
}

// Paths returns the paths of all arms, in declaration order.
func (t *Type) Paths() []string {
	paths := make([]string, len(t.Arms))
	for i, a := range t.Arms {
		paths[i] = a.Path
	}
	return paths
}

// checkDirectives rejects unknown pathstr and casing directives and
// arguments to derive.
func checkDirectives(d *load.Decl) error {
	for _, dir := range d.Directives {
		switch {
		case dir.Is(pathstr.Tool, pathstr.Derive):
			if len(dir.Args) > 0 {
				return directiveError(d, dir, "derive takes no arguments")
			}
		case dir.Is(pathstr.Tool, pathstr.Path), dir.Is(pathstr.CaseTool, pathstr.SerializeAll):
		case dir.Tool == pathstr.Tool, dir.Tool == pathstr.CaseTool:
			return directiveError(d, dir, fmt.Sprintf("unknown directive %q", dir.Name))
		}
	}
	return nil
}

func pathConfig(d *load.Decl) (PathConfig, error) {
	var (
		pc   PathConfig
		seen = make(map[string]bool)
	)
	for _, dir := range d.Lookup(pathstr.Tool, pathstr.Path) {
		for _, arg := range dir.Args {
			key, value, ok := load.KeyValue(arg)
			if !ok {
				return pc, directiveError(d, dir, fmt.Sprintf("unexpected argument %q, want key=value", arg))
			}
			if seen[key] {
				return pc, directiveError(d, dir, fmt.Sprintf("duplicate option %q", key))
			}
			seen[key] = true
			switch key {
			case pathstr.OptionPrefix:
				pc.Prefix = value
			case pathstr.OptionSuffix:
				pc.Suffix = value
			case pathstr.OptionTrimPrefix:
				pc.TrimPrefix = value
			default:
				return pc, directiveError(d, dir, fmt.Sprintf("unknown option %q, want prefix, suffix or trimprefix", key))
			}
		}
	}
	if !seen[pathstr.OptionPrefix] {
		return pc, &ConfigError{
			Type:    d.Name,
			Option:  pathstr.OptionPrefix,
			Message: "missing required option prefix, add //pathstr:path prefix=<prefix>",
		}
	}
	return pc, nil
}

// caseStyle returns the canonical case style of the declaration.
func caseStyle(c *Config, d *load.Decl) (string, error) {
	dirs := d.Lookup(pathstr.CaseTool, pathstr.SerializeAll)
	style := c.Transform
	switch len(dirs) {
	case 0:
	case 1:
		if len(dirs[0].Args) != 1 {
			return "", directiveError(d, dirs[0], "want exactly one case style")
		}
		style = dirs[0].Args[0]
	default:
		return "", directiveError(d, dirs[1], "case style is already set")
	}
	if style == "" {
		return "", nil
	}
	if _, err := c.Casing.Lookup(style); err != nil {
		e := &DirectiveError{Type: d.Name, Message: "unknown case style", Cause: err}
		if len(dirs) > 0 {
			e.Directive, e.Pos = dirs[0].String(), dirs[0].Pos.String()
		}
		return "", e
	}
	canonical, _ := c.Casing.Canonical(style)
	return canonical, nil
}

func directiveError(d *load.Decl, dir *load.Directive, msg string) *DirectiveError {
	return &DirectiveError{
		Type:      d.Name,
		Directive: dir.String(),
		Pos:       dir.Pos.String(),
		Message:   msg,
	}
}

// receiver returns the receiver name of the generated method. It is the
// lower-cased first letter of the type name unless that is the blank
// identifier or collides with a constant name or a Go keyword.
func receiver(d *load.Decl) string {
	taken := make(map[string]bool, len(d.Variants))
	for _, v := range d.Variants {
		taken[v.Name] = true
	}
	r, _ := utf8.DecodeRuneInString(d.Name)
	candidates := []string{string(unicode.ToLower(r)), "v", "x", "_v"}
	for _, name := range candidates {
		if name != "_" && !taken[name] && !token.Lookup(name).IsKeyword() && name != d.Name {
			return name
		}
	}
	for i := 0; ; i++ {
		if name := fmt.Sprintf("_v%d", i); !taken[name] {
			return name
		}
	}
}
