// Package load reads Go packages and extracts the declarations
// annotated with pathstr directives.
package load

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/syssam/pathstr"
	"github.com/syssam/pathstr/internal/logger"
)

// Kind describes the shape of an annotated declaration.
type Kind string

// Declaration kinds. Only KindInteger and KindString can form enums.
const (
	KindInteger   Kind = "integer"
	KindString    Kind = "string"
	KindBool      Kind = "bool"
	KindFloat     Kind = "float"
	KindComplex   Kind = "complex"
	KindStruct    Kind = "struct"
	KindInterface Kind = "interface"
	KindPointer   Kind = "pointer"
	KindSlice     Kind = "slice"
	KindArray     Kind = "array"
	KindMap       Kind = "map"
	KindChan      Kind = "chan"
	KindSignature Kind = "func type"
	KindAlias     Kind = "type alias"
	KindGeneric   Kind = "generic type"
	KindFunc      Kind = "func"
	KindVar       Kind = "var"
	KindConst     Kind = "const"
	KindUnknown   Kind = "unknown"
)

// Enumerable reports whether a named type of this kind can carry constants.
func (k Kind) Enumerable() bool {
	return k == KindInteger || k == KindString
}

type (
	// Package is a loaded Go package and its annotated declarations.
	Package struct {
		// Name is the package name.
		Name string
		// Path is the import path.
		Path string
		// Dir is the directory holding the package files.
		Dir string
		// Decls holds the annotated declarations in declaration order.
		Decls []*Decl
	}

	// Decl is a declaration whose doc comment carries pathstr directives.
	Decl struct {
		// Name of the declared identifier.
		Name string
		// Kind of the declaration.
		Kind Kind
		// Unsigned is set for unsigned integer types.
		Unsigned bool
		// Pos of the declared identifier.
		Pos token.Position
		// Directives of the doc comment, in source order.
		Directives []*Directive
		// Variants are the constants declared with this exact type,
		// in declaration order. Empty for anything but named types.
		Variants []*Variant
	}

	// Variant is a typed constant of an annotated type.
	Variant struct {
		// Name is the constant identifier.
		Name string
		// Value is the exact constant value, as printed by go/constant.
		Value string
		// Pos of the constant identifier.
		Pos token.Position
	}
)

// Lookup returns the directives with the given tool and name.
func (d *Decl) Lookup(tool, name string) []*Directive {
	var ds []*Directive
	for _, dir := range d.Directives {
		if dir.Is(tool, name) {
			ds = append(ds, dir)
		}
	}
	return ds
}

// Derived reports whether the declaration carries //pathstr:derive.
func (d *Decl) Derived() bool {
	return len(d.Lookup(pathstr.Tool, pathstr.Derive)) > 0
}

// Config configures package loading.
type Config struct {
	// Dir is the working directory patterns are resolved from.
	Dir string
	// Tags are build tags used when loading.
	Tags []string
	// Output is the base name of the generated file. Type errors
	// reported inside it are ignored, since it is about to be replaced.
	Output string
}

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

// Load loads the packages matching the patterns and inspects them.
func Load(ctx context.Context, cfg *Config, patterns ...string) ([]*Package, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	pcfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     cfg.Dir,
	}
	if len(cfg.Tags) > 0 {
		pcfg.BuildFlags = []string{"-tags=" + strings.Join(cfg.Tags, ",")}
	}
	pkgs, err := packages.Load(pcfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages %v: %w", patterns, err)
	}
	log := logger.FromContext(ctx)
	loaded := make([]*Package, 0, len(pkgs))
	for _, p := range pkgs {
		if err := packageErrors(p, cfg.Output, log.Debug); err != nil {
			return nil, err
		}
		pkg, err := Inspect(p.Fset, p.Syntax, p.TypesInfo, p.Types)
		if err != nil {
			return nil, fmt.Errorf("inspect %s: %w", p.PkgPath, err)
		}
		if len(p.GoFiles) > 0 {
			pkg.Dir = filepath.Dir(p.GoFiles[0])
		}
		log.Debug("loaded package", "package", pkg.Path, "decls", len(pkg.Decls))
		loaded = append(loaded, pkg)
	}
	return loaded, nil
}

// Dirs returns the directories of the packages matching the patterns.
// Packages are not type-checked, so broken packages are still listed.
func Dirs(ctx context.Context, cfg *Config, patterns ...string) ([]string, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	pcfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles,
		Dir:     cfg.Dir,
	}
	if len(cfg.Tags) > 0 {
		pcfg.BuildFlags = []string{"-tags=" + strings.Join(cfg.Tags, ",")}
	}
	pkgs, err := packages.Load(pcfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages %v: %w", patterns, err)
	}
	var dirs []string
	seen := make(map[string]bool)
	for _, p := range pkgs {
		files := slices.Concat(p.GoFiles, p.IgnoredFiles)
		if len(files) == 0 {
			continue
		}
		if dir := filepath.Dir(files[0]); !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// packageErrors joins the errors of a loaded package, skipping errors
// located in the generated output file. The go command reports the
// compile failure of a package once more as a list error, without a
// position, so those are matched on the positions in their message.
func packageErrors(p *packages.Package, output string, debug func(string, ...any)) error {
	var errs []error
	for _, e := range p.Errors {
		if output != "" && inOutput(e, output) {
			debug("ignoring error in generated file", "package", p.PkgPath, "error", e.Msg)
			continue
		}
		errs = append(errs, e)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("load %s: %w", p.PkgPath, errors.Join(errs...))
}

func inOutput(e packages.Error, output string) bool {
	switch e.Kind {
	case packages.TypeError:
		return errorFile(e.Pos) == output
	case packages.ListError:
		return e.Pos == "" && listedIn(e.Msg, output)
	default:
		return false
	}
}

// listedIn reports whether every line of a go list compile failure
// points into file:
//
//	# example.com/pkg
//	./pathstr_gen.go:12:7: undefined: PageRemoved
func listedIn(msg, file string) bool {
	found := false
	for _, line := range strings.Split(msg, "\n") {
		switch {
		case strings.TrimSpace(line) == "",
			strings.HasPrefix(line, "#"),
			strings.HasPrefix(line, "\t"),
			line == "too many errors":
			continue
		}
		pos, _, ok := strings.Cut(line, ": ")
		if !ok || errorFile(pos) != file {
			return false
		}
		found = true
	}
	return found
}

// errorFile returns the base file name of a "file:line:col" position.
func errorFile(pos string) string {
	file := pos
	// Strip ":line:col" (and ":line"), keeping drive letters intact.
	for range 2 {
		i := strings.LastIndex(file, ":")
		if i < 0 {
			break
		}
		if strings.Trim(file[i+1:], "0123456789") != "" {
			break
		}
		file = file[:i]
	}
	return filepath.Base(file)
}

// Inspect extracts the annotated declarations of a type-checked package.
// Files are visited in file name order, so the result does not depend on
// the order the files were handed in.
func Inspect(fset *token.FileSet, files []*ast.File, info *types.Info, tpkg *types.Package) (*Package, error) {
	if tpkg == nil || info == nil {
		return nil, errors.New("package is not type-checked")
	}
	files = sortedFiles(fset, files)
	pkg := &Package{
		Name: tpkg.Name(),
		Path: tpkg.Path(),
	}
	consts := typedConsts(fset, files, info)
	for _, f := range files {
		for _, decl := range f.Decls {
			ds, err := inspectDecl(fset, decl, info, consts)
			if err != nil {
				return nil, err
			}
			pkg.Decls = append(pkg.Decls, ds...)
		}
	}
	return pkg, nil
}

func sortedFiles(fset *token.FileSet, files []*ast.File) []*ast.File {
	sorted := make([]*ast.File, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool {
		return fset.Position(sorted[i].Package).Filename < fset.Position(sorted[j].Package).Filename
	})
	return sorted
}

// typedConsts collects the constants of every named type, in declaration order.
func typedConsts(fset *token.FileSet, files []*ast.File, info *types.Info) map[*types.TypeName][]*Variant {
	consts := make(map[*types.TypeName][]*Variant)
	for _, f := range files {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.CONST {
				continue
			}
			for _, spec := range gd.Specs {
				for _, name := range spec.(*ast.ValueSpec).Names {
					if name.Name == "_" {
						continue
					}
					c, ok := info.Defs[name].(*types.Const)
					if !ok {
						continue
					}
					named, ok := types.Unalias(c.Type()).(*types.Named)
					if !ok {
						continue
					}
					consts[named.Obj()] = append(consts[named.Obj()], &Variant{
						Name:  name.Name,
						Value: c.Val().ExactString(),
						Pos:   fset.Position(name.Pos()),
					})
				}
			}
		}
	}
	return consts
}

var tools = []string{pathstr.Tool, pathstr.CaseTool}

func inspectDecl(fset *token.FileSet, decl ast.Decl, info *types.Info, consts map[*types.TypeName][]*Variant) ([]*Decl, error) {
	switch decl := decl.(type) {
	case *ast.FuncDecl:
		dirs, err := ParseDirectives(fset, decl.Doc, tools...)
		if err != nil || len(dirs) == 0 {
			return nil, err
		}
		return []*Decl{{
			Name:       decl.Name.Name,
			Kind:       KindFunc,
			Pos:        fset.Position(decl.Name.Pos()),
			Directives: dirs,
		}}, nil
	case *ast.GenDecl:
		var decls []*Decl
		for _, spec := range decl.Specs {
			doc := specDoc(spec)
			// The declaration comment documents the spec only when
			// the declaration is not a parenthesized group.
			if doc == nil && !decl.Lparen.IsValid() {
				doc = decl.Doc
			}
			dirs, err := ParseDirectives(fset, doc, tools...)
			if err != nil {
				return nil, err
			}
			if len(dirs) == 0 {
				continue
			}
			d := &Decl{Directives: dirs}
			switch spec := spec.(type) {
			case *ast.TypeSpec:
				d.Name = spec.Name.Name
				d.Pos = fset.Position(spec.Name.Pos())
				inspectType(d, spec, info, consts)
			case *ast.ValueSpec:
				d.Name = spec.Names[0].Name
				d.Pos = fset.Position(spec.Names[0].Pos())
				d.Kind = KindVar
				if decl.Tok == token.CONST {
					d.Kind = KindConst
				}
			default:
				continue
			}
			decls = append(decls, d)
		}
		return decls, nil
	}
	return nil, nil
}

func specDoc(spec ast.Spec) *ast.CommentGroup {
	switch spec := spec.(type) {
	case *ast.TypeSpec:
		return spec.Doc
	case *ast.ValueSpec:
		return spec.Doc
	}
	return nil
}

func inspectType(d *Decl, spec *ast.TypeSpec, info *types.Info, consts map[*types.TypeName][]*Variant) {
	switch {
	case spec.Assign.IsValid():
		d.Kind = KindAlias
		return
	case spec.TypeParams != nil && spec.TypeParams.NumFields() > 0:
		d.Kind = KindGeneric
		return
	}
	obj, ok := info.Defs[spec.Name].(*types.TypeName)
	if !ok {
		d.Kind = KindUnknown
		return
	}
	d.Kind, d.Unsigned = kindOf(obj.Type().Underlying())
	d.Variants = consts[obj]
}

func kindOf(t types.Type) (Kind, bool) {
	switch t := t.(type) {
	case *types.Basic:
		info := t.Info()
		switch {
		case info&types.IsInteger != 0:
			return KindInteger, info&types.IsUnsigned != 0
		case info&types.IsString != 0:
			return KindString, false
		case info&types.IsBoolean != 0:
			return KindBool, false
		case info&types.IsFloat != 0:
			return KindFloat, false
		case info&types.IsComplex != 0:
			return KindComplex, false
		}
	case *types.Struct:
		return KindStruct, false
	case *types.Interface:
		return KindInterface, false
	case *types.Pointer:
		return KindPointer, false
	case *types.Slice:
		return KindSlice, false
	case *types.Array:
		return KindArray, false
	case *types.Map:
		return KindMap, false
	case *types.Chan:
		return KindChan, false
	case *types.Signature:
		return KindSignature, false
	}
	return KindUnknown, false
}
