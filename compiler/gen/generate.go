package gen

import (
	"bytes"
	"context"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/pathstr"
	"github.com/syssam/pathstr/compiler/load"
)

// JenniferGenerator renders the Path methods of a package using Jennifer.
// Jennifer tracks the imports of the generated file, so the strconv
// import is only added when a type needs it.
type JenniferGenerator struct {
	pkg *Package
}

// NewJenniferGenerator creates a generator for the given package.
func NewJenniferGenerator(p *Package) *JenniferGenerator {
	return &JenniferGenerator{pkg: p}
}

// File builds the generated file.
func (g *JenniferGenerator) File() *jen.File {
	f := g.newFile()
	for i, t := range g.pkg.Types {
		if i > 0 {
			f.Line()
		}
		g.genPath(f, t)
	}
	return f
}

// Source renders the generated file to Go source.
func (g *JenniferGenerator) Source() ([]byte, error) {
	var buf bytes.Buffer
	if err := g.File().Render(&buf); err != nil {
		return nil, NewGenerationError("render", g.pkg.Path, "", err)
	}
	return buf.Bytes(), nil
}

// newFile creates a new Jennifer file with the header comments.
func (g *JenniferGenerator) newFile() *jen.File {
	f := jen.NewFilePathName(g.pkg.Path, g.pkg.Name)
	f.HeaderComment(pathstr.Header)
	if g.pkg.Config != nil && g.pkg.Header != "" {
		f.HeaderComment(g.pkg.Header)
	}
	return f
}

// genPath generates:
//
//	// Path returns the path of the Page value.
//	func (p Page) Path() string {
//		switch p {
//		case PageHome:
//			return "pages/home.html"
//		default:
//			return "pages/Page(" + strconv.FormatInt(int64(p), 10) + ").html"
//		}
//	}
func (g *JenniferGenerator) genPath(f *jen.File, t *Type) {
	f.Commentf("Path returns the path of the %s value.", t.Name)
	f.Func().Params(jen.Id(t.Receiver).Id(t.Name)).Id("Path").Params().String().Block(
		jen.Switch(jen.Id(t.Receiver)).BlockFunc(func(grp *jen.Group) {
			for _, a := range t.Arms {
				grp.Case(jen.Id(a.Variant)).Block(jen.Return(jen.Lit(a.Path)))
			}
			grp.Default().Block(jen.Return(g.fallback(t)))
		}),
	)
}

// fallback returns the path expression of values without a constant.
func (g *JenniferGenerator) fallback(t *Type) jen.Code {
	before, after := t.Fallback()
	return jen.Lit(before).Op("+").Add(g.formatValue(t)).Op("+").Lit(after)
}

// formatValue returns the expression printing the receiver value.
func (g *JenniferGenerator) formatValue(t *Type) jen.Code {
	recv := jen.Id(t.Receiver)
	switch {
	case t.Kind == load.KindString:
		return jen.String().Call(recv)
	case t.Unsigned:
		return jen.Qual("strconv", "FormatUint").Call(jen.Uint64().Call(recv), jen.Lit(10))
	default:
		return jen.Qual("strconv", "FormatInt").Call(jen.Int64().Call(recv), jen.Lit(10))
	}
}

type (
	// Generator is the interface that wraps the Generate method.
	Generator interface {
		// Generate writes or checks the generated files of the packages.
		Generate(context.Context, []*Package) error
	}

	// The GenerateFunc type is an adapter to allow the use of ordinary
	// function as Generator. If f is a function with the appropriate signature,
	// GenerateFunc(f) is a Generator that calls f.
	GenerateFunc func(context.Context, []*Package) error

	// Hook defines the "generate middleware". A function that gets a Generator
	// and returns a Generator. For example:
	//
	//	hook := func(next gen.Generator) gen.Generator {
	//		return gen.GenerateFunc(func(ctx context.Context, pkgs []*gen.Package) error {
	//			fmt.Println("Generating", len(pkgs), "packages")
	//			return next.Generate(ctx, pkgs)
	//		})
	//	}
	Hook func(Generator) Generator
)

// Generate calls f(ctx, pkgs).
func (f GenerateFunc) Generate(ctx context.Context, pkgs []*Package) error {
	return f(ctx, pkgs)
}

// Chain wraps the generator with the hooks. The first hook is the outermost.
func Chain(g Generator, hooks ...Hook) Generator {
	for i := len(hooks) - 1; i >= 0; i-- {
		g = hooks[i](g)
	}
	return g
}
