package load

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"
	"unicode"

	"github.com/mattn/go-shellwords"
)

// Directive is a comment directive of the form:
//
//	//tool:name arg0 key0=value0 arg1 key1=value1
//
// Arguments are split with shell quoting rules, so quoted
// values may contain spaces.
type Directive struct {
	// Tool is the namespace before the colon.
	Tool string
	// Name is the first word after the colon.
	Name string
	// Args holds the remaining words.
	Args []string
	// Pos is the position of the comment.
	Pos token.Position
}

// String returns the directive as it is written in code.
func (d *Directive) String() string {
	if d == nil {
		return "<nil>"
	}
	s := "//" + d.Tool + ":" + d.Name
	if len(d.Args) > 0 {
		s += " " + strings.Join(d.Args, " ")
	}
	return s
}

// Is reports whether the directive belongs to tool and has the given name.
func (d *Directive) Is(tool, name string) bool {
	return d.Tool == tool && d.Name == name
}

// KeyValue splits an argument of the form key=value. Arguments
// without "=" are positional and return ok == false.
func KeyValue(arg string) (key, value string, ok bool) {
	return strings.Cut(arg, "=")
}

// ParseDirective parses a single comment text. It returns nil and no
// error if the comment is not a directive. Directives must not start
// with whitespace: "// pathstr:derive" is prose, "//pathstr:derive" is not.
func ParseDirective(text string) (*Directive, error) {
	text = strings.TrimPrefix(text, "//")
	if text == "" || unicode.IsSpace([]rune(text)[0]) {
		return nil, nil
	}
	tool, rest, found := strings.Cut(text, ":")
	if !found || tool == "" || strings.ContainsFunc(tool, unicode.IsSpace) {
		return nil, nil
	}
	p := shellwords.NewParser()
	args, err := p.Parse(rest)
	if err != nil {
		return nil, fmt.Errorf("parse arguments of //%s: %w", text, err)
	}
	if p.Position >= 0 {
		return nil, fmt.Errorf("parse arguments of //%s: unquoted %q", text, []rune(rest)[p.Position])
	}
	d := &Directive{Tool: tool}
	if len(args) > 0 {
		d.Name = args[0]
	}
	if len(args) > 1 {
		d.Args = args[1:]
	}
	return d, nil
}

// ParseDirectives returns the directives of the comment group that
// belong to one of the given tools, in source order. Comments of other
// tools are not parsed, so their syntax never causes an error here.
func ParseDirectives(fset *token.FileSet, group *ast.CommentGroup, tools ...string) ([]*Directive, error) {
	if group == nil {
		return nil, nil
	}
	var ds []*Directive
	for _, c := range group.List {
		if !hasToolPrefix(c.Text, tools) {
			continue
		}
		d, err := ParseDirective(c.Text)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fset.Position(c.Pos()), err)
		}
		if d == nil {
			continue
		}
		d.Pos = fset.Position(c.Pos())
		ds = append(ds, d)
	}
	return ds, nil
}

func hasToolPrefix(text string, tools []string) bool {
	for _, tool := range tools {
		if strings.HasPrefix(text, "//"+tool+":") {
			return true
		}
	}
	return false
}
