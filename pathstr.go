// Package pathstr generates canonical path strings for Go enums.
//
// An enum is a named integer or string type together with the typed
// constants declared for it. Annotate the type and run the pathstr tool
// through go generate:
//
//	//go:generate pathstr
//
//	// Page identifies a page of the settings UI.
//	//
//	//pathstr:derive
//	//pathstr:path prefix=pages suffix=.html
//	//casing:serialize_all snake_case
//	type Page int
//
//	const (
//		PageHome Page = iota
//		PageAccountSettings
//	)
//
// The tool writes a Path method for Page:
//
//	PageHome.Path()            // "pages/page_home.html"
//	PageAccountSettings.Path() // "pages/page_account_settings.html"
//
// The //pathstr:path directive is a marker: it only carries configuration
// and has no effect unless //pathstr:derive is present on the same type.
// The case style directive lives in its own "casing" namespace so other
// tools reading the same convention can share it.
package pathstr

// Pather is implemented by every type that pathstr derives a Path method for.
type Pather interface {
	// Path returns the canonical path of the value.
	Path() string
}

// Directive names recognized by the generator.
const (
	// Tool is the directive namespace of the generator.
	Tool = "pathstr"
	// Derive triggers generation for the annotated type: //pathstr:derive.
	Derive = "derive"
	// Path carries the path configuration: //pathstr:path prefix=p suffix=s.
	Path = "path"

	// CaseTool is the namespace of the case style convention.
	CaseTool = "casing"
	// SerializeAll selects the case style of all variants:
	// //casing:serialize_all snake_case.
	SerializeAll = "serialize_all"
)

// Options of the Path directive.
const (
	OptionPrefix     = "prefix"
	OptionSuffix     = "suffix"
	OptionTrimPrefix = "trimprefix"
)

// Header is the first line of every generated file.
const Header = "Code generated by pathstr. DO NOT EDIT."
