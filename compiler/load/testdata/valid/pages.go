package valid

// Page is a page of the site.
//
//pathstr:derive
//pathstr:path prefix=pages suffix=.html trimprefix=Page
//casing:serialize_all snake_case
type Page int

const (
	PageHome Page = iota
	PageAboutUs
	PageContact
)

// PageDefault is an alias of PageHome.
const PageDefault = PageHome

type (
	// Lang is a documentation language.
	//
	//pathstr:derive
	//pathstr:path prefix="docs/lang"
	Lang string

	// Size has a path directive but no derive.
	//
	//pathstr:path prefix=sizes
	Size uint8
)

const (
	LangGo   Lang = "go"
	LangRust Lang = "rust"
)

const (
	Small Size = iota
	Large
)

// Level is unsigned.
//
//pathstr:derive
//pathstr:path prefix=levels
type Level uint16

const (
	_ Level = iota
	LevelLow
	LevelHigh
)

// Point is not an enum.
//
//pathstr:derive
type Point struct{ X, Y int }

// Plain is not annotated.
type Plain int

const PlainOne Plain = 1
