//go:build extra

package buildflags

//pathstr:derive
//pathstr:path prefix=extra
type Extra int

const ExtraOne Extra = 1
