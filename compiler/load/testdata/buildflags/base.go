package buildflags

//pathstr:derive
//pathstr:path prefix=base
type Base int

const BaseOne Base = 1
