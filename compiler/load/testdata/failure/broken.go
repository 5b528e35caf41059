package failure

//pathstr:derive
//pathstr:path prefix=broken
type Broken int

const BrokenOne Broken = undefinedValue
