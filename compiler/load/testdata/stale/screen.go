package stale

//pathstr:derive
//pathstr:path prefix=screens
type Screen int

const ScreenMain Screen = 0
