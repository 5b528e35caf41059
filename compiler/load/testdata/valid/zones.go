package valid

//pathstr:derive
//pathstr:path prefix=zones
type Zone int

const ZoneEU Zone = 1
