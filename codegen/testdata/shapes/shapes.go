package shapes

type PointShape struct {
	_ struct{} `dyn:"schema=point"`

	X     int64 `dyn:"required"`
	Y     int64
	Label string `dyn:"key=name,cached"`
}

type PathShape struct {
	_ struct{} `dyn:"schema=path,view=Route"`

	Points []PointShape `dyn:"required"`
	Tags   map[string]bool
	Note   *string `dyn:"meta"`
	hidden int
}

type Other struct {
	A int
}
