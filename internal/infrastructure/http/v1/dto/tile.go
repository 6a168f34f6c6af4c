package dto

type TileRequest struct {
	Server string `uri:"server" validate:"required,max=64"`
	Z      int    `uri:"z" validate:"min=0,max=26"`
	X      int    `uri:"x"`
	Y      int    `uri:"y"`
}

type RenderRequest struct {
	Server string `form:"server"`
	Z      int    `form:"z" validate:"min=0,max=26"`
	X      int    `form:"x" validate:"min=0"`
	Y      int    `form:"y" validate:"min=0"`
	Width  int    `form:"w" validate:"required,min=1"`
	Height int    `form:"h" validate:"required,min=1"`
}

type ServerResponse struct {
	Name        string `json:"name"`
	MinZoom     int    `json:"min_zoom"`
	MaxZoom     int    `json:"max_zoom"`
	Format      string `json:"format"`
	Attribution string `json:"attribution"`
}

type EvictResponse struct {
	Evicted bool `json:"evicted"`
}
