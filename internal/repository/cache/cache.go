package cache

import (
	"fmt"

	"github.com/jaennil/guide_helper/tilemap/internal/tile"
)

type TileCacheKey struct {
	Server string
	Z      int
	X      int
	Y      int
	Ext    string
}

// KeyFor converts a tile key into a store key.
func KeyFor(k tile.Key) TileCacheKey {
	return TileCacheKey{
		Server: k.Server.Name,
		Z:      k.Z,
		X:      k.X,
		Y:      k.Y,
		Ext:    k.Server.Ext,
	}
}

// FileName is the canonical, human readable file name of the tile.
func (k TileCacheKey) FileName() string {
	ext := k.Ext
	if ext == "" {
		ext = "png"
	}
	return fmt.Sprintf("%s_%d_%d_%d.%s", k.Server, k.Z, k.X, k.Y, ext)
}

type TileCacheValue []byte

// TileCache persists raw tile bytes. Get reports exists=false with a nil error on a miss.
type TileCache interface {
	Get(TileCacheKey) (TileCacheValue, bool, error)
	Set(TileCacheKey, TileCacheValue) error
}
