package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"

	"github.com/jaennil/guide_helper/tilemap/internal/repository/cache"
	"github.com/jaennil/guide_helper/tilemap/internal/tile"
	"github.com/jaennil/guide_helper/tilemap/internal/tilecache"
	"github.com/jaennil/guide_helper/tilemap/pkg/logger"
)

// ErrNoTile is returned for tile indices that do not exist at the requested zoom.
var ErrNoTile = errors.New("no such tile")

type TileCacheUseCase struct {
	tiles  *tilecache.Cache
	store  cache.TileCache
	logger logger.Logger
}

func NewTileCacheUseCase(tiles *tilecache.Cache, store cache.TileCache, l logger.Logger) *TileCacheUseCase {
	return &TileCacheUseCase{
		tiles:  tiles,
		store:  store,
		logger: l,
	}
}

func (uc *TileCacheUseCase) Servers() []tile.Server {
	return uc.tiles.Registry().Servers()
}

// Server resolves a server by name.
func (uc *TileCacheUseCase) Server(name string) (tile.Server, error) {
	return uc.tiles.Registry().Get(name)
}

// GetTile waits for the tile and returns its stored bytes with their content type.
func (uc *TileCacheUseCase) GetTile(ctx context.Context, serverName string, z, x, y int) ([]byte, string, error) {
	server, err := uc.Server(serverName)
	if err != nil {
		return nil, "", err
	}

	uc.logger.Debug("tile lookup", "server", server.Name, "z", z, "x", x, "y", y)
	t, err := uc.tiles.GetSync(ctx, server, z, x, y)
	if err != nil {
		return nil, "", err
	}
	if t == nil {
		return nil, "", fmt.Errorf("%w: %d/%d/%d", ErrNoTile, z, x, y)
	}

	data, exists, err := uc.store.Get(cache.KeyFor(t.Key()))
	if err != nil {
		uc.logger.Error("cache lookup failed", "tile", t.Key().String(), "error", err)
		return nil, "", err
	}
	if exists {
		return data, ContentType(server.Ext), nil
	}

	// the store dropped the bytes (e.g. redis TTL) while the bitmap is still resident
	var buf bytes.Buffer
	if err := png.Encode(&buf, t.Image()); err != nil {
		return nil, "", fmt.Errorf("failed to encode %v: %w", t.Key(), err)
	}
	return buf.Bytes(), ContentType("png"), nil
}

// Evict drops a resident tile so a failed one can be retried.
func (uc *TileCacheUseCase) Evict(serverName string, z, x, y int) (bool, error) {
	server, err := uc.Server(serverName)
	if err != nil {
		return false, err
	}
	return uc.tiles.Evict(server, z, x, y), nil
}

func ContentType(ext string) string {
	switch ext {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
