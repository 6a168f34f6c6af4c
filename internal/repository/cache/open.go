package cache

import (
	"fmt"
	"io"

	"github.com/jaennil/guide_helper/tilemap/pkg/config"
	"github.com/jaennil/guide_helper/tilemap/pkg/logger"
)

const (
	BackendFilesystem = "filesystem"
	BackendSQLite     = "sqlite"
	BackendRedis      = "redis"
	BackendMemory     = "memory"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the store selected by cfg.Cache.Backend. The returned closer releases it.
func Open(cfg *config.Config, l logger.Logger) (TileCache, io.Closer, error) {
	switch cfg.Cache.Backend {
	case BackendFilesystem, "":
		root, err := cfg.Cache.CacheRoot()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve cache root: %w", err)
		}
		c, err := NewFilesystemCache(root)
		if err != nil {
			return nil, nil, err
		}
		l.Info("filesystem cache initialized", "root", root)
		return c, nopCloser{}, nil
	case BackendSQLite:
		c, err := NewSQLiteCache(cfg.Cache.SQLitePath, l)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	case BackendRedis:
		c, err := NewRedisCache(RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			return nil, nil, err
		}
		l.Info("redis cache initialized", "addr", cfg.Redis.Addr)
		return c, c, nil
	case BackendMemory:
		return NewMapCache(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
