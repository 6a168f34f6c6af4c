package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type (
	Config struct {
		HTTP      HTTP      `envPrefix:"HTTP_"`
		Logger    Logger    `envPrefix:"LOGGER_"`
		Telemetry Telemetry `envPrefix:"TELEMETRY_"`
		Cache     Cache     `envPrefix:"CACHE_"`
		Redis     Redis     `envPrefix:"REDIS_"`
		Upstream  Upstream  `envPrefix:"UPSTREAM_"`
		Render    Render    `envPrefix:"RENDER_"`
	}

	HTTP struct {
		Server  Server        `envPrefix:"SERVER_"`
		Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
	}

	Server struct {
		Port         string        `env:"PORT" envDefault:"8080"`
		ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
		WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	}

	Logger struct {
		Level string `env:"LEVEL" envDefault:"info"`
	}

	Telemetry struct {
		Enabled        bool   `env:"ENABLED" envDefault:"false"`
		ServiceName    string `env:"SERVICE_NAME" envDefault:"guide-helper-tilemap"`
		ServiceVersion string `env:"SERVICE_VERSION" envDefault:"1.0.0"`
		Environment    string `env:"ENVIRONMENT" envDefault:"production"`
		OTLPEndpoint   string `env:"OTLP_ENDPOINT" envDefault:"otel-collector.observability.svc.cluster.local:4317"`
	}

	Cache struct {
		// Dir overrides the disk cache root. Empty means the per-user cache directory.
		Dir            string        `env:"DIR"`
		Backend        string        `env:"BACKEND" envDefault:"filesystem"`
		SQLitePath     string        `env:"SQLITE_PATH" envDefault:"tiles.db"`
		MemoryEntries  int           `env:"MEMORY_ENTRIES" envDefault:"1024"`
		HandoffTimeout time.Duration `env:"HANDOFF_TIMEOUT" envDefault:"1s"`
		SyncTimeout    time.Duration `env:"SYNC_TIMEOUT" envDefault:"10s"`
		// ErrorTTL is how long a failed tile stays failed. Zero keeps it until evicted.
		ErrorTTL time.Duration `env:"ERROR_TTL" envDefault:"0s"`
	}

	Redis struct {
		Addr     string        `env:"ADDR" envDefault:"localhost:6379"`
		Password string        `env:"PASSWORD" envDefault:""`
		DB       int           `env:"DB" envDefault:"0"`
		TTL      time.Duration `env:"TTL" envDefault:"24h"`
	}

	Upstream struct {
		UserAgent string        `env:"USER_AGENT" envDefault:"GuideHelper/1.0 (https://github.com/jaennil/guide_helper)"`
		Referer   string        `env:"REFERER" envDefault:""`
		Timeout   time.Duration `env:"TIMEOUT" envDefault:"30s"`
		RPS       float64       `env:"RPS" envDefault:"4"`
		Burst     int           `env:"BURST" envDefault:"2"`
	}

	Render struct {
		DefaultServer string `env:"DEFAULT_SERVER" envDefault:"osm"`
		MaxWidth      int    `env:"MAX_WIDTH" envDefault:"4096"`
		MaxHeight     int    `env:"MAX_HEIGHT" envDefault:"4096"`
	}
)

func New() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Printf("NOTICE: .env file not found or cannot be loaded: %v\n", err)
	}

	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// CacheRoot returns the disk cache root directory.
func (c Cache) CacheRoot() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "guide_helper", "tiles"), nil
}
