package app

import (
	"context"
	"errors"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jaennil/guide_helper/tilemap/internal/fetch"
	v1 "github.com/jaennil/guide_helper/tilemap/internal/infrastructure/http/v1"
	"github.com/jaennil/guide_helper/tilemap/internal/infrastructure/http/v1/handler"
	"github.com/jaennil/guide_helper/tilemap/internal/repository/cache"
	"github.com/jaennil/guide_helper/tilemap/internal/tile"
	"github.com/jaennil/guide_helper/tilemap/internal/tilecache"
	"github.com/jaennil/guide_helper/tilemap/internal/usecase"
	"github.com/jaennil/guide_helper/tilemap/pkg/config"
	"github.com/jaennil/guide_helper/tilemap/pkg/http_server"
	"github.com/jaennil/guide_helper/tilemap/pkg/logger"
	"github.com/jaennil/guide_helper/tilemap/pkg/telemetry"
)

const shutdownTimeout = 30 * time.Second

func Run(cfg *config.Config) {
	l := logger.NewZapLogger(cfg.Logger)
	defer l.Sync()

	l.Info("app config", "cfg", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = logger.WithLogger(ctx, l)

	if cfg.Telemetry.Enabled {
		shutdownTelemetry, err := telemetry.InitTracer(telemetry.Config{
			ServiceName:    cfg.Telemetry.ServiceName,
			ServiceVersion: cfg.Telemetry.ServiceVersion,
			Environment:    cfg.Telemetry.Environment,
			OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		}, l)
		if err != nil {
			l.Fatal("failed to initialize telemetry", "error", err)
		}
		defer func() {
			if err := shutdownTelemetry(context.Background()); err != nil {
				l.Error("failed to shutdown telemetry", "error", err)
			}
		}()
		l.Info("telemetry initialized", "service", cfg.Telemetry.ServiceName)
	}

	store, storeCloser, err := cache.Open(cfg, l)
	if err != nil {
		l.Fatal("failed to initialize tile store", "backend", cfg.Cache.Backend, "error", err)
	}

	registry := tile.DefaultRegistry()
	if _, err := registry.Get(cfg.Render.DefaultServer); err != nil {
		l.Fatal("invalid default server", "error", err)
	}

	source := fetch.NewHTTPSource(cfg.Upstream, l)
	tiles := tilecache.New(tilecache.OptionsFrom(cfg.Cache), store, source, registry, l)

	tileCacheUseCase := usecase.NewTileCacheUseCase(tiles, store, l)
	renderUseCase := usecase.NewRenderUseCase(tiles, l)

	validate := validator.New()
	h := handler.NewHandler(validate, tileCacheUseCase, renderUseCase, cfg.Render, cfg.HTTP.Timeout)
	router := v1.NewRouter(h, l, cfg.Telemetry.Enabled, cfg.Telemetry.ServiceName)

	httpServer := http_server.NewServer(ctx, cfg.HTTP.Server, router)

	ln, err := net.Listen("tcp", httpServer.Addr)
	if err != nil {
		l.Fatal("failed to listen", "address", httpServer.Addr, "error", err)
	}

	if err := http_server.Serve(ctx, httpServer, ln, shutdownTimeout); err != nil {
		l.Error("http server failed", "error", err)
	}

	l.Info("stopping tile cache...")
	if err := errors.Join(tiles.Close(), storeCloser.Close()); err != nil {
		l.Error("failed to release tile cache", "error", err)
	}

	l.Info("application shutdown completed")
}
