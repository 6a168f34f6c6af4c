package usecase

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jaennil/guide_helper/tilemap/internal/layer"
	"github.com/jaennil/guide_helper/tilemap/internal/render"
	"github.com/jaennil/guide_helper/tilemap/internal/tilecache"
	"github.com/jaennil/guide_helper/tilemap/pkg/logger"
	"github.com/jaennil/guide_helper/tilemap/pkg/metrics"
	"github.com/jaennil/guide_helper/tilemap/pkg/telemetry"
)

// RenderRequest selects a viewport in the global pixel space of zoom Z.
type RenderRequest struct {
	Server string
	Z      int
	X, Y   int
	Width  int
	Height int
}

func (r RenderRequest) Viewport() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

type RenderUseCase struct {
	tiles      *tilecache.Cache
	background color.Color
	logger     logger.Logger
}

func NewRenderUseCase(tiles *tilecache.Cache, l logger.Logger) *RenderUseCase {
	return &RenderUseCase{
		tiles:      tiles,
		background: color.White,
		logger:     l,
	}
}

// Render composites background, tiles and attribution for the viewport and encodes a PNG.
// Tiles are awaited, so a failed or late tile leaves a placeholder or the background.
func (uc *RenderUseCase) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	server, err := uc.tiles.Registry().Get(req.Server)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.Tracer().Start(ctx, "render")
	defer span.End()
	span.SetAttributes(
		attribute.String("tile.server", server.Name),
		attribute.Int("tile.z", req.Z),
		attribute.Int("render.width", req.Width),
		attribute.Int("render.height", req.Height),
	)

	start := time.Now()
	surface := image.NewRGBA(image.Rect(0, 0, req.Width, req.Height))
	r := render.New(surface, req.Viewport(), req.Z)

	stack := layer.NewStack(uc.logger,
		layer.NewAttribution(server.Attribution),
		layer.NewTileLayer(uc.tiles, server,
			layer.WithSync(ctx),
			layer.WithPainterLogger(uc.logger),
		),
		layer.NewBackground(uc.background),
	)
	stack.Accept(r)

	var buf bytes.Buffer
	if err := png.Encode(&buf, surface); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to encode render: %w", err)
	}

	metrics.Renders.Inc()
	metrics.RenderLatency.Observe(time.Since(start).Seconds())
	uc.logger.Info("rendered viewport", "server", server.Name, "z", req.Z,
		"viewport", req.Viewport().String(), "tiles", r.Tiles(), "duration", time.Since(start))

	return buf.Bytes(), nil
}
