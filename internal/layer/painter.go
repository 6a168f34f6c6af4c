package layer

import (
	"context"
	"image"
	"image/draw"
	"sync"
	"sync/atomic"

	xdraw "golang.org/x/image/draw"

	"github.com/jaennil/guide_helper/tilemap/internal/render"
	"github.com/jaennil/guide_helper/tilemap/internal/tile"
	"github.com/jaennil/guide_helper/tilemap/internal/tilecache"
	"github.com/jaennil/guide_helper/tilemap/pkg/logger"
)

// Tiles is the part of the tile cache a TilePainter reads from.
type Tiles interface {
	Get(server tile.Server, z, x, y int, opts ...tilecache.GetOption) *tilecache.Tile
	Peek(server tile.Server, z, x, y int) *tilecache.Tile
	GetSync(ctx context.Context, server tile.Server, z, x, y int) (*tilecache.Tile, error)
}

// TilePainter draws the cached bitmaps of one server. A tile that is not loaded yet is
// stood in for by the scaled-up quadrant of the nearest resident ancestor.
type TilePainter struct {
	tiles  Tiles
	server tile.Server
	ctx    context.Context
	sync   bool
	depth  int
	logger logger.Logger

	// pending holds the IDs of tiles that already carry a repaint callback.
	pending sync.Map
	current atomic.Pointer[render.Renderer]
}

type PainterOption func(*TilePainter)

// WithSync makes the painter wait for every tile, bounded by the cache's sync timeouts and ctx.
func WithSync(ctx context.Context) PainterOption {
	return func(p *TilePainter) {
		p.sync = true
		p.ctx = ctx
	}
}

// WithPlaceholderDepth sets how many zoom levels up the painter looks for a placeholder.
// Zero disables placeholders.
func WithPlaceholderDepth(levels int) PainterOption {
	return func(p *TilePainter) {
		p.depth = max(levels, 0)
	}
}

func WithPainterLogger(l logger.Logger) PainterOption {
	return func(p *TilePainter) {
		p.logger = l
	}
}

func NewTilePainter(tiles Tiles, server tile.Server, opts ...PainterOption) *TilePainter {
	p := &TilePainter{
		tiles:  tiles,
		server: server,
		ctx:    context.Background(),
		depth:  4,
		logger: logger.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewTileLayer wraps a TilePainter in a layer named after the server.
func NewTileLayer(tiles Tiles, server tile.Server, opts ...PainterOption) *Consumer {
	return NewConsumer(server.Name, NewTilePainter(tiles, server, opts...))
}

func (p *TilePainter) Draw(r *render.Renderer) {
	if p.sync {
		// queue every tile up front so the worker never idles between waits
		for v := range r.All() {
			p.tiles.Get(p.server, v.Zoom, v.X, v.Y)
		}
	} else {
		p.current.Store(r)
	}

	for v := range r.All() {
		p.drawTile(v)
	}
}

func (p *TilePainter) drawTile(v render.View) {
	t := p.lookup(v)
	if t == nil {
		return
	}
	if img := t.Image(); img != nil {
		draw.Draw(v.Surface(), v.Rect(), img, img.Bounds().Min, draw.Over)
		return
	}
	p.drawPlaceholder(v)
}

func (p *TilePainter) lookup(v render.View) *tilecache.Tile {
	if p.sync {
		t, err := p.tiles.GetSync(p.ctx, p.server, v.Zoom, v.X, v.Y)
		if err != nil {
			p.logger.Warn("tile unavailable", "tile", v.Key(p.server).String(), "error", err)
		}
		return t
	}

	if !tile.InRange(v.Zoom, v.X, v.Y) {
		return nil
	}
	if t := p.tiles.Peek(p.server, v.Zoom, v.X, v.Y); t != nil && t.Image() != nil {
		return t
	}
	key := v.Key(p.server)
	id := key.ID()
	if _, loaded := p.pending.LoadOrStore(id, struct{}{}); loaded {
		return p.tiles.Get(p.server, v.Zoom, v.X, v.Y)
	}
	return p.tiles.Get(p.server, v.Zoom, v.X, v.Y,
		tilecache.OnSuccess(func(*tilecache.Tile) {
			p.pending.Delete(id)
			if cur := p.current.Load(); cur != nil {
				cur.Notify(key)
			}
		}),
		tilecache.OnFailure(func(*tilecache.Tile, error) {
			p.pending.Delete(id)
		}),
	)
}

func (p *TilePainter) drawPlaceholder(v render.View) {
	for d := 1; d <= p.depth && d <= v.Zoom; d++ {
		parent := p.tiles.Peek(p.server, v.Zoom-d, v.X>>d, v.Y>>d)
		if parent == nil {
			continue
		}
		img := parent.Image()
		if img == nil {
			continue
		}

		n := 1 << d
		b := img.Bounds()
		w, h := b.Dx()/n, b.Dy()/n
		if w == 0 || h == 0 {
			return
		}
		qx, qy := v.X-(v.X>>d)<<d, v.Y-(v.Y>>d)<<d
		src := image.Rect(b.Min.X+qx*w, b.Min.Y+qy*h, b.Min.X+(qx+1)*w, b.Min.Y+(qy+1)*h)
		xdraw.ApproxBiLinear.Scale(v.Surface(), v.Rect(), img, src, xdraw.Over, nil)
		return
	}
}
