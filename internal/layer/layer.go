// Package layer composes named, enableable draw actions onto a render operation.
package layer

import (
	"sync/atomic"

	"github.com/jaennil/guide_helper/tilemap/internal/render"
)

const DefaultName = "layer"

// Layer is anything that can draw itself onto a render operation.
type Layer interface {
	Name() string
	Enabled() bool
	SetEnabled(bool)
	Accept(r *render.Renderer)
}

// Drawer is a tile-aware drawer wrapped by a Consumer layer.
type Drawer interface {
	Draw(r *render.Renderer)
}

// Equal reports whether a and b denote the same layer. Layers are identified by name only,
// so two layers with different behaviour but the same name are equal.
func Equal(a, b Layer) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name() == b.Name()
}

type base struct {
	name     string
	disabled atomic.Bool
}

func nameOr(name string) string {
	if name == "" {
		return DefaultName
	}
	return name
}

func (b *base) Name() string {
	return b.name
}

func (b *base) Enabled() bool {
	return !b.disabled.Load()
}

func (b *base) SetEnabled(enabled bool) {
	b.disabled.Store(!enabled)
}

// Canvas draws once per render operation, independent of the tile grid.
type Canvas struct {
	base
	draw func(*render.Renderer)
}

func NewCanvas(name string, draw func(*render.Renderer)) *Canvas {
	return &Canvas{base: base{name: nameOr(name)}, draw: draw}
}

func (c *Canvas) Accept(r *render.Renderer) {
	r.Render(c.draw)
}

// Tiled draws once per visible tile position.
type Tiled struct {
	base
	draw func(render.View)
}

func NewTiled(name string, draw func(render.View)) *Tiled {
	return &Tiled{base: base{name: nameOr(name)}, draw: draw}
}

func (t *Tiled) Accept(r *render.Renderer) {
	r.ForEach(t.draw)
}

// Consumer hands the whole render operation to a Drawer.
type Consumer struct {
	base
	drawer Drawer
}

func NewConsumer(name string, d Drawer) *Consumer {
	return &Consumer{base: base{name: nameOr(name)}, drawer: d}
}

func (c *Consumer) Accept(r *render.Renderer) {
	c.drawer.Draw(r)
}
