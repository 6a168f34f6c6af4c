package render_test

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/jaennil/guide_helper/tilemap/internal/render"
	"github.com/jaennil/guide_helper/tilemap/internal/tile"
)

type bounds struct {
	Left, Top, Right, Bottom int
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name    string
		visible image.Rectangle
		zoom    int
		want    bounds
	}{
		{
			name:    "512x512 at origin, zoom 2",
			visible: image.Rect(0, 0, 512, 512),
			zoom:    2,
			want:    bounds{0, 0, 3, 3},
		},
		{
			name:    "overscan clipped by world edge",
			visible: image.Rect(0, 0, 800, 600),
			zoom:    1,
			want:    bounds{0, 0, 1, 1},
		},
		{
			name:    "offset viewport",
			visible: image.Rect(300, 600, 300+512, 600+256),
			zoom:    5,
			want:    bounds{1, 2, 4, 4},
		},
		{
			name:    "zoom 0",
			visible: image.Rect(0, 0, 256, 256),
			zoom:    0,
			want:    bounds{0, 0, 0, 0},
		},
		{
			name:    "negative origin floors",
			visible: image.Rect(-10, -300, 246, -44),
			zoom:    3,
			want:    bounds{-1, -2, 1, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := render.New(image.NewRGBA(image.Rect(0, 0, tt.visible.Dx(), tt.visible.Dy())), tt.visible, tt.zoom)
			var got bounds
			got.Left, got.Top, got.Right, got.Bottom = r.Bounds()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Bounds() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAllRowMajor(t *testing.T) {
	r := render.New(image.NewRGBA(image.Rect(0, 0, 256, 256)), image.Rect(256, 256, 512, 512), 3)

	var got []image.Point
	for v := range r.All() {
		if !v.Visible {
			t.Errorf("view %d,%d not visible", v.X, v.Y)
		}
		got = append(got, image.Pt(v.X, v.Y))
	}

	want := []image.Point{
		{1, 1}, {2, 1}, {3, 1},
		{1, 2}, {2, 2}, {3, 2},
		{1, 3}, {2, 3}, {3, 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
	if n := r.Tiles(); n != len(want) {
		t.Errorf("Tiles() = %d, want %d", n, len(want))
	}
}

func TestAllStopsEarly(t *testing.T) {
	r := render.New(image.NewRGBA(image.Rect(0, 0, 512, 512)), image.Rect(0, 0, 512, 512), 2)

	n := 0
	for range r.All() {
		n++
		if n == 5 {
			break
		}
	}
	if n != 5 {
		t.Errorf("iterated %d views, want 5", n)
	}
}

func TestViewsAreSnapshots(t *testing.T) {
	r := render.New(image.NewRGBA(image.Rect(0, 0, 512, 512)), image.Rect(0, 0, 512, 512), 2)

	var views []render.View
	r.ForEach(func(v render.View) {
		views = append(views, v)
	})
	r.MoveTo(3, 3)

	if views[0].X != 0 || views[0].Y != 0 {
		t.Errorf("first view moved to %d,%d", views[0].X, views[0].Y)
	}
	if x, y := r.Cursor(); x != 3 || y != 3 {
		t.Errorf("Cursor() = %d,%d after iteration, want 3,3", x, y)
	}
	if len(views) != 16 {
		t.Errorf("got %d views, want 16", len(views))
	}
}

func TestViewOffset(t *testing.T) {
	surface := image.NewRGBA(image.Rect(0, 0, 400, 300))
	r := render.New(surface, image.Rect(300, 600, 700, 900), 5)

	first := r.View()
	if diff := cmp.Diff(image.Pt(-44, -88), first.Offset()); diff != "" {
		t.Errorf("Offset() mismatch (-want +got):\n%s", diff)
	}
	if got, want := first.Rect(), image.Rect(-44, -88, 212, 168); got != want {
		t.Errorf("Rect() = %v, want %v", got, want)
	}
	if first.Surface() != surface {
		t.Errorf("Surface() is not the renderer surface")
	}
	if diff := cmp.Diff(tile.NewRef(5, 1, 2), first.Ref(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Ref() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderOnlyWhenVisible(t *testing.T) {
	r := render.New(image.NewRGBA(image.Rect(0, 0, 512, 512)), image.Rect(0, 0, 512, 512), 2)

	calls := 0
	draw := func(*render.Renderer) { calls++ }

	if !r.Render(draw) {
		t.Errorf("Render() skipped at the initial cursor")
	}
	r.MoveTo(4, 0)
	if r.Visible() {
		t.Errorf("cursor outside the bounds is visible")
	}
	if r.Render(draw) {
		t.Errorf("Render() drew outside the bounds")
	}
	if calls != 1 {
		t.Errorf("draw called %d times, want 1", calls)
	}
}

func TestNotify(t *testing.T) {
	var got []tile.Key
	r := render.New(image.NewRGBA(image.Rect(0, 0, 256, 256)), image.Rect(0, 0, 256, 256), 3,
		render.WithObserver(func(k tile.Key) { got = append(got, k) }))

	server := tile.DefaultRegistry().Default()
	r.Notify(tile.NewKey(server, 3, 1, 1))
	r.Notify(tile.NewKey(server, 3, 5, 5))
	r.Notify(tile.NewKey(server, 4, 1, 1))

	want := []tile.Key{tile.NewKey(server, 3, 1, 1)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("observer calls mismatch (-want +got):\n%s", diff)
	}

	// no observer
	render.New(nil, image.Rect(0, 0, 256, 256), 3).Notify(tile.NewKey(server, 3, 0, 0))
}
