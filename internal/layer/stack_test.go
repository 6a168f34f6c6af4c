package layer_test

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jaennil/guide_helper/tilemap/internal/layer"
	"github.com/jaennil/guide_helper/tilemap/internal/render"
	"github.com/jaennil/guide_helper/tilemap/pkg/logger"
)

func newRenderer() *render.Renderer {
	return render.New(image.NewRGBA(image.Rect(0, 0, 512, 512)), image.Rect(0, 0, 512, 512), 2)
}

func recorder(calls *[]string, name string) *layer.Canvas {
	return layer.NewCanvas(name, func(*render.Renderer) {
		*calls = append(*calls, name)
	})
}

func names(s *layer.Stack) []string {
	var out []string
	for _, l := range s.Layers() {
		out = append(out, l.Name())
	}
	return out
}

func TestAcceptVisitsTailFirst(t *testing.T) {
	var calls []string
	s := layer.NewStack(nil)
	s.Add(recorder(&calls, "A"))
	s.Add(recorder(&calls, "B"))

	s.Accept(newRenderer())

	if diff := cmp.Diff([]string{"B", "A"}, calls); diff != "" {
		t.Errorf("Accept order mismatch (-want +got):\n%s", diff)
	}
}

func TestAcceptSkipsDisabled(t *testing.T) {
	var calls []string
	a, b, c := recorder(&calls, "A"), recorder(&calls, "B"), recorder(&calls, "C")
	s := layer.NewStack(nil, a, b, c)

	b.SetEnabled(false)
	s.Accept(newRenderer())
	b.SetEnabled(true)
	s.Accept(newRenderer())

	want := []string{"C", "A", "C", "B", "A"}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("Accept calls mismatch (-want +got):\n%s", diff)
	}
}

func TestCanvasDrawsOnce(t *testing.T) {
	var calls []string
	recorder(&calls, "overlay").Accept(newRenderer())
	if len(calls) != 1 {
		t.Errorf("canvas drew %d times, want 1", len(calls))
	}
}

func TestTiledDrawsPerTile(t *testing.T) {
	var seen []image.Point
	l := layer.NewTiled("grid", func(v render.View) {
		seen = append(seen, image.Pt(v.X, v.Y))
	})
	l.Accept(newRenderer())

	if len(seen) != 16 {
		t.Errorf("tiled layer drew %d tiles, want 16", len(seen))
	}
	if seen[len(seen)-1] != image.Pt(3, 3) {
		t.Errorf("last tile = %v, want (3,3)", seen[len(seen)-1])
	}
}

type countingDrawer struct {
	n int
}

func (d *countingDrawer) Draw(*render.Renderer) {
	d.n++
}

func TestConsumer(t *testing.T) {
	d := &countingDrawer{}
	l := layer.NewConsumer("", d)
	l.Accept(newRenderer())

	if d.n != 1 {
		t.Errorf("drawer called %d times, want 1", d.n)
	}
	if l.Name() != layer.DefaultName {
		t.Errorf("Name() = %q, want %q", l.Name(), layer.DefaultName)
	}
	if !l.Enabled() {
		t.Errorf("new layer is disabled")
	}
}

func TestMoveUpDown(t *testing.T) {
	var calls []string
	a, b, c := recorder(&calls, "A"), recorder(&calls, "B"), recorder(&calls, "C")
	s := layer.NewStack(nil, a, b, c)

	if s.MoveUp(a) {
		t.Errorf("MoveUp moved the first layer")
	}
	if s.MoveDown(c) {
		t.Errorf("MoveDown moved the last layer")
	}
	if !s.MoveUp(c) {
		t.Errorf("MoveUp(C) failed")
	}
	if diff := cmp.Diff([]string{"A", "C", "B"}, names(s)); diff != "" {
		t.Errorf("after MoveUp (-want +got):\n%s", diff)
	}
	if !s.MoveDown(a) {
		t.Errorf("MoveDown(A) failed")
	}
	if diff := cmp.Diff([]string{"C", "A", "B"}, names(s)); diff != "" {
		t.Errorf("after MoveDown (-want +got):\n%s", diff)
	}
	if s.MoveUp(recorder(&calls, "missing")) {
		t.Errorf("MoveUp moved a layer that is not in the stack")
	}
}

func TestInsertRemoveIndex(t *testing.T) {
	var calls []string
	a, b := recorder(&calls, "A"), recorder(&calls, "B")
	s := layer.NewStack(nil, a)

	if err := s.Insert(0, b); err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(5, b); err == nil {
		t.Errorf("Insert accepted an index past the end")
	}
	if got := s.Index(a); got != 1 {
		t.Errorf("Index(A) = %d, want 1", got)
	}
	if l, ok := s.Get("B"); !ok || l != b {
		t.Errorf("Get(B) = %v, %v", l, ok)
	}
	if !s.Remove(b) || s.Remove(b) {
		t.Errorf("Remove(B) did not remove exactly once")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

// Identity is by name: a second layer named like an existing one is equal to it.
// Removing or moving it acts on the first one, which the stack reports with a warning.
func TestSameNameLayersAreEqual(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	var calls []string
	first := recorder(&calls, "tiles")
	second := layer.NewTiled("tiles", func(render.View) {})

	s := layer.NewStack(logger.NewZapLoggerFrom(zap.New(core)))
	s.Add(first)
	s.Add(second)

	if !layer.Equal(first, second) {
		t.Errorf("layers with the same name are not equal")
	}
	if got := logs.FilterMessageSnippet("already in stack").Len(); got != 1 {
		t.Errorf("got %d duplicate warnings, want 1", got)
	}

	s.Remove(second)
	if l, _ := s.Get("tiles"); l != layer.Layer(second) {
		t.Errorf("Remove(second) did not act on the first layer with the same name")
	}
}
