package layer

import (
	"fmt"
	"slices"
	"sync"

	"github.com/jaennil/guide_helper/tilemap/internal/render"
	"github.com/jaennil/guide_helper/tilemap/pkg/logger"
)

// Stack is an ordered set of layers. The first layer is the top of the visual stack.
type Stack struct {
	mu     sync.RWMutex
	layers []Layer
	logger logger.Logger
}

func NewStack(l logger.Logger, layers ...Layer) *Stack {
	if l == nil {
		l = logger.NewNop()
	}
	s := &Stack{logger: l}
	for _, layer := range layers {
		s.Add(layer)
	}
	return s
}

// Add appends l below every layer already in the stack.
func (s *Stack) Add(l Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnDuplicate(l)
	s.layers = append(s.layers, l)
}

// Insert places l at index i, 0 being the top.
func (s *Stack) Insert(i int, l Layer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i > len(s.layers) {
		return fmt.Errorf("layer: insert index %d out of range [0, %d]", i, len(s.layers))
	}
	s.warnDuplicate(l)
	s.layers = slices.Insert(s.layers, i, l)
	return nil
}

// Remove drops the first layer equal to l.
func (s *Stack) Remove(l Layer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(l)
	if i < 0 {
		return false
	}
	s.layers = slices.Delete(s.layers, i, i+1)
	return true
}

// Index returns the position of the first layer equal to l, or -1.
func (s *Stack) Index(l Layer) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index(l)
}

// Get returns the first layer with the given name.
func (s *Stack) Get(name string) (Layer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.layers {
		if l.Name() == name {
			return l, true
		}
	}
	return nil, false
}

// MoveUp swaps l with the layer above it. The first layer stays in place.
func (s *Stack) MoveUp(l Layer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(l)
	if i <= 0 {
		return false
	}
	s.layers[i-1], s.layers[i] = s.layers[i], s.layers[i-1]
	return true
}

// MoveDown swaps l with the layer below it. The last layer stays in place.
func (s *Stack) MoveDown(l Layer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(l)
	if i < 0 || i == len(s.layers)-1 {
		return false
	}
	s.layers[i], s.layers[i+1] = s.layers[i+1], s.layers[i]
	return true
}

// Layers returns a copy of the stack, top first.
func (s *Stack) Layers() []Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.layers)
}

func (s *Stack) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.layers)
}

// Accept draws the enabled layers bottom to top, so the last layer paints first.
func (s *Stack) Accept(r *render.Renderer) {
	for _, l := range slices.Backward(s.Layers()) {
		if l.Enabled() {
			l.Accept(r)
		}
	}
}

func (s *Stack) index(l Layer) int {
	return slices.IndexFunc(s.layers, func(other Layer) bool { return Equal(l, other) })
}

func (s *Stack) warnDuplicate(l Layer) {
	if s.index(l) >= 0 {
		s.logger.Warn("layer name already in stack, lookups will resolve to the first one", "layer", l.Name())
	}
}
