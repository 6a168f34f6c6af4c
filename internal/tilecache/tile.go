package tilecache

import (
	"image"
	"sync"
	"time"

	"github.com/jaennil/guide_helper/tilemap/internal/tile"
)

// Tile is a cache entry. Its bitmap, error and pending state are written by the
// fetch worker and may be read concurrently from any goroutine.
type Tile struct {
	key tile.Key

	mu        sync.RWMutex
	img       image.Image
	err       error
	pending   bool
	scheduled bool
	failedAt  time.Time
	callbacks []callback

	started chan struct{}
	done    chan struct{}
}

type callback struct {
	onSuccess  func(*Tile)
	onFailure  func(*Tile, error)
	dispatcher Dispatcher
}

func newTile(key tile.Key) *Tile {
	return &Tile{
		key:     key,
		started: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (t *Tile) Key() tile.Key {
	return t.key
}

// Image returns the decoded bitmap, or nil while it is not available.
func (t *Tile) Image() image.Image {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.img
}

// Err returns the sticky fetch error, if any.
func (t *Tile) Err() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

// Pending reports whether a remote request for the tile is in progress.
func (t *Tile) Pending() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pending
}

// Done is closed once the tile holds a bitmap or an error.
func (t *Tile) Done() <-chan struct{} {
	return t.done
}

func (t *Tile) complete() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// schedule marks the tile as queued for the worker and reports whether the
// caller must enqueue it.
func (t *Tile) schedule() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.img != nil || t.err != nil || t.pending || t.scheduled {
		return false
	}
	t.scheduled = true
	return true
}

// expired reports whether a failed tile is older than ttl. A zero ttl never expires.
func (t *Tile) expired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err != nil && now.Sub(t.failedAt) >= ttl
}

func (t *Tile) markStarted() {
	select {
	case <-t.started:
	default:
		close(t.started)
	}
}

func (t *Tile) setPending(pending bool) {
	t.mu.Lock()
	t.pending = pending
	t.mu.Unlock()
}

func (t *Tile) subscribe(cb callback) {
	if cb.onSuccess == nil && cb.onFailure == nil {
		return
	}
	t.mu.Lock()
	if !t.complete() {
		t.callbacks = append(t.callbacks, cb)
		t.mu.Unlock()
		return
	}
	img, err := t.img, t.err
	t.mu.Unlock()
	cb.fire(t, img, err)
}

func (t *Tile) succeed(img image.Image) {
	t.finish(img, nil, time.Time{})
}

func (t *Tile) fail(err error, at time.Time) {
	t.finish(nil, err, at)
}

func (t *Tile) finish(img image.Image, err error, at time.Time) {
	t.mu.Lock()
	if t.complete() {
		t.mu.Unlock()
		return
	}
	t.img = img
	t.err = err
	t.failedAt = at
	t.pending = false
	t.scheduled = false
	callbacks := t.callbacks
	t.callbacks = nil
	t.markStarted()
	close(t.done)
	t.mu.Unlock()

	for _, cb := range callbacks {
		cb.fire(t, img, err)
	}
}

func (cb callback) fire(t *Tile, img image.Image, err error) {
	if err != nil {
		if cb.onFailure != nil {
			cb.dispatcher(func() { cb.onFailure(t, err) })
		}
		return
	}
	if cb.onSuccess != nil && img != nil {
		cb.dispatcher(func() { cb.onSuccess(t) })
	}
}
