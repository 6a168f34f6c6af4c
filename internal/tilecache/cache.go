// Package tilecache serves decoded tile bitmaps from memory, a persistent store or a
// remote tile server. Lookups never block on I/O: missing tiles are fetched by a single
// background worker, one at a time, and at most once per key.
package tilecache

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"github.com/jaennil/guide_helper/tilemap/internal/fetch"
	"github.com/jaennil/guide_helper/tilemap/internal/repository/cache"
	"github.com/jaennil/guide_helper/tilemap/internal/tile"
	"github.com/jaennil/guide_helper/tilemap/pkg/logger"
	"github.com/jaennil/guide_helper/tilemap/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

var (
	ErrTimeout       = errors.New("tilecache: timed out waiting for tile")
	ErrClosed        = errors.New("tilecache: cache closed")
	ErrMalformedTile = errors.New("tilecache: fetched tile cannot be decoded")
)

type Cache struct {
	store    cache.TileCache
	source   fetch.Source
	registry *tile.Registry
	logger   logger.Logger
	opts     Options
	now      func() time.Time

	mu       sync.Mutex
	entries  *lru.Cache
	inflight map[uint64]*Tile

	qmu    sync.Mutex
	queue  []*Tile
	closed bool
	wake   chan struct{}
	quit   chan struct{}
	exited chan struct{}

	sync singleflight.Group
}

// New starts the fetch worker. Close stops it.
func New(opts Options, store cache.TileCache, source fetch.Source, registry *tile.Registry, l logger.Logger) *Cache {
	if opts.Dispatcher == nil {
		opts.Dispatcher = GoDispatcher
	}
	if registry == nil {
		registry = tile.DefaultRegistry()
	}
	if l == nil {
		l = logger.NewNop()
	}

	c := &Cache{
		store:    store,
		source:   source,
		registry: registry,
		logger:   l,
		opts:     opts,
		now:      time.Now,
		entries:  lru.New(opts.MemoryEntries),
		inflight: make(map[uint64]*Tile),
		wake:     make(chan struct{}, 1),
		quit:     make(chan struct{}),
		exited:   make(chan struct{}),
	}

	go c.work()

	return c
}

func (c *Cache) Registry() *tile.Registry {
	return c.registry
}

// Get returns the tile for (server, z, x, y), creating the entry if needed, and schedules
// a fetch when the tile has neither bitmap nor error and none is in progress.
// It returns nil for indices outside [0, 2^z-1].
func (c *Cache) Get(server tile.Server, z, x, y int, opts ...GetOption) *Tile {
	if !tile.InRange(z, x, y) {
		return nil
	}
	key := tile.NewKey(server, z, x, y)

	c.mu.Lock()
	t := c.lookupLocked(key)
	if t == nil || t.expired(c.now(), c.opts.ErrorTTL) {
		t = newTile(key)
		c.entries.Add(key.ID(), t)
		metrics.MemoryMisses.Inc()
	} else {
		metrics.MemoryHits.Inc()
	}
	enqueue := t.schedule()
	if enqueue {
		c.inflight[key.ID()] = t
	}
	c.mu.Unlock()

	if enqueue {
		c.enqueue(t)
	}

	cb := callback{dispatcher: c.opts.Dispatcher}
	for _, opt := range opts {
		opt(&cb)
	}
	t.subscribe(cb)

	return t
}

// Peek returns the resident tile for the key without scheduling anything.
func (c *Cache) Peek(server tile.Server, z, x, y int) *Tile {
	if !tile.InRange(z, x, y) {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookupLocked(tile.NewKey(server, z, x, y))
}

// Evict drops the resident entry so the next Get rebuilds it from the store or the server.
// A tile that is being fetched stays pinned until the fetch finishes.
func (c *Cache) Evict(server tile.Server, z, x, y int) bool {
	if !tile.InRange(z, x, y) {
		return false
	}
	id := tile.NewKey(server, z, x, y).ID()

	c.mu.Lock()
	defer c.mu.Unlock()
	evicted := false
	if t, busy := c.inflight[id]; busy {
		if !t.complete() {
			return false
		}
		// finished, but the worker has not released it yet
		delete(c.inflight, id)
		evicted = true
	}
	if _, ok := c.entries.Get(id); ok {
		c.entries.Remove(id)
		evicted = true
	}
	return evicted
}

// Len returns the number of resident entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Close stops the worker after the fetch in progress. Tiles still queued fail with ErrClosed.
func (c *Cache) Close() error {
	c.qmu.Lock()
	if c.closed {
		c.qmu.Unlock()
		return nil
	}
	c.closed = true
	close(c.quit)
	c.qmu.Unlock()

	<-c.exited

	c.qmu.Lock()
	rest := c.queue
	c.queue = nil
	c.qmu.Unlock()
	for _, t := range rest {
		c.fail(t, ErrClosed)
	}
	metrics.QueueDepth.Set(0)

	return nil
}

func (c *Cache) lookupLocked(key tile.Key) *Tile {
	id := key.ID()
	if t, ok := c.inflight[id]; ok {
		if _, resident := c.entries.Get(id); !resident {
			c.entries.Add(id, t)
		}
		return t
	}
	if v, ok := c.entries.Get(id); ok {
		return v.(*Tile)
	}
	return nil
}

func (c *Cache) enqueue(t *Tile) {
	c.qmu.Lock()
	if c.closed {
		c.qmu.Unlock()
		c.fail(t, ErrClosed)
		return
	}
	c.queue = append(c.queue, t)
	metrics.QueueDepth.Set(float64(len(c.queue)))
	c.qmu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Cache) next() (*Tile, bool) {
	for {
		c.qmu.Lock()
		if len(c.queue) > 0 {
			t := c.queue[0]
			c.queue[0] = nil
			c.queue = c.queue[1:]
			metrics.QueueDepth.Set(float64(len(c.queue)))
			c.qmu.Unlock()
			return t, true
		}
		c.qmu.Unlock()

		select {
		case <-c.wake:
		case <-c.quit:
			return nil, false
		}
	}
}

func (c *Cache) work() {
	defer close(c.exited)

	for {
		select {
		case <-c.quit:
			return
		default:
		}

		t, ok := c.next()
		if !ok {
			return
		}
		c.process(t)
	}
}

// process runs the fetch procedure: disk, then remote, persist, and disk again.
func (c *Cache) process(t *Tile) {
	t.markStarted()
	key := t.Key()
	storeKey := cache.KeyFor(key)

	img, err := c.load(storeKey)
	if err != nil {
		c.fail(t, fmt.Errorf("failed to read %v from store: %w", key, err))
		return
	}
	if img != nil {
		c.succeed(t, img)
		return
	}

	t.setPending(true)
	metrics.UpstreamRequests.WithLabelValues(key.Server.Name).Inc()
	data, err := c.source.Fetch(context.Background(), key.URL())
	if err != nil {
		c.fail(t, fmt.Errorf("failed to fetch %v: %w", key, err))
		return
	}
	if err := c.store.Set(storeKey, data); err != nil {
		c.fail(t, fmt.Errorf("failed to store %v: %w", key, err))
		return
	}
	t.setPending(false)

	img, err = c.load(storeKey)
	if err != nil {
		c.fail(t, fmt.Errorf("failed to read %v from store: %w", key, err))
		return
	}
	if img == nil {
		c.fail(t, fmt.Errorf("%w: %v", ErrMalformedTile, key))
		return
	}
	c.succeed(t, img)
}

// load returns (nil, nil) on a miss. Undecodable data counts as a miss.
func (c *Cache) load(k cache.TileCacheKey) (image.Image, error) {
	data, exists, err := c.store.Get(k)
	if err != nil {
		return nil, err
	}
	if !exists {
		metrics.DiskMisses.Inc()
		return nil, nil
	}
	img, err := decode(data)
	if err != nil {
		c.logger.Debug("ignoring malformed cached tile", "tile", k.FileName(), "error", err)
		metrics.DiskMisses.Inc()
		return nil, nil
	}
	metrics.DiskHits.Inc()
	return img, nil
}

func (c *Cache) succeed(t *Tile, img image.Image) {
	t.succeed(img)
	c.release(t)
	c.logger.Debug("tile ready", "tile", t.Key().String())
}

func (c *Cache) fail(t *Tile, err error) {
	t.fail(err, c.now())
	c.release(t)
	metrics.FetchErrors.WithLabelValues(t.Key().Server.Name).Inc()
	c.logger.Error("tile failed", "tile", t.Key().String(), "error", err)
}

func (c *Cache) release(t *Tile) {
	id := t.Key().ID()
	c.mu.Lock()
	if c.inflight[id] == t {
		delete(c.inflight, id)
	}
	c.mu.Unlock()
}
