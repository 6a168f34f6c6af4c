package tilecache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jaennil/guide_helper/tilemap/internal/tile"
)

// GetSync waits for the tile to finish. The wait has two bounds: HandoffTimeout for the
// worker to pick the tile up, and SyncTimeout for the whole call. Exceeding either
// returns ErrTimeout; the fetch keeps running and later callers see its result.
// A failed tile returns its error. Indices outside the zoom level return (nil, nil).
func (c *Cache) GetSync(ctx context.Context, server tile.Server, z, x, y int) (*Tile, error) {
	if !tile.InRange(z, x, y) {
		return nil, nil
	}
	key := tile.NewKey(server, z, x, y)

	ch := c.sync.DoChan(strconv.FormatUint(key.ID(), 10), func() (any, error) {
		return c.await(server, z, x, y)
	})

	select {
	case res := <-ch:
		t, _ := res.Val.(*Tile)
		return t, res.Err
	case <-ctx.Done():
		return c.Peek(server, z, x, y), ctx.Err()
	}
}

func (c *Cache) await(server tile.Server, z, x, y int) (*Tile, error) {
	start := time.Now()
	t := c.Get(server, z, x, y)

	handoff := time.NewTimer(c.opts.HandoffTimeout)
	defer handoff.Stop()
	select {
	case <-t.started:
	case <-t.done:
	case <-handoff.C:
		return t, fmt.Errorf("%w: %v was not picked up within %v", ErrTimeout, t.Key(), c.opts.HandoffTimeout)
	}

	if !t.complete() {
		total := time.NewTimer(max(c.opts.SyncTimeout-time.Since(start), 0))
		defer total.Stop()
		select {
		case <-t.done:
		case <-total.C:
			return t, fmt.Errorf("%w: %v not ready within %v", ErrTimeout, t.Key(), c.opts.SyncTimeout)
		}
	}

	if err := t.Err(); err != nil {
		return t, err
	}
	return t, nil
}
