package tilecache

import (
	"time"

	"github.com/jaennil/guide_helper/tilemap/pkg/config"
)

// Dispatcher runs a callback on the caller's execution context, e.g. a UI event loop.
type Dispatcher func(func())

// GoDispatcher runs every callback on a fresh goroutine.
func GoDispatcher(f func()) {
	go f()
}

// InlineDispatcher runs callbacks on the fetch worker itself. Callbacks must not block.
func InlineDispatcher(f func()) {
	f()
}

type Options struct {
	// MemoryEntries bounds the number of resident tiles. Zero means unbounded.
	MemoryEntries int
	// HandoffTimeout bounds how long GetSync waits for the worker to pick the tile up.
	HandoffTimeout time.Duration
	// SyncTimeout bounds the whole GetSync wait, handoff included.
	SyncTimeout time.Duration
	// ErrorTTL lets a failed tile be rebuilt on the next Get once it is this old. Zero keeps errors sticky.
	ErrorTTL time.Duration
	// Dispatcher delivers callbacks unless overridden per call.
	Dispatcher Dispatcher
}

func DefaultOptions() Options {
	return Options{
		MemoryEntries:  1024,
		HandoffTimeout: time.Second,
		SyncTimeout:    10 * time.Second,
		Dispatcher:     GoDispatcher,
	}
}

// OptionsFrom maps the cache configuration section.
func OptionsFrom(cfg config.Cache) Options {
	opts := DefaultOptions()
	opts.MemoryEntries = cfg.MemoryEntries
	if cfg.HandoffTimeout > 0 {
		opts.HandoffTimeout = cfg.HandoffTimeout
	}
	if cfg.SyncTimeout > 0 {
		opts.SyncTimeout = cfg.SyncTimeout
	}
	opts.ErrorTTL = cfg.ErrorTTL
	return opts
}

type GetOption func(*callback)

// OnSuccess registers f to run once the tile holds a bitmap.
func OnSuccess(f func(*Tile)) GetOption {
	return func(cb *callback) {
		cb.onSuccess = f
	}
}

// OnFailure registers f to run once the tile fails.
func OnFailure(f func(*Tile, error)) GetOption {
	return func(cb *callback) {
		cb.onFailure = f
	}
}

// WithDispatcher overrides the dispatcher for this call's callbacks.
func WithDispatcher(d Dispatcher) GetOption {
	return func(cb *callback) {
		cb.dispatcher = d
	}
}
