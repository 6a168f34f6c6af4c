package config

import (
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got, want := cfg.Cache.Backend, "filesystem"; got != want {
		t.Errorf("Cache.Backend = %q, want = %q", got, want)
	}
	if got, want := cfg.Cache.HandoffTimeout, time.Second; got != want {
		t.Errorf("Cache.HandoffTimeout = %v, want = %v", got, want)
	}
	if got, want := cfg.Cache.SyncTimeout, 10*time.Second; got != want {
		t.Errorf("Cache.SyncTimeout = %v, want = %v", got, want)
	}
	if got := cfg.Cache.ErrorTTL; got != 0 {
		t.Errorf("Cache.ErrorTTL = %v, want = 0", got)
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("CACHE_DIR", "/tmp/tiles")
	t.Setenv("CACHE_MEMORY_ENTRIES", "12")
	t.Setenv("UPSTREAM_RPS", "0.5")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	root, err := cfg.Cache.CacheRoot()
	if err != nil {
		t.Fatalf("CacheRoot failed: %v", err)
	}
	if root != "/tmp/tiles" {
		t.Errorf("CacheRoot = %q, want = %q", root, "/tmp/tiles")
	}
	if cfg.Cache.MemoryEntries != 12 {
		t.Errorf("MemoryEntries = %d, want = 12", cfg.Cache.MemoryEntries)
	}
	if cfg.Upstream.RPS != 0.5 {
		t.Errorf("Upstream.RPS = %v, want = 0.5", cfg.Upstream.RPS)
	}
}

func TestParseInvalid(t *testing.T) {
	t.Setenv("CACHE_SYNC_TIMEOUT", "soon")

	if _, err := Parse(); err == nil {
		t.Errorf("Parse succeeded with invalid duration")
	}
}
