package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jaennil/guide_helper/tilemap/pkg/config"
	"github.com/jaennil/guide_helper/tilemap/pkg/logger"
)

func TestHTTPSourceFetch(t *testing.T) {
	var gotUA, gotReferer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		if r.URL.Path != "/3/1/2.png" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("tile-bytes"))
	}))
	defer srv.Close()

	s := NewHTTPSource(config.Upstream{
		UserAgent: "tilemap-test/1.0",
		Referer:   "https://example.com",
		Timeout:   time.Second,
	}, logger.NewNop())

	data, err := s.Fetch(context.Background(), srv.URL+"/3/1/2.png")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != "tile-bytes" {
		t.Errorf("Fetch = %q, want %q", data, "tile-bytes")
	}
	if gotUA != "tilemap-test/1.0" || gotReferer != "https://example.com" {
		t.Errorf("headers = (%q, %q)", gotUA, gotReferer)
	}

	_, err = s.Fetch(context.Background(), srv.URL+"/3/9/9.png")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusNotFound {
		t.Errorf("Fetch(missing) error = %v, want StatusError 404", err)
	}
}

func TestHTTPSourceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := NewHTTPSource(config.Upstream{Timeout: time.Second}, logger.NewNop())
	if _, err := s.Fetch(context.Background(), url+"/0/0/0.png"); err == nil {
		t.Errorf("Fetch succeeded against a closed server")
	}
}

func TestHTTPSourceCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	s := NewHTTPSource(config.Upstream{RPS: 0.001, Burst: 1}, logger.NewNop())
	if _, err := s.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("first Fetch failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := s.Fetch(ctx, srv.URL); err == nil {
		t.Errorf("rate limited Fetch succeeded despite context deadline")
	}
}
