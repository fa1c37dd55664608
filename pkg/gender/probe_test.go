package gender

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProbeCheck(t *testing.T) {
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewProbe(srv.URL, nil, time.Minute)
	if got := p.LastStatus(); got != -1 {
		t.Errorf("LastStatus before any check = %d, want -1", got)
	}

	p.Check(context.Background())
	if method != http.MethodHead {
		t.Errorf("method = %q, want HEAD", method)
	}
	if got := p.LastStatus(); got != http.StatusOK {
		t.Errorf("LastStatus = %d, want 200", got)
	}
}

func TestProbeCheckUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nobody home

	p := NewProbe(srv.URL, nil, time.Minute)
	p.Check(context.Background())
	if got := p.LastStatus(); got != 0 {
		t.Errorf("LastStatus = %d, want 0 for a network error", got)
	}
}

func TestProbeNoRedirectFollow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "http://elsewhere.invalid/", http.StatusMovedPermanently)
	}))
	defer srv.Close()

	p := NewProbe(srv.URL, nil, time.Minute)
	p.Check(context.Background())
	if got := p.LastStatus(); got != http.StatusMovedPermanently {
		t.Errorf("LastStatus = %d, want 301 (redirects are not followed)", got)
	}
}
