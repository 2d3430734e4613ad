package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestStatusSet(t *testing.T) {
	s := NewStatus(true)
	if !s.Online() {
		t.Fatal("expected online")
	}
	if s.Set(true) {
		t.Fatal("setting same value should not report a change")
	}
	if !s.Set(false) || s.Online() {
		t.Fatal("expected transition to offline")
	}
}

func TestProber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	status := NewStatus(false)
	p := NewProber(srv.URL, time.Second, status, zerolog.Nop())
	if !p.Enabled() {
		t.Fatal("prober with url should be enabled")
	}

	if !p.Probe(context.Background()) || !status.Online() {
		t.Fatal("expected reachable server to mark status online")
	}

	srv.Close()
	if p.Probe(context.Background()) || status.Online() {
		t.Fatal("expected closed server to mark status offline")
	}

	var disabled *Prober
	if disabled.Enabled() {
		t.Fatal("nil prober must be disabled")
	}
}
