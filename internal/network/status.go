// Package network tracks whether the host currently has connectivity.
// Observation sync state and the sync gate both read it.
package network

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

type Status struct {
	online atomic.Bool
}

func NewStatus(online bool) *Status {
	s := &Status{}
	s.online.Store(online)
	return s
}

func (s *Status) Online() bool {
	return s.online.Load()
}

// Set records the new state and reports whether it changed.
func (s *Status) Set(online bool) bool {
	return s.online.Swap(online) != online
}

// Prober checks reachability of a URL and feeds the result into a Status.
type Prober struct {
	url    string
	client *http.Client
	status *Status
	log    zerolog.Logger
}

func NewProber(url string, timeout time.Duration, status *Status, log zerolog.Logger) *Prober {
	return &Prober{
		url:    url,
		client: &http.Client{Timeout: timeout},
		status: status,
		log:    log,
	}
}

func (p *Prober) Enabled() bool {
	return p != nil && p.url != ""
}

func (p *Prober) Probe(ctx context.Context) bool {
	online := p.reachable(ctx)
	if p.status.Set(online) {
		p.log.Info().Bool("online", online).Str("probe_url", p.url).Msg("network status changed")
	}
	return online
}

func (p *Prober) reachable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		p.log.Warn().Err(err).Msg("build probe request failed")
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Debug().Err(err).Msg("probe failed")
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}
