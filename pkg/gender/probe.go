package gender

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// Probe periodically checks that the external gender service answers at all
// and remembers the last observed status. Queries never depend on the probe;
// it only feeds the health endpoint so an operator can tell "classifier down"
// apart from "no traffic".
type Probe struct {
	url      string
	logger   *slog.Logger
	interval time.Duration
	client   *http.Client

	lastStatus atomic.Int64 // HTTP status, 0 = network error, -1 = never checked
}

// NewProbe creates a probe for the service base URL, checking every interval.
func NewProbe(url string, logger *slog.Logger, interval time.Duration) *Probe {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Probe{
		url:      url,
		logger:   logger,
		interval: interval,
		client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	p.lastStatus.Store(-1)
	return p
}

// Start runs an immediate check then repeats every interval until ctx is cancelled.
func (p *Probe) Start(ctx context.Context) {
	p.Check(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Check(ctx)
		}
	}
}

// Check performs a single HEAD request and records the status.
func (p *Probe) Check(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		p.lastStatus.Store(0)
		return
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.lastStatus.Store(0)
		p.logger.Warn("gender service unreachable", "url", p.url, "error", err)
		return
	}
	resp.Body.Close()
	p.lastStatus.Store(int64(resp.StatusCode))
}

// LastStatus returns the last observed HTTP status (0 = network error,
// -1 = never checked).
func (p *Probe) LastStatus() int {
	return int(p.lastStatus.Load())
}
