// Package util carries the outbound-HTTP plumbing the fetchers share: a
// per-host rate limiter and the request constructor that applies it.
package util

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// UserAgent is sent on every outbound request the fetchers make.
const UserAgent = "scout/1.0 (+local)"

// HostLimiter rate-limits per hostname (graph.facebook.com,
// oauth.reddit.com, ...) so one chatty source cannot starve the others.
type HostLimiter struct {
	mu      sync.Mutex
	perHost map[string]*rate.Limiter
	rps     rate.Limit
	burst   int
}

func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	return &HostLimiter{
		perHost: make(map[string]*rate.Limiter),
		rps:     rate.Limit(reqPerSec),
		burst:   burst,
	}
}

// Request waits for the URL's host slot, then returns a request with the
// shared User-Agent already set. Callers add whatever auth the endpoint
// needs on top.
func (hl *HostLimiter) Request(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	host := "_"
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}
	if err := hl.limiterFor(host).Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	return req, nil
}

func (hl *HostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	lim, ok := hl.perHost[host]
	if !ok {
		lim = rate.NewLimiter(hl.rps, hl.burst)
		hl.perHost[host] = lim
	}
	return lim
}
