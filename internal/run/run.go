// Package run drives one pass of the job: fetch each enabled source, rank,
// render, notify. Strictly linear; a dead source costs its section of the
// digest, nothing more.
package run

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"scout-engine/internal/config"
	"scout-engine/internal/digest"
	"scout-engine/internal/domain"
	"scout-engine/internal/fetch"
	"scout-engine/internal/notify"
	"scout-engine/internal/rank"
)

// sourceTimeout bounds each fetcher; the host scheduler's own timeout is the
// only other cancellation in play.
const sourceTimeout = 2 * time.Minute

type Runner struct {
	Cfg      config.Config
	Log      zerolog.Logger
	Fetchers []fetch.Fetcher
	Channels []notify.Channel

	// Out receives the digest when no notify channel is configured.
	Out io.Writer

	// Now is swappable in tests.
	Now func() time.Time
}

// Once executes a single run. The returned error is fatal (total notify
// failure); source failures are logged and absorbed.
func (r *Runner) Once(ctx context.Context) error {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	var items []domain.CandidateItem
	for _, f := range r.Fetchers {
		fctx, cancel := context.WithTimeout(ctx, sourceTimeout)
		got, err := f.Fetch(fctx)
		cancel()

		if err != nil {
			r.Log.Warn().Str("source", f.Name()).Err(err).Msg("source skipped")
			continue
		}
		r.Log.Info().Str("source", f.Name()).Int("items", len(got)).Msg("fetched")
		items = append(items, got...)
	}

	d := rank.Top(items, r.Cfg.App.TopN)
	msg := digest.Render(d, now())
	if msg == "" {
		r.Log.Info().Msg("nothing to report this run")
		return nil
	}

	if len(r.Channels) == 0 {
		// dev mode: no channel configured, print the digest instead
		fmt.Fprintln(r.Out, msg)
		return nil
	}
	return notify.Deliver(ctx, r.Log, r.Channels, msg)
}

// SkipWeek reports whether a run at t should be skipped for the configured
// ISO-week parity ("odd", "even" or "").
func SkipWeek(parity string, t time.Time) bool {
	if parity == "" {
		return false
	}
	_, week := t.ISOWeek()
	if week%2 == 1 {
		return parity == "odd"
	}
	return parity == "even"
}
