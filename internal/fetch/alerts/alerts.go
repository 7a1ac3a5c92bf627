// Package alerts scrapes story links out of unread alert-digest emails
// (Google Alerts style) over IMAP. Each link is scored against the
// configured keyword signals; links that clear the floor become candidate
// items with the signal score as engagement. Processed mail is marked \Seen,
// which is the only between-run state this job has.
package alerts

import (
	"context"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/rs/zerolog"

	"scout-engine/internal/config"
	"scout-engine/internal/domain"
	"scout-engine/internal/fetch"
)

const (
	maxEmails     = 50
	titleMaxRunes = 100
)

// mailSession is the slice of an IMAP connection the fetcher needs.
type mailSession interface {
	Unseen(ctx context.Context, sender string, since time.Time, max int) ([]message, error)
	MarkSeen(uids []imap.UID) error
	Close()
}

type Fetcher struct {
	cfg      config.AlertsSource
	username string
	password string
	log      zerolog.Logger

	now  func() time.Time
	open func(ctx context.Context) (mailSession, error)
}

func New(cfg config.AlertsSource, username, password string, log zerolog.Logger) *Fetcher {
	f := &Fetcher{cfg: cfg, username: username, password: password, log: log, now: time.Now}
	f.open = func(ctx context.Context) (mailSession, error) {
		return openIMAP(ctx, f.cfg, f.username, f.password)
	}
	return f
}

func (f *Fetcher) Name() string { return "alerts" }

func (f *Fetcher) Fetch(ctx context.Context) ([]domain.CandidateItem, error) {
	s, err := f.open(ctx)
	if err != nil {
		return nil, fetch.Unavailable(f.Name(), err)
	}
	defer s.Close()

	var since time.Time
	if f.cfg.LookbackDays > 0 {
		since = f.now().AddDate(0, 0, -f.cfg.LookbackDays)
	}

	msgs, err := s.Unseen(ctx, f.cfg.SenderFilter, since, maxEmails)
	if err != nil {
		return nil, fetch.Unavailable(f.Name(), err)
	}
	if len(msgs) == 0 {
		return nil, nil
	}

	best := map[string]domain.CandidateItem{} // url -> highest-scoring item
	var order []string
	processed := make([]imap.UID, 0, len(msgs))

	for _, m := range msgs {
		processed = append(processed, m.UID)

		subject, htmlBody := parseMessage(m.Raw, m.Subject)
		if strings.TrimSpace(htmlBody) == "" {
			continue
		}

		links, lerr := extractLinks(htmlBody, f.cfg.LinkHosts)
		if lerr != nil {
			continue
		}

		for _, l := range links {
			score, _ := scoreSignals(l.Text, l.URL, f.cfg.Signals, f.cfg.PostPaths)
			if score < f.cfg.MinSignal {
				continue
			}

			title := l.Text
			if title == "" {
				title = subject
			}
			item := domain.CandidateItem{
				Source:     domain.SourceEmailAlert,
				Title:      clipRunes(title, titleMaxRunes),
				Body:       subject,
				Engagement: float64(score),
				URL:        l.URL,
				PostedAt:   m.Date,
			}

			if prev, ok := best[l.URL]; !ok {
				best[l.URL] = item
				order = append(order, l.URL)
			} else if item.Engagement > prev.Engagement {
				best[l.URL] = item
			}
		}
	}

	// A failed store only costs duplicate work: the messages stay UNSEEN
	// and get re-read next run. The items extracted this run still count.
	if err := s.MarkSeen(processed); err != nil {
		f.log.Warn().Err(err).Int("messages", len(processed)).Msg("could not flag processed alerts")
	}

	items := make([]domain.CandidateItem, 0, len(order))
	for _, u := range order {
		items = append(items, best[u])
	}
	return items, nil
}

func clipRunes(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	return string(r[:max])
}
