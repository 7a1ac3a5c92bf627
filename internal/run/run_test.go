package run

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"scout-engine/internal/config"
	"scout-engine/internal/domain"
	"scout-engine/internal/fetch"
	"scout-engine/internal/notify"
)

type stubFetcher struct {
	name  string
	items []domain.CandidateItem
	err   error
}

func (s *stubFetcher) Name() string { return s.name }
func (s *stubFetcher) Fetch(context.Context) ([]domain.CandidateItem, error) {
	return s.items, s.err
}

type stubChannel struct {
	name string
	err  error
	got  string
}

func (s *stubChannel) Name() string { return s.name }
func (s *stubChannel) Send(_ context.Context, msg string) error {
	s.got = msg
	return s.err
}

func forumItem(title string, ups float64) domain.CandidateItem {
	return domain.CandidateItem{
		Source:     domain.SourceForum,
		Title:      title,
		Engagement: ups,
		URL:        "https://reddit.com/r/x/" + title,
		PostedAt:   time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC),
	}
}

func testRunner(fetchers []fetch.Fetcher, channels []notify.Channel) *Runner {
	var cfg config.Config
	cfg.App.TopN = 3
	return &Runner{
		Cfg:      cfg,
		Log:      zerolog.Nop(),
		Fetchers: fetchers,
		Channels: channels,
		Now:      func() time.Time { return time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC) },
	}
}

func TestOnceToleratesDeadSource(t *testing.T) {
	dead := &stubFetcher{name: "forum", err: fetch.ErrSourceUnavailable}
	live := &stubFetcher{
		name:  "alerts",
		items: []domain.CandidateItem{{
			Source:     domain.SourceEmailAlert,
			Title:      "New role announcement",
			Engagement: 20,
			URL:        "https://linkedin.com/posts/abc",
		}},
	}
	ch := &stubChannel{name: "slack"}

	r := testRunner([]fetch.Fetcher{dead, live}, []notify.Channel{ch})
	if err := r.Once(context.Background()); err != nil {
		t.Fatalf("Once should absorb a dead source: %v", err)
	}
	if !strings.Contains(ch.got, "New role announcement") {
		t.Fatalf("digest not delivered: %q", ch.got)
	}
	if !strings.Contains(ch.got, "2026-08-28") {
		t.Fatalf("digest header missing run date: %q", ch.got)
	}
}

func TestOnceEmptyDigestSkipsNotify(t *testing.T) {
	empty := &stubFetcher{name: "forum"}
	ch := &stubChannel{name: "slack", err: errors.New("must not be called")}

	r := testRunner([]fetch.Fetcher{empty}, []notify.Channel{ch})
	if err := r.Once(context.Background()); err != nil {
		t.Fatalf("Once: %v", err)
	}
	if ch.got != "" {
		t.Fatalf("channel was called with %q", ch.got)
	}
}

func TestOncePrintsWhenNoChannels(t *testing.T) {
	f := &stubFetcher{
		name:  "forum",
		items: []domain.CandidateItem{forumItem("finished-the-course", 42)},
	}

	var out strings.Builder
	r := testRunner([]fetch.Fetcher{f}, nil)
	r.Out = &out

	if err := r.Once(context.Background()); err != nil {
		t.Fatalf("Once: %v", err)
	}
	if !strings.Contains(out.String(), "finished-the-course") {
		t.Fatalf("digest not printed: %q", out.String())
	}
}

func TestOncePropagatesTotalNotifyFailure(t *testing.T) {
	f := &stubFetcher{
		name:  "forum",
		items: []domain.CandidateItem{forumItem("a", 1)},
	}
	a := &stubChannel{name: "slack", err: errors.New("boom")}
	b := &stubChannel{name: "email", err: errors.New("boom")}

	r := testRunner([]fetch.Fetcher{f}, []notify.Channel{a, b})
	err := r.Once(context.Background())
	if !errors.Is(err, notify.ErrNotifyFailed) {
		t.Fatalf("expected ErrNotifyFailed, got %v", err)
	}
}

func TestSkipWeek(t *testing.T) {
	oddWeek := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)  // ISO week 35
	evenWeek := time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC) // ISO week 34

	if !SkipWeek("odd", oddWeek) {
		t.Error("odd parity should skip an odd week")
	}
	if SkipWeek("even", oddWeek) {
		t.Error("even parity should run an odd week")
	}
	if !SkipWeek("even", evenWeek) {
		t.Error("even parity should skip an even week")
	}
	if SkipWeek("", oddWeek) || SkipWeek("", evenWeek) {
		t.Error("empty parity never skips")
	}
}
