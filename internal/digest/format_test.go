package digest

import (
	"strings"
	"testing"
	"time"

	"scout-engine/internal/domain"
)

var renderDay = time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

func sampleDigest() domain.Digest {
	return domain.Digest{PerSource: map[domain.Source][]domain.CandidateItem{
		domain.SourceAdLibrary: {
			{Source: domain.SourceAdLibrary, Title: "Last chance: 50% off ends", Engagement: 120000, URL: "https://ads.example/snapshot/1"},
		},
		domain.SourceForum: {
			{Source: domain.SourceForum, Title: "Finally finished the cert!", Engagement: 75, URL: "https://reddit.com/r/x/1"},
			{Source: domain.SourceForum, Title: "Completed after 6 months", Engagement: 50, URL: "https://reddit.com/r/x/2"},
		},
		domain.SourceEmailAlert: {
			{Source: domain.SourceEmailAlert, Title: "Jane landed a new role", Engagement: 25, URL: "https://linkedin.com/posts/jane"},
		},
	}}
}

func TestRenderDeterministic(t *testing.T) {
	d := sampleDigest()
	a := Render(d, renderDay)
	b := Render(d, renderDay)
	if a != b {
		t.Fatal("render is not deterministic for identical input")
	}
}

func TestRenderHeaderAndOrder(t *testing.T) {
	out := Render(sampleDigest(), renderDay)

	if !strings.HasPrefix(out, "▶️ Swipe-file digest (2026-08-28)") {
		t.Fatalf("bad header: %q", firstLine(out))
	}

	promo := strings.Index(out, "*Promo Play*")
	learner := strings.Index(out, "*Learner Story*")
	success := strings.Index(out, "*Success Story*")
	if promo < 0 || learner < 0 || success < 0 {
		t.Fatalf("missing section:\n%s", out)
	}
	if !(promo < learner && learner < success) {
		t.Fatalf("sections out of order: %d %d %d", promo, learner, success)
	}
}

func TestRenderOmitsEmptySources(t *testing.T) {
	d := domain.Digest{PerSource: map[domain.Source][]domain.CandidateItem{
		domain.SourceForum: {
			{Source: domain.SourceForum, Title: "only forum", Engagement: 10, URL: "https://reddit.com/r/x/1"},
		},
	}}
	out := Render(d, renderDay)

	if strings.Contains(out, "*Promo Play*") || strings.Contains(out, "*Success Story*") {
		t.Fatalf("empty sources must not render:\n%s", out)
	}
	if !strings.Contains(out, "*Learner Story*") {
		t.Fatalf("surviving source missing:\n%s", out)
	}
}

func TestRenderEmptyDigest(t *testing.T) {
	if out := Render(domain.Digest{}, renderDay); out != "" {
		t.Fatalf("empty digest must render to empty string, got %q", out)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
