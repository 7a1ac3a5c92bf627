package forum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"scout-engine/internal/config"
	"scout-engine/internal/fetch"
	"scout-engine/internal/fetch/util"
)

func testCfg() config.ForumSource {
	minUps := 10
	minSent := 0.4
	return config.ForumSource{
		Enabled:      true,
		Subreddits:   []string{"coursera", "learnprogramming"},
		Query:        "coursera completed OR finished",
		MinUpvotes:   &minUps,
		MinSentiment: &minSent,
	}
}

type redditPost struct {
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Ups        int     `json:"ups"`
	Permalink  string  `json:"permalink"`
	CreatedUTC float64 `json:"created_utc"`
}

func listingJSON(posts ...redditPost) []byte {
	type child struct {
		Data redditPost `json:"data"`
	}
	var children []child
	for _, p := range posts {
		children = append(children, child{Data: p})
	}
	b, _ := json.Marshal(map[string]any{
		"data": map[string]any{"children": children},
	})
	return b
}

func newTestClient(t *testing.T, tokenStatus int, posts []redditPost) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("token request method = %s", r.Method)
		}
		if u, p, ok := r.BasicAuth(); !ok || u != "id" || p != "secret" {
			t.Errorf("bad basic auth: %q %q", u, p)
		}
		if tokenStatus != http.StatusOK {
			http.Error(w, "nope", tokenStatus)
			return
		}
		fmt.Fprint(w, `{"access_token":"tok123","token_type":"bearer"}`)
	})
	mux.HandleFunc("/r/coursera+learnprogramming/search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "bearer tok123" {
			t.Errorf("bad bearer header: %q", got)
		}
		if got := r.URL.Query().Get("restrict_sr"); got != "on" {
			t.Errorf("restrict_sr = %q", got)
		}
		w.Write(listingJSON(posts...))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := New(testCfg(), "id", "secret", util.NewHostLimiter(100, 100))
	c.tokenURL = srv.URL + "/api/v1/access_token"
	c.apiBase = srv.URL
	return c
}

func TestFetchGatesOnUpvotesAndSentiment(t *testing.T) {
	now := float64(time.Now().Unix())
	posts := []redditPost{
		{Title: "Finally completed my certificate, so grateful and proud", Ups: 50, Permalink: "/r/coursera/1", CreatedUTC: now},
		{Title: "Completed the course, total waste of money, I regret it", Ups: 80, Permalink: "/r/coursera/2", CreatedUTC: now},
		{Title: "Finished and very happy, best course, loved it", Ups: 3, Permalink: "/r/coursera/3", CreatedUTC: now},
		{Title: "Week 3 notes on linear algebra", Ups: 40, Permalink: "/r/coursera/4", CreatedUTC: now},
	}

	items, err := newTestClient(t, http.StatusOK, posts).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected exactly 1 gated item, got %d: %+v", len(items), items)
	}

	it := items[0]
	if !strings.HasPrefix(it.URL, "https://reddit.com/r/coursera/1") {
		t.Fatalf("bad permalink expansion: %q", it.URL)
	}
	if it.Engagement != 50 {
		t.Fatalf("engagement should be upvotes: %v", it.Engagement)
	}
}

func TestFetchTokenFailureIsSourceUnavailable(t *testing.T) {
	_, err := newTestClient(t, http.StatusUnauthorized, nil).Fetch(context.Background())
	if !errors.Is(err, fetch.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestFetchLookbackCutsOldPosts(t *testing.T) {
	c := newTestClient(t, http.StatusOK, []redditPost{
		{Title: "Old but completed and grateful, best decision", Ups: 99, Permalink: "/r/coursera/old", CreatedUTC: float64(time.Now().AddDate(0, 0, -30).Unix())},
	})
	c.cfg.LookbackDays = 7

	items, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected old post to be cut, got %+v", items)
	}
}
