// Package forum searches the configured subreddits for fresh, positive
// posts. A client-credentials OAuth token is minted per run; posts pass the
// gate when they clear both the upvote floor and the sentiment threshold.
package forum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"scout-engine/internal/config"
	"scout-engine/internal/domain"
	"scout-engine/internal/fetch"
	"scout-engine/internal/fetch/util"
	"scout-engine/internal/sentiment"
)

const (
	defaultTokenURL = "https://www.reddit.com/api/v1/access_token"
	defaultAPIBase  = "https://oauth.reddit.com"
	searchLimit     = 50
	titleMaxRunes   = 100
)

type Client struct {
	cfg    config.ForumSource
	id     string
	secret string
	hc     *http.Client
	lim    *util.HostLimiter

	// overridable in tests
	tokenURL string
	apiBase  string
	now      func() time.Time
}

func New(cfg config.ForumSource, id, secret string, lim *util.HostLimiter) *Client {
	return &Client{
		cfg:      cfg,
		id:       id,
		secret:   secret,
		hc:       &http.Client{Timeout: 20 * time.Second},
		lim:      lim,
		tokenURL: defaultTokenURL,
		apiBase:  defaultAPIBase,
		now:      time.Now,
	}
}

func (c *Client) Name() string { return "forum" }

type listing struct {
	Data struct {
		Children []struct {
			Data post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type post struct {
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Ups        int     `json:"ups"`
	Permalink  string  `json:"permalink"`
	CreatedUTC float64 `json:"created_utc"`
}

func (c *Client) Fetch(ctx context.Context) ([]domain.CandidateItem, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", c.cfg.Query)
	q.Set("sort", "new")
	q.Set("restrict_sr", "on")
	q.Set("limit", fmt.Sprint(searchLimit))
	u := fmt.Sprintf("%s/r/%s/search?%s", c.apiBase, strings.Join(c.cfg.Subreddits, "+"), q.Encode())

	req, err := c.lim.Request(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "bearer "+token)

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fetch.Unavailable(c.Name(), err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fetch.Unavailable(c.Name(), fmt.Errorf("search status %d", res.StatusCode))
	}

	var lst listing
	if err := json.NewDecoder(res.Body).Decode(&lst); err != nil {
		return nil, fetch.Unavailable(c.Name(), fmt.Errorf("search decode: %v", err))
	}

	var cutoff time.Time
	if c.cfg.LookbackDays > 0 {
		cutoff = c.now().AddDate(0, 0, -c.cfg.LookbackDays)
	}

	var items []domain.CandidateItem
	for _, child := range lst.Data.Children {
		p := child.Data
		postedAt := time.Unix(int64(p.CreatedUTC), 0).UTC()

		if !cutoff.IsZero() && postedAt.Before(cutoff) {
			continue
		}
		if p.Ups < *c.cfg.MinUpvotes {
			continue
		}
		if sentiment.Score(p.Title+" "+p.Selftext) <= *c.cfg.MinSentiment {
			continue
		}

		items = append(items, domain.CandidateItem{
			Source:     domain.SourceForum,
			Title:      clipRunes(p.Title, titleMaxRunes),
			Body:       p.Selftext,
			Engagement: float64(p.Ups),
			URL:        "https://reddit.com" + p.Permalink,
			PostedAt:   postedAt,
		})
	}
	return items, nil
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := c.lim.Request(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.id, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.hc.Do(req)
	if err != nil {
		return "", fetch.Unavailable(c.Name(), err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fetch.Unavailable(c.Name(), fmt.Errorf("token status %d", res.StatusCode))
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fetch.Unavailable(c.Name(), fmt.Errorf("token decode: %v", err))
	}
	if body.AccessToken == "" {
		return "", fetch.Unavailable(c.Name(), fmt.Errorf("token response had no access_token"))
	}
	return body.AccessToken, nil
}

func clipRunes(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	return string(r[:max])
}
