// Package adlibrary pulls recent paid ads matching the configured search
// terms from the Meta Ad Library graph endpoint. Engagement is the reported
// impressions lower bound.
package adlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"scout-engine/internal/config"
	"scout-engine/internal/domain"
	"scout-engine/internal/fetch"
	"scout-engine/internal/fetch/util"
)

const (
	defaultBaseURL = "https://graph.facebook.com/v18.0/ads_archive"
	hookMaxRunes   = 80
)

type Client struct {
	cfg   config.AdLibrarySource
	token string
	hc    *http.Client
	lim   *util.HostLimiter

	// overridable in tests
	baseURL string
	now     func() time.Time
}

func New(cfg config.AdLibrarySource, token string, lim *util.HostLimiter) *Client {
	return &Client{
		cfg:     cfg,
		token:   token,
		hc:      &http.Client{Timeout: 20 * time.Second},
		lim:     lim,
		baseURL: defaultBaseURL,
		now:     time.Now,
	}
}

func (c *Client) Name() string { return "ad_library" }

// flexNumber tolerates the graph API reporting counts as either a JSON
// number or a quoted string.
type flexNumber int64

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = flexNumber(n)
		return nil
	}
	fl, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("flex number %q: %w", s, err)
	}
	*f = flexNumber(int64(fl))
	return nil
}

type adRow struct {
	CreativeBody string     `json:"ad_creative_body"`
	LinkCaption  string     `json:"ad_creative_link_caption"`
	SnapshotURL  string     `json:"ad_snapshot_url"`
	Impressions  flexNumber `json:"impressions_lower_bound"`
	CreationTime string     `json:"ad_creation_time"`
}

type archiveResponse struct {
	Data []adRow `json:"data"`
}

func (c *Client) Fetch(ctx context.Context) ([]domain.CandidateItem, error) {
	q := url.Values{}
	q.Set("search_terms", c.cfg.SearchTerms)
	q.Set("ad_reached_countries", strings.Join(c.cfg.ReachedCountries, ","))
	q.Set("fields", "ad_creative_body,ad_creative_link_caption,ad_snapshot_url,impressions_lower_bound,ad_creation_time")
	q.Set("access_token", c.token)
	if c.cfg.LookbackDays > 0 {
		min := c.now().AddDate(0, 0, -c.cfg.LookbackDays).Format("2006-01-02")
		q.Set("ad_delivery_date_min", min)
	}
	u := c.baseURL + "?" + q.Encode()

	req, err := c.lim.Request(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fetch.Unavailable(c.Name(), err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fetch.Unavailable(c.Name(), fmt.Errorf("ads_archive status %d", res.StatusCode))
	}

	var body archiveResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fetch.Unavailable(c.Name(), fmt.Errorf("ads_archive decode: %v", err))
	}

	items := make([]domain.CandidateItem, 0, len(body.Data))
	for _, row := range body.Data {
		if strings.TrimSpace(row.SnapshotURL) == "" {
			continue
		}

		creative := html.UnescapeString(row.CreativeBody)
		postedAt := time.Time{}
		if row.CreationTime != "" {
			if t, perr := time.Parse("2006-01-02", row.CreationTime); perr == nil {
				postedAt = t
			}
		}

		items = append(items, domain.CandidateItem{
			Source:     domain.SourceAdLibrary,
			Title:      clipRunes(creative, hookMaxRunes),
			Body:       creative,
			Engagement: float64(row.Impressions),
			URL:        row.SnapshotURL,
			PostedAt:   postedAt,
		})
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
