package alerts

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"scout-engine/internal/config"
)

// postPathBonus rewards links that point at an actual post rather than a
// profile or landing page.
const postPathBonus = 5

type alertLink struct {
	URL  string
	Text string
}

// extractLinks pulls candidate story links out of alert email HTML. Alert
// providers wrap targets in redirect URLs, so every href is unwrapped first;
// when hosts is non-empty only links on those hosts survive.
func extractLinks(htmlBody string, hosts []string) ([]alertLink, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil, err
	}

	byURL := map[string]*alertLink{}
	var order []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		target := canonicalURL(unwrapRedirect(href))
		u, err := url.Parse(target)
		if err != nil || u.Host == "" {
			return
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return
		}
		if !hostAllowed(u.Host, hosts) {
			return
		}

		text := cleanText(a.Text())

		l, ok := byURL[target]
		if !ok {
			byURL[target] = &alertLink{URL: target, Text: text}
			order = append(order, target)
			return
		}
		// several anchors often point at the same story; keep the longest
		// anchor text as its preview
		if len(text) > len(l.Text) {
			l.Text = text
		}
	})

	out := make([]alertLink, 0, len(order))
	for _, u := range order {
		out = append(out, *byURL[u])
	}
	return out, nil
}

// unwrapRedirect resolves the tracking wrappers alert emails use:
// google /url?q=<target> and generic ?url=<target>.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}

	if raw := u.Query().Get("url"); raw != "" {
		if uu, err := url.Parse(raw); err == nil && uu.Host != "" {
			return uu.String()
		}
	}

	if strings.Contains(strings.ToLower(u.Host), "google.") && strings.HasPrefix(u.Path, "/url") {
		if q := u.Query().Get("q"); q != "" {
			if dec, err := url.QueryUnescape(q); err == nil {
				q = dec
			}
			if uu, err := url.Parse(q); err == nil && uu.Host != "" {
				return uu.String()
			}
		}
	}

	return href
}

// canonicalURL strips tracking params and the fragment so the same story
// reached through different alert emails dedupes to one URL.
func canonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") ||
			lk == "gclid" || lk == "fbclid" || lk == "msclkid" ||
			lk == "mc_cid" || lk == "mc_eid" ||
			lk == "mkt_tok" {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func hostAllowed(host string, hosts []string) bool {
	if len(hosts) == 0 {
		return true
	}
	host = strings.ToLower(strings.TrimPrefix(host, "www."))
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// scoreSignals rates a link's story potential against the configured keyword
// categories. Each category counts at most once; post-style URLs get a small
// bonus. Returns the score and the tags that fired.
func scoreSignals(text, linkURL string, rules []config.Rule, postPaths []string) (int, []string) {
	lower := strings.ToLower(text)

	score := 0
	var tags []string
	for _, r := range rules {
		for _, needle := range r.Any {
			n := strings.ToLower(strings.TrimSpace(needle))
			if n == "" {
				continue
			}
			if strings.Contains(lower, n) {
				score += r.Weight
				tags = append(tags, r.Tag)
				break
			}
		}
	}

	lu := strings.ToLower(linkURL)
	for _, p := range postPaths {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && strings.Contains(lu, p) {
			score += postPathBonus
			tags = append(tags, "post")
			break
		}
	}

	return score, tags
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}
