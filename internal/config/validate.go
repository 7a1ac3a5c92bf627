package config

import (
	"errors"
	"fmt"
	"strings"
)

// NormalizeAndValidate fills defaults, trims list values and checks the
// config for contradictions. A returned error is fatal: the run must abort
// before any network call.
func NormalizeAndValidate(cfg Config) (Config, error) {
	out := cfg
	var errs []string

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	// ---- Defaults ----

	if out.App.DataDir == "" {
		out.App.DataDir = "."
	}
	if out.App.TopN == 0 {
		out.App.TopN = 3
	}
	if out.Sources.Forum.MinUpvotes == nil {
		v := 10
		out.Sources.Forum.MinUpvotes = &v
	}
	if out.Sources.Forum.MinSentiment == nil {
		v := 0.4
		out.Sources.Forum.MinSentiment = &v
	}
	if out.Sources.Alerts.IMAPHost == "" {
		out.Sources.Alerts.IMAPHost = "imap.gmail.com"
	}
	if out.Sources.Alerts.IMAPPort == 0 {
		out.Sources.Alerts.IMAPPort = 993
	}
	if out.Sources.Alerts.Mailbox == "" {
		out.Sources.Alerts.Mailbox = "INBOX"
	}
	if out.Sources.Alerts.SenderFilter == "" {
		out.Sources.Alerts.SenderFilter = "googlealerts-noreply@google.com"
	}
	if out.Sources.Alerts.MinSignal == 0 {
		out.Sources.Alerts.MinSignal = 15
	}
	if out.Notify.Email.SMTPHost == "" {
		out.Notify.Email.SMTPHost = "smtp.gmail.com"
	}
	if out.Notify.Email.SMTPPort == 0 {
		out.Notify.Email.SMTPPort = 587
	}
	if out.Notify.Email.Subject == "" {
		out.Notify.Email.Subject = "Swipe-File Digest"
	}

	out.Sources.AdLibrary.ReachedCountries = trimList(out.Sources.AdLibrary.ReachedCountries)
	out.Sources.Forum.Subreddits = trimList(out.Sources.Forum.Subreddits)
	out.Sources.Alerts.LinkHosts = trimList(out.Sources.Alerts.LinkHosts)
	out.Sources.Alerts.PostPaths = trimList(out.Sources.Alerts.PostPaths)

	// ---- Validation ----

	if out.App.TopN < 1 {
		errs = append(errs, "app.top_n must be >= 1")
	}

	switch out.Schedule.SkipWeeks {
	case "", "odd", "even":
	default:
		errs = append(errs, fmt.Sprintf("schedule.skip_weeks must be odd, even or empty (got %q)", out.Schedule.SkipWeeks))
	}

	if !out.Sources.AdLibrary.Enabled && !out.Sources.Forum.Enabled && !out.Sources.Alerts.Enabled {
		errs = append(errs, "no sources enabled: enable ad_library, forum or alerts")
	}

	if out.Sources.AdLibrary.Enabled {
		if strings.TrimSpace(out.Sources.AdLibrary.SearchTerms) == "" {
			errs = append(errs, "sources.ad_library.search_terms is required when enabled")
		}
		if len(out.Sources.AdLibrary.ReachedCountries) == 0 {
			errs = append(errs, "sources.ad_library.reached_countries is required when enabled")
		}
	}

	if out.Sources.Forum.Enabled {
		if len(out.Sources.Forum.Subreddits) == 0 {
			errs = append(errs, "sources.forum.subreddits is required when enabled")
		}
		if strings.TrimSpace(out.Sources.Forum.Query) == "" {
			errs = append(errs, "sources.forum.query is required when enabled")
		}
		if *out.Sources.Forum.MinUpvotes < 0 {
			errs = append(errs, "sources.forum.min_upvotes must be >= 0")
		}
		if s := *out.Sources.Forum.MinSentiment; s < -1 || s > 1 {
			errs = append(errs, "sources.forum.min_sentiment must be within [-1, 1]")
		}
	}

	if out.Sources.Alerts.Enabled {
		for i, r := range out.Sources.Alerts.Signals {
			if r.Tag == "" {
				errs = append(errs, fmt.Sprintf("sources.alerts.signals[%d].tag is required", i))
			}
			if len(r.Any) == 0 {
				errs = append(errs, fmt.Sprintf("sources.alerts.signals[%d].any must have at least 1 term", i))
			}
		}
	}

	if len(errs) > 0 {
		return out, errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return out, nil
}
