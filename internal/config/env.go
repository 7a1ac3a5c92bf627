package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Secrets holds every credential the run may need. They are injected via
// environment variables at process start and never written to disk.
type Secrets struct {
	FBToken      string // ad library graph token
	RedditID     string
	RedditSecret string

	IMAPUser     string
	IMAPPassword string

	SlackWebhook string

	EmailFrom     string
	EmailPassword string
	EmailTo       string
}

// PasswordFallback resolves a password when its env var is unset
// (typically the OS keyring). It may be nil.
type PasswordFallback func(account string) (string, error)

// LoadSecrets reads the credentials required by the enabled components and
// fails fast when any of them is missing, before any network call is made.
func LoadSecrets(cfg Config, fb PasswordFallback) (Secrets, error) {
	var s Secrets
	var missing []string

	get := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	require := func(key string) string {
		v := get(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	password := func(key, account string) string {
		if v := get(key); v != "" {
			return v
		}
		if fb != nil {
			if pw, err := fb(account); err == nil && strings.TrimSpace(pw) != "" {
				return pw
			}
		}
		missing = append(missing, key)
		return ""
	}

	if cfg.Sources.AdLibrary.Enabled {
		s.FBToken = require("FB_TOKEN")
	}
	if cfg.Sources.Forum.Enabled {
		s.RedditID = require("REDDIT_ID")
		s.RedditSecret = require("REDDIT_SECRET")
	}
	if cfg.Sources.Alerts.Enabled {
		s.IMAPUser = require("IMAP_USER")
		if s.IMAPUser != "" {
			account := fmt.Sprintf("imap:%s@%s", s.IMAPUser, cfg.Sources.Alerts.IMAPHost)
			s.IMAPPassword = password("IMAP_PW", account)
		}
	}
	if cfg.Notify.Slack.Enabled {
		s.SlackWebhook = require("SLACK_WEBHOOK")
	}
	if cfg.Notify.Email.Enabled {
		s.EmailFrom = require("EMAIL_FROM")
		s.EmailTo = require("EMAIL_TO")
		if s.EmailFrom != "" {
			account := fmt.Sprintf("smtp:%s@%s", s.EmailFrom, cfg.Notify.Email.SMTPHost)
			s.EmailPassword = password("EMAIL_PW", account)
		}
	}

	if len(missing) > 0 {
		return s, errors.New("missing required environment variables: " + strings.Join(missing, ", "))
	}
	return s, nil
}
