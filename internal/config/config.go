package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Rule is a weighted keyword category used to score alert links.
type Rule struct {
	Tag    string   `yaml:"tag"`
	Weight int      `yaml:"weight"`
	Any    []string `yaml:"any"`
}

type AdLibrarySource struct {
	Enabled          bool     `yaml:"enabled"`
	SearchTerms      string   `yaml:"search_terms"`
	ReachedCountries []string `yaml:"reached_countries"`
	LookbackDays     int      `yaml:"lookback_days"` // 0 = unbounded
}

type ForumSource struct {
	Enabled    bool     `yaml:"enabled"`
	Subreddits []string `yaml:"subreddits"`
	Query      string   `yaml:"query"`
	// Pointers so an explicit 0 (floor disabled) is distinguishable from
	// an absent key, which gets the default.
	MinUpvotes   *int     `yaml:"min_upvotes"`
	MinSentiment *float64 `yaml:"min_sentiment"`
	LookbackDays int      `yaml:"lookback_days"`
}

type AlertsSource struct {
	Enabled      bool     `yaml:"enabled"`
	IMAPHost     string   `yaml:"imap_host"`
	IMAPPort     int      `yaml:"imap_port"`
	Mailbox      string   `yaml:"mailbox"`
	SenderFilter string   `yaml:"sender_filter"`
	LookbackDays int      `yaml:"lookback_days"`
	MinSignal    int      `yaml:"min_signal"`
	LinkHosts    []string `yaml:"link_hosts"` // only links on these hosts count
	PostPaths    []string `yaml:"post_paths"` // path fragments that earn the post bonus
	Signals      []Rule   `yaml:"signals"`
}

type Config struct {
	App struct {
		DataDir string `yaml:"data_dir"`
		TopN    int    `yaml:"top_n"`
	} `yaml:"app"`

	Schedule struct {
		// SkipWeeks skips runs whose ISO week number parity matches:
		// "", "odd" or "even".
		SkipWeeks string `yaml:"skip_weeks"`
	} `yaml:"schedule"`

	Sources struct {
		AdLibrary AdLibrarySource `yaml:"ad_library"`
		Forum     ForumSource     `yaml:"forum"`
		Alerts    AlertsSource    `yaml:"alerts"`
	} `yaml:"sources"`

	Notify struct {
		Slack struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"slack"`
		Email struct {
			Enabled  bool   `yaml:"enabled"`
			SMTPHost string `yaml:"smtp_host"`
			SMTPPort int    `yaml:"smtp_port"`
			Subject  string `yaml:"subject"`
		} `yaml:"email"`
	} `yaml:"notify"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
