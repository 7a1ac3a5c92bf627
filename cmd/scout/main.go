// Command scout runs one pass of the swipe-file digest: fetch the enabled
// sources, rank the candidates, render markdown, deliver it. It takes no
// flags; an external scheduler decides when it runs.
//
// Exit code 0 covers everything up to and including partial source failures;
// non-zero means the run could not even start (bad config, missing
// credentials) or the digest could not be delivered anywhere.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"scout-engine/internal/config"
	"scout-engine/internal/fetch"
	"scout-engine/internal/fetch/adlibrary"
	"scout-engine/internal/fetch/alerts"
	"scout-engine/internal/fetch/forum"
	"scout-engine/internal/fetch/util"
	"scout-engine/internal/logx"
	"scout-engine/internal/notify"
	"scout-engine/internal/run"
	"scout-engine/internal/runlock"
	"scout-engine/internal/secrets"
)

const defaultCfgPath = "config/config.yml"

func main() {
	os.Exit(realMain())
}

func realMain() int {
	// .env is a local-dev convenience; in production the scheduler injects
	// the environment directly.
	_ = godotenv.Load()

	log := logx.New()

	cfg, err := loadConfig()
	if err != nil {
		log.Error().Err(err).Msg("config error")
		return 1
	}

	sec, err := config.LoadSecrets(cfg, secrets.Get)
	if err != nil {
		log.Error().Err(err).Msg("config error")
		return 1
	}

	if run.SkipWeek(cfg.Schedule.SkipWeeks, time.Now()) {
		log.Info().Str("parity", cfg.Schedule.SkipWeeks).Msg("skip week, not running")
		return 0
	}

	release, ok, err := runlock.Acquire(filepath.Join(cfg.App.DataDir, "scout.lock"))
	if err != nil {
		log.Error().Err(err).Msg("run lock")
		return 1
	}
	if !ok {
		log.Info().Msg("another run is in progress, exiting")
		return 0
	}
	defer release()

	r := &run.Runner{
		Cfg:      cfg,
		Log:      log,
		Fetchers: buildFetchers(cfg, sec, log),
		Channels: buildChannels(cfg, sec),
		Out:      os.Stdout,
	}

	if err := r.Once(context.Background()); err != nil {
		log.Error().Err(err).Msg("run failed")
		return 1
	}
	return 0
}

func loadConfig() (config.Config, error) {
	// SCOUT_DATA_DIR is authoritative when set: the seeded config and the
	// run lock must land in the same directory.
	dataDir := os.Getenv("SCOUT_DATA_DIR")

	path := os.Getenv("SCOUT_CONFIG")
	if path == "" {
		dir := dataDir
		if dir == "" {
			dir = "."
		}
		p, err := config.EnsureUserConfig(dir, defaultCfgPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("config bootstrap: %w", err)
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("config load (%s): %w", path, err)
	}
	cfg, err = config.NormalizeAndValidate(cfg)
	if err != nil {
		return cfg, err
	}
	if dataDir != "" {
		cfg.App.DataDir = dataDir
	}
	return cfg, nil
}

func buildFetchers(cfg config.Config, sec config.Secrets, log zerolog.Logger) []fetch.Fetcher {
	limiter := util.NewHostLimiter(1.0, 2)

	var fetchers []fetch.Fetcher
	if cfg.Sources.AdLibrary.Enabled {
		fetchers = append(fetchers, adlibrary.New(cfg.Sources.AdLibrary, sec.FBToken, limiter))
	}
	if cfg.Sources.Forum.Enabled {
		fetchers = append(fetchers, forum.New(cfg.Sources.Forum, sec.RedditID, sec.RedditSecret, limiter))
	}
	if cfg.Sources.Alerts.Enabled {
		fetchers = append(fetchers, alerts.New(cfg.Sources.Alerts, sec.IMAPUser, sec.IMAPPassword, log))
	}
	return fetchers
}

func buildChannels(cfg config.Config, sec config.Secrets) []notify.Channel {
	var channels []notify.Channel
	if cfg.Notify.Slack.Enabled {
		channels = append(channels, notify.NewSlack(sec.SlackWebhook))
	}
	if cfg.Notify.Email.Enabled {
		channels = append(channels, notify.NewEmail(
			cfg.Notify.Email.SMTPHost,
			cfg.Notify.Email.SMTPPort,
			sec.EmailFrom,
			sec.EmailPassword,
			sec.EmailTo,
			cfg.Notify.Email.Subject,
		))
	}
	return channels
}
