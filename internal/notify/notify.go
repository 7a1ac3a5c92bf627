// Package notify delivers the rendered digest. Every configured channel is
// attempted once; a run only counts as failed when no channel got the
// message out.
package notify

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ErrNotifyFailed means every configured channel failed.
var ErrNotifyFailed = errors.New("all notify channels failed")

type Channel interface {
	Name() string
	Send(ctx context.Context, msg string) error
}

// Deliver sends msg on each channel. Single-channel failures are logged and
// tolerated; ErrNotifyFailed is returned only when none succeeded.
func Deliver(ctx context.Context, log zerolog.Logger, channels []Channel, msg string) error {
	if len(channels) == 0 {
		return errors.New("no notify channels configured")
	}

	delivered := 0
	for _, ch := range channels {
		if err := ch.Send(ctx, msg); err != nil {
			log.Error().Str("channel", ch.Name()).Err(err).Msg("notify channel failed")
			continue
		}
		log.Info().Str("channel", ch.Name()).Msg("digest delivered")
		delivered++
	}

	if delivered == 0 {
		return ErrNotifyFailed
	}
	return nil
}
