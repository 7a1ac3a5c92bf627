package fetch

import (
	"context"
	"errors"
	"fmt"

	"scout-engine/internal/domain"
)

// ErrSourceUnavailable marks an upstream that returned non-2xx, timed out or
// answered with garbage. The runner logs it and omits that source from the
// digest; the run itself keeps going.
var ErrSourceUnavailable = errors.New("source unavailable")

// Fetcher produces candidate items from one external source.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.CandidateItem, error)
}

// Unavailable wraps err so callers can match it with
// errors.Is(err, ErrSourceUnavailable).
func Unavailable(name string, err error) error {
	return fmt.Errorf("%s: %w: %v", name, ErrSourceUnavailable, err)
}
