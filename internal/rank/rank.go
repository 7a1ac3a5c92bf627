// Package rank selects the digest-worthy slice of a run's candidates.
package rank

import (
	"sort"

	"scout-engine/internal/domain"
)

// Top keeps at most n items per source, ordered by engagement descending.
// Ties break on recency (newer first), then URL, so the result is fully
// deterministic for a given input. Pure function.
func Top(items []domain.CandidateItem, n int) domain.Digest {
	per := map[domain.Source][]domain.CandidateItem{}
	for _, it := range items {
		per[it.Source] = append(per[it.Source], it)
	}

	for src, xs := range per {
		xs = append([]domain.CandidateItem(nil), xs...)
		sort.SliceStable(xs, func(i, j int) bool {
			if xs[i].Engagement != xs[j].Engagement {
				return xs[i].Engagement > xs[j].Engagement
			}
			if !xs[i].PostedAt.Equal(xs[j].PostedAt) {
				return xs[i].PostedAt.After(xs[j].PostedAt)
			}
			return xs[i].URL < xs[j].URL
		})
		if n > 0 && len(xs) > n {
			xs = xs[:n]
		}
		per[src] = xs
	}

	return domain.Digest{PerSource: per}
}
