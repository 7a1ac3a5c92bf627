package domain

import "time"

// Source identifies where a candidate item came from.
type Source string

const (
	SourceAdLibrary  Source = "ad_library"
	SourceForum      Source = "forum"
	SourceEmailAlert Source = "email_alert"
)

// SourceOrder is the fixed rendering order for digest sections.
var SourceOrder = []Source{SourceAdLibrary, SourceForum, SourceEmailAlert}

// CandidateItem is a single ad, thread, or alert considered for the digest.
// Items live only for the duration of one run.
type CandidateItem struct {
	Source     Source
	Title      string
	Body       string
	Engagement float64 // impressions / upvotes / signal score
	URL        string
	PostedAt   time.Time // recency tie-breaker
}

// Digest holds the ranked selection per source, at most N items each.
type Digest struct {
	PerSource map[Source][]CandidateItem
}
