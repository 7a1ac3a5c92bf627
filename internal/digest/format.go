// Package digest renders the ranked selection as the markdown message that
// goes to Slack and email. Rendering is pure and deterministic: the same
// digest and date always produce byte-identical output.
package digest

import (
	"fmt"
	"strings"
	"time"

	"scout-engine/internal/domain"
)

var sectionTitles = map[domain.Source]string{
	domain.SourceAdLibrary:  "Promo Play",
	domain.SourceForum:      "Learner Story",
	domain.SourceEmailAlert: "Success Story",
}

// Render formats the digest. Sources render in a fixed order; empty sources
// are omitted entirely; an empty digest renders to "".
func Render(d domain.Digest, today time.Time) string {
	var sections []string

	for _, src := range domain.SourceOrder {
		items := d.PerSource[src]
		if len(items) == 0 {
			continue
		}

		var b strings.Builder
		b.WriteString("*" + sectionTitles[src] + "*")
		for _, it := range items {
			b.WriteString("\n")
			switch src {
			case domain.SourceAdLibrary:
				fmt.Fprintf(&b, "• **Hook:** %s…\n• [View Ad](%s)", it.Title, it.URL)
			case domain.SourceForum:
				fmt.Fprintf(&b, "• **%s**\n• [Reddit link](%s)", it.Title, it.URL)
			case domain.SourceEmailAlert:
				fmt.Fprintf(&b, "• **%s** (signal %d)\n• [View post](%s)", it.Title, int(it.Engagement), it.URL)
			}
		}
		sections = append(sections, b.String())
	}

	if len(sections) == 0 {
		return ""
	}
	return fmt.Sprintf("▶️ Swipe-file digest (%s)\n\n%s",
		today.Format("2006-01-02"), strings.Join(sections, "\n\n"))
}
