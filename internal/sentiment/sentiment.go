// Package sentiment scores short text snippets for polarity. It is a small
// lexicon scorer, not a full NLP pipeline: enough to separate "finally
// finished the course, best decision ever" from "waste of money, refund
// denied" when gating forum posts.
package sentiment

import (
	"math"
	"strings"
)

var positive = map[string]float64{
	"amazing":      3.0,
	"awesome":      3.0,
	"best":         2.5,
	"completed":    1.5,
	"congrats":     2.5,
	"delighted":    2.5,
	"excellent":    3.0,
	"excited":      2.0,
	"finished":     1.5,
	"glad":         2.0,
	"grateful":     2.5,
	"great":        2.5,
	"happy":        2.5,
	"helped":       1.5,
	"hired":        2.0,
	"improved":     1.5,
	"landed":       2.0,
	"love":         3.0,
	"loved":        3.0,
	"passed":       1.5,
	"proud":        2.5,
	"promoted":     2.0,
	"recommend":    2.0,
	"rewarding":    2.0,
	"succeeded":    2.0,
	"success":      2.0,
	"thankful":     2.5,
	"thanks":       1.5,
	"useful":       1.5,
	"worth":        1.5,
	"wonderful":    3.0,
	"accomplished": 2.0,
}

var negative = map[string]float64{
	"awful":        3.0,
	"bad":          2.0,
	"boring":       1.5,
	"disappointed": 2.5,
	"failed":       2.0,
	"frustrated":   2.0,
	"hate":         3.0,
	"hated":        3.0,
	"horrible":     3.0,
	"refund":       1.5,
	"regret":       2.5,
	"scam":         3.0,
	"terrible":     3.0,
	"useless":      2.5,
	"waste":        2.5,
	"worst":        3.0,
	"worthless":    2.5,
	"quit":         1.5,
	"stuck":        1.0,
}

var negators = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"nobody":  true,
	"nothing": true,
	"isnt":    true,
	"wasnt":   true,
	"dont":    true,
	"didnt":   true,
	"cant":    true,
	"wont":    true,
	"couldnt": true,
}

// Score returns a normalized polarity in [-1, 1]. Zero means neutral or no
// lexicon hits. Deterministic for a given input.
func Score(text string) float64 {
	sum := 0.0
	negate := false

	for _, tok := range tokenize(text) {
		if negators[tok] {
			negate = true
			continue
		}

		v := 0.0
		if w, ok := positive[tok]; ok {
			v = w
		} else if w, ok := negative[tok]; ok {
			v = -w
		}

		if v != 0 {
			if negate {
				v = -v
			}
			sum += v
		}
		negate = false
	}

	if sum == 0 {
		return 0
	}
	// Squash into [-1, 1]; the constant keeps single mild words well under
	// typical gate thresholds while a couple of strong words clear them.
	return sum / math.Sqrt(sum*sum+15)
}

var apostrophes = strings.NewReplacer("'", "", "’", "")

func tokenize(text string) []string {
	// strip apostrophes first so "don't" becomes the token "dont"
	text = apostrophes.Replace(strings.ToLower(text))
	return strings.FieldsFunc(text, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		default:
			return true
		}
	})
}
