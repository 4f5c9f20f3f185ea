package review

import "strings"

const minWordCount = 10

// Tokens that disqualify a review outright.
var blocklist = map[string]struct{}{
	"shit":    {},
	"fuck":    {},
	"crap":    {},
	"damn":    {},
	"bastard": {},
}

// Verifier applies the content quality gate for incoming reviews. All checks
// are case-insensitive, whitespace-tokenized and pure.
type Verifier struct{}

func NewVerifier() Verifier {
	return Verifier{}
}

// DoesMeetQualityStandards reports whether content passes every quality
// heuristic. It is a gate, not a score: any tripped rule fails the review.
func (Verifier) DoesMeetQualityStandards(content string) bool {
	lowered := strings.ToLower(content)
	words := strings.Fields(lowered)

	if len(words) < minWordCount {
		return false
	}

	if strings.Contains(lowered, "lorem ipsum") {
		return false
	}

	iCount := 0
	for _, word := range words {
		token := strings.Trim(word, ".,;:!?\"'()")
		if _, banned := blocklist[token]; banned {
			return false
		}
		if token == "i" {
			iCount++
		}
	}

	// A review that is mostly about the reviewer says little about the book.
	if iCount*100/len(words) > 30 {
		return false
	}

	// "good" alone in a short blurb is filler, not substance.
	if strings.Contains(lowered, "good") && len(content) < 30 {
		return false
	}

	return true
}
