// Package classifier decides whether a question asks to enumerate a collection
// or to find something specific in it.
package classifier

import (
	"regexp"

	"bitsa-assistant/internal/models"
)

const collections = `(events?|blogs?|posts?|articles?|projects?|leaders?|reports?)`

// broadPatterns is matched case-insensitively against the whole utterance.
var broadPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bshow\s+(me\s+)?(all|every|everything)\b`),
	regexp.MustCompile(`(?i)\blist\s+(all|every|the|your)?\s*` + collections),
	regexp.MustCompile(`(?i)\blist\s+(all|everything)\b`),
	regexp.MustCompile(`(?i)\bwhat\b.*\bavailable\b`),
	regexp.MustCompile(`(?i)\b(upcoming|latest|recent)\s+` + collections),
	regexp.MustCompile(`(?i)\bwhat\s+(are\s+the\s+)?` + collections + `\b`),
	regexp.MustCompile(`(?i)\b(all|any)\s+(the\s+)?` + collections + `\b`),
	regexp.MustCompile(`(?i)\bhow\s+many\s+` + collections),
	regexp.MustCompile(`(?i)\bwho\s+are\s+(the|your)\s+(current\s+)?leaders\b`),
}

// IsBroad reports whether rawText is a listing request. Unmatched text is targeted.
func IsBroad(rawText string) bool {
	for _, p := range broadPatterns {
		if p.MatchString(rawText) {
			return true
		}
	}
	return false
}

// Classify builds the request's RetrievalQuery.
func Classify(rawText string) models.RetrievalQuery {
	return models.RetrievalQuery{
		RawText: rawText,
		IsBroad: IsBroad(rawText),
	}
}
