// Package query orchestrates answering a chat message: it classifies the
// question, gathers supporting snippets from the vault, calls the answer
// generator and enforces that grounded answers cite their sources.
package query

import (
	"regexp"
	"strings"
)

var identityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`hvem er du`),
	regexp.MustCompile(`hvad hedder du`),
	regexp.MustCompile(`what's your name`),
	regexp.MustCompile(`what is your name`),
	regexp.MustCompile(`who are you`),
}

var infoKeywords = []string{
	"price", "pricing", "pakke", "package", "service", "policy", "politik",
	"proces", "process", "procedure", "how", "what", "where", "hvad",
	"hvordan", "hvor", "cost", "pris", "priser", "timeline", "tidslinje",
	"find", "show", "tell me", "forklar", "vis",
}

var priceMarkers = []string{
	"pris", "priser", "price", "pricing", "pakke", "pakker", "package",
	"packages", "abonnement", "abonnements", "gebyr", "fee", "fees",
	"cost", "costs", "koster", "hvad koster",
}

var countMarkers = []string{"how many", "hvor mange", "antal", "number of", "count"}

var industryMarkers = []string{
	"branche", "brancher", "industri", "industrier", "industries",
	"sektor", "sektorer",
}

// IsIdentityQuestion reports whether the message asks who the assistant is.
func IsIdentityQuestion(text string) bool {
	lowered := strings.TrimSpace(strings.ToLower(text))
	for _, pattern := range identityPatterns {
		if pattern.MatchString(lowered) {
			return true
		}
	}
	return false
}

// IsInfoSeeking reports whether the message asks for information from the
// vault. Any question mark counts, as do a set of question keywords.
func IsInfoSeeking(text string) bool {
	lowered := strings.ToLower(text)
	if strings.Contains(lowered, "?") {
		return true
	}
	return containsAnyMarker(lowered, infoKeywords)
}

// IsPriceQuery reports whether the message asks about prices or packages.
func IsPriceQuery(text string) bool {
	return containsAnyMarker(strings.ToLower(text), priceMarkers)
}

// IsCountQuery reports whether the message asks for a count.
func IsCountQuery(text string) bool {
	return containsAnyMarker(strings.ToLower(text), countMarkers)
}

// IsIndustryQuery reports whether the message mentions industries.
func IsIndustryQuery(text string) bool {
	return containsAnyMarker(strings.ToLower(text), industryMarkers)
}

func containsAnyMarker(lowered string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
