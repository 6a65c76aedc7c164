// Package tokens provides the shared tokenizer and normalizer used by the
// vault index, the price extractor and the query engine. Tokens are lowercase
// word runs including the Danish letters that appear throughout the vault.
package tokens

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// WordPattern matches a word token, including æ/ø/å in both cases.
var WordPattern = regexp.MustCompile(`[\wæøåÆØÅ]+`)

// Tokenize returns the lowercase word tokens of text, in order of appearance.
func Tokenize(text string) []string {
	return WordPattern.FindAllString(strings.ToLower(text), -1)
}

// Stem strips a common plural or suffix ending from a token. The result is
// only used for query expansion, so the stemming is deliberately light: it
// never shortens a token below 3 runes.
func Stem(token string) string {
	n := utf8.RuneCountInString(token)
	switch {
	case strings.HasSuffix(token, "s") && n > 3:
		return strings.TrimSuffix(token, "s")
	case strings.HasSuffix(token, "er") && n > 4:
		return strings.TrimSuffix(token, "er")
	case strings.HasSuffix(token, "e") && n > 4:
		return strings.TrimSuffix(token, "e")
	}
	return token
}

// queryStopwords are dropped from queries before matching. The list mixes
// Danish and English function words with the price/package markers that
// classify a query but never identify an item.
var queryStopwords = map[string]struct{}{
	"hvad": {}, "hvor": {}, "hvem": {}, "hvordan": {},
	"det": {}, "for": {}, "til": {}, "et": {}, "en": {}, "den": {},
	"der": {}, "som": {}, "at": {}, "og": {},
	"the": {}, "what": {}, "where": {}, "how": {}, "does": {}, "do": {},
	"is": {}, "are": {}, "a": {}, "an": {}, "of": {}, "it": {},
	"cost": {}, "costs": {}, "koster": {},
	"pris": {}, "priser": {}, "price": {}, "pricing": {},
	"pakke": {}, "pakker": {}, "package": {}, "packages": {},
	"abonnement": {}, "abonnements": {},
}

// shortKeep lists domain codes kept even though they are short.
var shortKeep = map[string]struct{}{
	"gln": {}, "gtin": {}, "gdsn": {}, "sscc": {},
}

// QueryTokens tokenizes a query for matching against vault content. It drops
// stopwords and tokens shorter than 3 runes (unless on the short-keep list),
// and adds the stemmed variant of each surviving token. The result is sorted
// and deduplicated.
func QueryTokens(query string) []string {
	seen := make(map[string]struct{})
	for _, tok := range Tokenize(query) {
		if _, ok := queryStopwords[tok]; ok {
			continue
		}
		if utf8.RuneCountInString(tok) < 3 {
			if _, ok := shortKeep[tok]; !ok {
				continue
			}
		}
		seen[tok] = struct{}{}
		if stemmed := Stem(tok); stemmed != tok {
			seen[stemmed] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for tok := range seen {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}
