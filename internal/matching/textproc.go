// Package matching implements the similarity core of the assistant: text
// normalization, TF-IDF weighting over a per-call corpus, and the tag-based
// matching engine that ranks historical conversations against a live one.
//
// Everything in this package is pure computation. There is no I/O, no shared
// state between calls, and malformed input always degrades to empty output
// rather than an error.
package matching

import (
	"regexp"
	"strings"
)

// Compiled once; Normalize is on the hot path of every ranking pass.
var (
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
	urlPattern     = regexp.MustCompile(`(https?://\S+)|(www\.\S+)`)
	emailPattern   = regexp.MustCompile(`[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`)
	keepPattern    = regexp.MustCompile(`[^a-z0-9\s']+`)
	spacePattern   = regexp.MustCompile(`\s+`)
	digitsPattern  = regexp.MustCompile(`^[0-9]+$`)
)

// Normalize lowercases raw conversation text and strips everything that is
// noise for term extraction: HTML markup, URLs, email addresses, and any
// character that is not alphanumeric, whitespace, or an apostrophe.
// Whitespace runs are collapsed and the result is trimmed.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	s := strings.ToLower(text)
	s = htmlTagPattern.ReplaceAllString(s, " ")
	s = urlPattern.ReplaceAllString(s, " ")
	s = emailPattern.ReplaceAllString(s, " ")
	s = keepPattern.ReplaceAllString(s, " ")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokenize splits normalized text on whitespace and drops tokens that cannot
// carry signal: empties, single characters, and purely numeric tokens.
func Tokenize(normalized string) []string {
	if normalized == "" {
		return nil
	}
	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len(tok) < 2 {
			continue
		}
		if digitsPattern.MatchString(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// RemoveStopWords filters the fixed stop-word set out of a token sequence.
func RemoveStopWords(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	filtered := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if IsStopWord(tok) {
			continue
		}
		filtered = append(filtered, tok)
	}
	return filtered
}

// ExtractTerms is the single entry point used by all downstream consumers:
// normalize, tokenize, then drop stop words. The result is an ordered
// sequence of meaningful terms; re-applying it to its own (joined) output
// yields the same terms.
func ExtractTerms(text string) []string {
	return RemoveStopWords(Tokenize(Normalize(text)))
}

// ExtractTermFrequencies returns the extracted terms as a term -> count map.
func ExtractTermFrequencies(text string) map[string]int {
	terms := ExtractTerms(text)
	if len(terms) == 0 {
		return map[string]int{}
	}
	freq := make(map[string]int, len(terms))
	for _, t := range terms {
		freq[t]++
	}
	return freq
}

// ExtractUniqueTerms returns the extracted terms deduplicated, preserving
// first-occurrence order.
func ExtractUniqueTerms(text string) []string {
	terms := ExtractTerms(text)
	if len(terms) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(terms))
	unique := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		unique = append(unique, t)
	}
	return unique
}
