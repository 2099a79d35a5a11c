package matching

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "hello world", Normalize("  Hello   WORLD  "))
	assert.Equal(t, "bold text here", Normalize("<b>bold</b> <i>text</i> here"))
	assert.Equal(t, "visit now", Normalize("visit https://example.com/path?q=1 now"))
	assert.Equal(t, "see too", Normalize("see www.example.com too"))
	assert.Equal(t, "contact for details", Normalize("contact John.Doe@example.com for details"))
	assert.Equal(t, "don't panic", Normalize("Don't panic!!!"))
	assert.Equal(t, "caf menu", Normalize("café menu"))
}

func TestTokenize(t *testing.T) {
	assert.Nil(t, Tokenize(""))
	assert.Equal(t, []string{"ab", "cd"}, Tokenize("ab c cd"))
	// Purely numeric tokens carry no signal; mixed ones do.
	assert.Equal(t, []string{"12a", "a1"}, Tokenize("123 12a 7 a1"))
}

func TestRemoveStopWords(t *testing.T) {
	assert.Nil(t, RemoveStopWords(nil))
	assert.Equal(t, []string{"refund", "pending"},
		RemoveStopWords([]string{"the", "refund", "is", "pending"}))
	// Support-desk vocabulary is filtered alongside function words.
	assert.Equal(t, []string{"charged", "twice"},
		RemoveStopWords([]string{"hello", "customer", "charged", "twice", "thanks"}))
}

func TestExtractTerms(t *testing.T) {
	terms := ExtractTerms("Hello, the customer was charged TWICE for order #12345!")
	assert.Equal(t, []string{"charged", "twice", "order"}, terms)

	assert.Empty(t, ExtractTerms("the a an is was"))
	assert.Empty(t, ExtractTerms(""))
}

func TestExtractTermsIdempotent(t *testing.T) {
	texts := []string{
		"The customer was charged twice for their order",
		"Refund request: <b>duplicate</b> payment via https://pay.example.com",
		"Don't cancel my subscription please",
	}
	for _, text := range texts {
		terms := ExtractTerms(text)
		again := ExtractTerms(strings.Join(terms, " "))
		assert.Equal(t, terms, again)
	}
}

func TestExtractTermFrequencies(t *testing.T) {
	freq := ExtractTermFrequencies("refund refund charged")
	assert.Equal(t, map[string]int{"refund": 2, "charged": 1}, freq)
	assert.Empty(t, ExtractTermFrequencies("the a an"))
}

func TestExtractUniqueTerms(t *testing.T) {
	unique := ExtractUniqueTerms("refund charged refund twice charged")
	assert.Equal(t, []string{"refund", "charged", "twice"}, unique)
	assert.Nil(t, ExtractUniqueTerms(""))
}
