package matching

// stopWords is the fixed filter set applied after tokenization. Besides the
// usual English function words it carries support-desk vocabulary that shows
// up in nearly every conversation and therefore carries no ranking signal.
var stopWords = map[string]struct{}{
	// articles
	"a": {}, "an": {}, "the": {},
	// prepositions
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "from": {}, "about": {}, "into": {},
	// pronouns
	"i": {}, "me": {}, "my": {}, "we": {}, "our": {}, "you": {},
	"your": {}, "he": {}, "she": {}, "it": {}, "its": {}, "they": {},
	"them": {}, "their": {}, "this": {}, "that": {}, "these": {}, "those": {},
	// auxiliary verbs
	"am": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {},
	"been": {}, "do": {}, "does": {}, "did": {}, "have": {}, "has": {},
	"had": {}, "will": {}, "would": {}, "can": {}, "could": {}, "should": {},
	// conjunctions
	"and": {}, "or": {}, "but": {}, "if": {}, "so": {}, "as": {}, "then": {},
	// low-signal support-desk words
	"customer": {}, "issue": {}, "help": {}, "please": {}, "thanks": {},
	"thank": {}, "hello": {}, "hi": {}, "support": {}, "agent": {},
	"ticket": {}, "regards": {},
}

// IsStopWord reports whether the given term is in the fixed stop-word set.
func IsStopWord(term string) bool {
	_, ok := stopWords[term]
	return ok
}
