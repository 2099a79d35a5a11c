package matching

import (
	"math"
	"sort"
	"strings"

	"supportmatch-go/internal/model"
)

// Engine configuration defaults. Tag rank dominates the blended confidence;
// text similarity refines it.
const (
	DefaultTagWeight   = 0.7
	DefaultTFIDFWeight = 0.3
	DefaultMaxResults  = 5
	// DefaultCategoryRoot is the root marker a category prefix must carry to
	// survive the fallback filter.
	DefaultCategoryRoot = "CX:"

	maxMatchedKeywords = 3
	confidenceStep     = 5
)

// Config holds the fixed scoring constants of one Engine instance. These are
// not runtime-negotiated per call.
type Config struct {
	// TagWeight and TFIDFWeight blend tag rank and text similarity into the
	// final confidence. They are expected to sum to 1.
	TagWeight   float64
	TFIDFWeight float64
	// EnableTFIDFScoring turns the text-similarity enhancement on. When off,
	// survivors score on tag rank alone.
	EnableTFIDFScoring bool
	// MaxResults bounds the survivor pool before similarity is computed.
	MaxResults int
	// SortByConfidence re-sorts the final result list by descending blended
	// confidence. Historically the list kept survivor pool order even though
	// confidences were blended; the re-sort is therefore opt-in so existing
	// consumers see unchanged ordering.
	SortByConfidence bool
	// CategoryRoot is the prefix a derived category must start with during
	// fallback matching.
	CategoryRoot string
}

// DefaultConfig returns the production scoring constants.
func DefaultConfig() Config {
	return Config{
		TagWeight:          DefaultTagWeight,
		TFIDFWeight:        DefaultTFIDFWeight,
		EnableTFIDFScoring: true,
		MaxResults:         DefaultMaxResults,
		SortByConfidence:   false,
		CategoryRoot:       DefaultCategoryRoot,
	}
}

// Engine ranks candidate conversations against a live one. It holds only its
// Config: every Match call is a pure function of its inputs, so one Engine is
// safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine, filling zero-valued Config fields with the
// production defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.TagWeight == 0 && cfg.TFIDFWeight == 0 {
		cfg.TagWeight = DefaultTagWeight
		cfg.TFIDFWeight = DefaultTFIDFWeight
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.CategoryRoot == "" {
		cfg.CategoryRoot = DefaultCategoryRoot
	}
	return &Engine{cfg: cfg}
}

// RequiredMatches returns how many of a candidate's tags must be exact
// members of the current tag set for the candidate to pass the exact filter.
// The threshold loosens proportionally as the tag count grows ("X-1"
// tolerance: most, but not all, tags must match).
func RequiredMatches(tagCount int) int {
	switch {
	case tagCount <= 2:
		return 1
	case tagCount == 3:
		return 2
	default:
		return 3
	}
}

// CategoryPrefix derives the two-segment category of a hierarchical tag:
// "CX: Billing: Refund" -> "CX: Billing:". Tags with fewer than two
// colon-delimited segments carry no category and report ok=false.
func CategoryPrefix(tag string) (prefix string, ok bool) {
	parts := strings.Split(tag, ":")
	if len(parts) < 2 {
		return "", false
	}
	return parts[0] + ":" + parts[1] + ":", true
}

// FilterByTags runs the tag gate, the exact-match filter, and the category
// fallback over the pool, returning survivors in pool order truncated to
// MaxResults. An empty current tag set means a match is unsupported and the
// result is empty; it is never downgraded to pure text similarity. Likewise,
// when neither filter tier passes anything, the unfiltered pool is never
// used as a fallback.
func (e *Engine) FilterByTags(currentTags []string, pool []model.Candidate) []model.Candidate {
	if len(currentTags) == 0 || len(pool) == 0 {
		return nil
	}

	currentSet := make(map[string]struct{}, len(currentTags))
	for _, t := range currentTags {
		currentSet[t] = struct{}{}
	}
	required := RequiredMatches(len(currentTags))

	var survivors []model.Candidate
	for _, cand := range pool {
		if countExactMatches(cand.Tags, currentSet) >= required {
			survivors = append(survivors, cand)
		}
	}

	if len(survivors) == 0 {
		survivors = e.filterByCategory(currentTags, pool)
	}

	if len(survivors) > e.cfg.MaxResults {
		survivors = survivors[:e.cfg.MaxResults]
	}
	return survivors
}

// filterByCategory is the second filter tier: a candidate passes when one of
// its tags extends a category prefix derived from the current tags. A tag
// that equals the bare prefix does not count.
func (e *Engine) filterByCategory(currentTags []string, pool []model.Candidate) []model.Candidate {
	prefixes := make([]string, 0, len(currentTags))
	for _, t := range currentTags {
		prefix, ok := CategoryPrefix(t)
		if !ok || !strings.HasPrefix(prefix, e.cfg.CategoryRoot) {
			continue
		}
		prefixes = append(prefixes, prefix)
	}
	if len(prefixes) == 0 {
		return nil
	}

	var survivors []model.Candidate
	for _, cand := range pool {
		if candidateExtendsPrefix(cand.Tags, prefixes) {
			survivors = append(survivors, cand)
		}
	}
	return survivors
}

// Match runs the full pipeline: tag filtering, truncation, and confidence
// scoring. Results keep survivor pool order unless SortByConfidence is set.
func (e *Engine) Match(currentTags []string, currentText string, pool []model.Candidate) []model.Match {
	survivors := e.FilterByTags(currentTags, pool)
	if len(survivors) == 0 {
		return nil
	}
	return e.Score(currentText, survivors)
}

// Score computes the blended confidence for an already-filtered survivor
// list. Position i earns a base of 100-5i; when text-similarity enhancement
// is enabled and both texts are nonempty, the base is blended with the
// TF-IDF cosine similarity computed against the survivors' texts as the
// shared corpus. A survivor whose text could not be obtained simply keeps
// its base confidence.
func (e *Engine) Score(currentText string, survivors []model.Candidate) []model.Match {
	if len(survivors) > e.cfg.MaxResults {
		survivors = survivors[:e.cfg.MaxResults]
	}

	// The corpus must be fully materialized before any similarity is
	// computed: IDF weights depend on the whole survivor set.
	corpus := make([]string, len(survivors))
	for i, s := range survivors {
		corpus[i] = s.Text
	}
	currentTerms := ExtractUniqueTerms(currentText)

	results := make([]model.Match, 0, len(survivors))
	for i, cand := range survivors {
		base := 100 - confidenceStep*i
		confidence := base
		if e.cfg.EnableTFIDFScoring && currentText != "" && cand.Text != "" {
			sim := TextSimilarity(currentText, cand.Text, corpus)
			blended := float64(base)*e.cfg.TagWeight + sim*100*e.cfg.TFIDFWeight
			confidence = clampConfidence(int(math.Round(blended)))
		}
		results = append(results, model.Match{
			ConversationID:  cand.ID,
			CustomerName:    cand.DisplayName,
			Summary:         cand.Summary,
			Confidence:      confidence,
			MatchedKeywords: matchedKeywords(currentTerms, cand.Text),
			ExternalURL:     cand.ExternalURL,
			MessageCount:    cand.MessageCount,
		})
	}

	if e.cfg.SortByConfidence {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Confidence > results[j].Confidence
		})
	}
	return results
}

// matchedKeywords picks up to three of the candidate's extracted terms,
// preferring terms the current conversation also contains. Without current
// text to intersect with, the candidate's leading unique terms stand in.
func matchedKeywords(currentTerms []string, candidateText string) []string {
	candTerms := ExtractUniqueTerms(candidateText)
	if len(candTerms) == 0 {
		return nil
	}
	if len(currentTerms) == 0 {
		if len(candTerms) > maxMatchedKeywords {
			candTerms = candTerms[:maxMatchedKeywords]
		}
		return candTerms
	}
	currentSet := make(map[string]struct{}, len(currentTerms))
	for _, t := range currentTerms {
		currentSet[t] = struct{}{}
	}
	var shared []string
	for _, t := range candTerms {
		if _, ok := currentSet[t]; ok {
			shared = append(shared, t)
			if len(shared) == maxMatchedKeywords {
				break
			}
		}
	}
	return shared
}

func countExactMatches(candidateTags []string, currentSet map[string]struct{}) int {
	seen := make(map[string]struct{}, len(candidateTags))
	count := 0
	for _, t := range candidateTags {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := currentSet[t]; ok {
			count++
		}
	}
	return count
}

func candidateExtendsPrefix(candidateTags, prefixes []string) bool {
	for _, tag := range candidateTags {
		for _, prefix := range prefixes {
			if strings.HasPrefix(tag, prefix) && len(tag) > len(prefix) {
				return true
			}
		}
	}
	return false
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
