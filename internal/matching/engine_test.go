package matching

import (
	"fmt"
	"testing"

	"supportmatch-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredMatches(t *testing.T) {
	assert.Equal(t, 1, RequiredMatches(1))
	assert.Equal(t, 1, RequiredMatches(2))
	assert.Equal(t, 2, RequiredMatches(3))
	assert.Equal(t, 3, RequiredMatches(4))
	assert.Equal(t, 3, RequiredMatches(9))
}

func TestCategoryPrefix(t *testing.T) {
	prefix, ok := CategoryPrefix("CX: Billing: Refund")
	assert.True(t, ok)
	assert.Equal(t, "CX: Billing:", prefix)

	prefix, ok = CategoryPrefix("CX: Billing")
	assert.True(t, ok)
	assert.Equal(t, "CX: Billing:", prefix)

	_, ok = CategoryPrefix("Priority")
	assert.False(t, ok)
}

func TestFilterByTagsExactTier(t *testing.T) {
	e := NewEngine(DefaultConfig())
	pool := []model.Candidate{
		{ID: "c1", Tags: []string{"CX: Billing: Refund", "CX: Tier1"}},
		{ID: "c2", Tags: []string{"CX: Shipping: Delay"}},
		{ID: "c3", Tags: []string{"CX: Billing: Refund"}},
	}

	// Two current tags require one exact match.
	survivors := e.FilterByTags([]string{"CX: Billing: Refund", "CX: VIP"}, pool)
	require.Len(t, survivors, 2)
	assert.Equal(t, "c1", survivors[0].ID)
	assert.Equal(t, "c3", survivors[1].ID)
}

func TestFilterByTagsDuplicateTagsCountOnce(t *testing.T) {
	e := NewEngine(DefaultConfig())
	current := []string{"CX: Billing: Refund", "CX: Tier1", "CX: VIP", "CX: Escalated"}
	pool := []model.Candidate{
		// Three copies of one matching tag are still a single match.
		{ID: "dup", Tags: []string{"CX: Tier1", "CX: Tier1", "CX: Tier1"}},
		{ID: "real", Tags: []string{"CX: Tier1", "CX: VIP", "CX: Escalated"}},
	}
	survivors := e.FilterByTags(current, pool)
	require.Len(t, survivors, 1)
	assert.Equal(t, "real", survivors[0].ID)
}

func TestFilterByTagsCategoryFallback(t *testing.T) {
	e := NewEngine(DefaultConfig())
	current := []string{"CX: Billing: Refund"}
	pool := []model.Candidate{
		// No exact tag matches anywhere, so the category tier decides.
		{ID: "extends", Tags: []string{"CX: Billing: Duplicate charge"}},
		{ID: "bare", Tags: []string{"CX: Billing:"}},
		{ID: "other", Tags: []string{"CX: Shipping: Delay"}},
	}
	survivors := e.FilterByTags(current, pool)
	require.Len(t, survivors, 1)
	assert.Equal(t, "extends", survivors[0].ID)
}

func TestFilterByTagsCategoryRequiresRoot(t *testing.T) {
	e := NewEngine(DefaultConfig())
	// The derived category does not start with the configured root, so the
	// fallback tier has nothing to work with.
	survivors := e.FilterByTags(
		[]string{"Internal: Ops: Oncall"},
		[]model.Candidate{{ID: "c1", Tags: []string{"Internal: Ops: Paging"}}},
	)
	assert.Empty(t, survivors)
}

func TestFilterByTagsNoUnfilteredFallback(t *testing.T) {
	e := NewEngine(DefaultConfig())
	pool := []model.Candidate{
		{ID: "c1", Tags: []string{"CX: Shipping: Delay"}},
	}
	// Neither tier passes anything; the raw pool is never handed through.
	assert.Empty(t, e.FilterByTags([]string{"CX: Billing: Refund"}, pool))
	// No current tags means matching is unsupported entirely.
	assert.Empty(t, e.FilterByTags(nil, pool))
}

func TestFilterByTagsTruncation(t *testing.T) {
	e := NewEngine(DefaultConfig())
	pool := make([]model.Candidate, 8)
	for i := range pool {
		pool[i] = model.Candidate{
			ID:   fmt.Sprintf("c%d", i),
			Tags: []string{"CX: Billing: Refund"},
		}
	}
	survivors := e.FilterByTags([]string{"CX: Billing: Refund"}, pool)
	require.Len(t, survivors, 5)
	// Pool order is preserved through truncation.
	for i, s := range survivors {
		assert.Equal(t, fmt.Sprintf("c%d", i), s.ID)
	}
}

func TestScoreBaseConfidence(t *testing.T) {
	e := NewEngine(Config{EnableTFIDFScoring: false})
	survivors := make([]model.Candidate, 5)
	for i := range survivors {
		survivors[i] = model.Candidate{ID: fmt.Sprintf("c%d", i), Text: "charged twice refund"}
	}
	results := e.Score("charged twice refund", survivors)
	require.Len(t, results, 5)
	expected := []int{100, 95, 90, 85, 80}
	for i, r := range results {
		assert.Equal(t, expected[i], r.Confidence)
	}
}

func TestScoreBlendedConfidence(t *testing.T) {
	e := NewEngine(DefaultConfig())
	survivors := []model.Candidate{
		{ID: "same", Text: "customer charged twice wants refund"},
		{ID: "other", Text: "package lost during shipping"},
	}

	results := e.Score("customer charged twice wants refund", survivors)
	require.Len(t, results, 2)
	// Perfect similarity keeps the top candidate at 100:
	// round(100*0.7 + 1.0*100*0.3).
	assert.Equal(t, 100, results[0].Confidence)
	// Zero similarity drags the second down to 95*0.7, give or take the
	// rounding of the halfway value.
	assert.InDelta(t, 66.5, float64(results[1].Confidence), 0.51)
}

func TestScoreMissingTextKeepsBase(t *testing.T) {
	e := NewEngine(DefaultConfig())
	survivors := []model.Candidate{
		{ID: "c0", Text: ""},
		{ID: "c1", Text: "package lost during shipping"},
	}
	results := e.Score("lost package", survivors)
	require.Len(t, results, 2)
	// No text means no blending, base confidence stands.
	assert.Equal(t, 100, results[0].Confidence)
}

func TestScoreEmptyCurrentTextKeepsBase(t *testing.T) {
	e := NewEngine(DefaultConfig())
	survivors := []model.Candidate{
		{ID: "c0", Text: "package lost during shipping"},
	}
	results := e.Score("", survivors)
	require.Len(t, results, 1)
	assert.Equal(t, 100, results[0].Confidence)
}

func TestScoreOrdering(t *testing.T) {
	survivors := []model.Candidate{
		{ID: "first", Text: "password reset link expired"},
		{ID: "second", Text: "customer charged twice wants refund"},
	}
	currentText := "customer charged twice wants refund"

	// Default: survivor pool order is kept even when a later candidate
	// scores higher.
	e := NewEngine(DefaultConfig())
	results := e.Score(currentText, survivors)
	require.Len(t, results, 2)
	assert.Equal(t, "first", results[0].ConversationID)
	assert.Greater(t, results[1].Confidence, results[0].Confidence)

	// Opt-in: descending by confidence.
	cfg := DefaultConfig()
	cfg.SortByConfidence = true
	sorted := NewEngine(cfg).Score(currentText, survivors)
	assert.Equal(t, "second", sorted[0].ConversationID)
	assert.GreaterOrEqual(t, sorted[0].Confidence, sorted[1].Confidence)
}

func TestMatchedKeywords(t *testing.T) {
	e := NewEngine(DefaultConfig())
	survivors := []model.Candidate{
		{ID: "c0", Text: "customer was charged twice and wants a refund for the order"},
	}

	results := e.Score("refund charged twice for order", survivors)
	require.Len(t, results, 1)
	// Shared terms, in candidate order, capped at three.
	assert.Equal(t, []string{"charged", "twice", "refund"}, results[0].MatchedKeywords)

	// Without current text the candidate's own leading terms stand in.
	results = e.Score("", survivors)
	assert.Equal(t, []string{"charged", "twice", "wants"}, results[0].MatchedKeywords)
}

func TestMatchFullPipeline(t *testing.T) {
	e := NewEngine(DefaultConfig())
	pool := []model.Candidate{
		{
			ID:           "conv-1",
			Tags:         []string{"CX: Billing: Refund"},
			Text:         "customer charged twice wants refund",
			DisplayName:  "Dana",
			Summary:      "Duplicate charge refunded",
			ExternalURL:  "https://desk.example.com/agent/conversations/conv-1",
			MessageCount: 12,
		},
		{ID: "conv-2", Tags: []string{"CX: Shipping: Delay"}, Text: "package lost"},
	}

	matches := e.Match([]string{"CX: Billing: Refund"}, "I got charged twice, refund please", pool)
	require.Len(t, matches, 1)
	m := matches[0]
	assert.Equal(t, "conv-1", m.ConversationID)
	assert.Equal(t, "Dana", m.CustomerName)
	assert.Equal(t, "Duplicate charge refunded", m.Summary)
	assert.Equal(t, 12, m.MessageCount)
	assert.GreaterOrEqual(t, m.Confidence, 0)
	assert.LessOrEqual(t, m.Confidence, 100)

	assert.Nil(t, e.Match(nil, "text", pool))
}
