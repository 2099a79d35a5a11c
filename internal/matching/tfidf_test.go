package matching

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTF(t *testing.T) {
	doc := []string{"refund", "charged", "refund", "order"}
	assert.Equal(t, 0.5, CalculateTF("refund", doc))
	assert.Equal(t, 0.25, CalculateTF("order", doc))
	assert.Equal(t, 0.0, CalculateTF("missing", doc))
	assert.Equal(t, 0.0, CalculateTF("refund", nil))
}

func TestCalculateIDF(t *testing.T) {
	corpus := [][]string{
		{"refund", "charged"},
		{"refund", "order"},
		{"shipping", "delay"},
		{"refund", "shipping"},
	}
	// Appears in 3 of 4 documents.
	assert.InDelta(t, math.Log(4.0/3.0), CalculateIDF("refund", corpus), 1e-12)
	// Appears in 1 of 4 documents.
	assert.InDelta(t, math.Log(4.0), CalculateIDF("delay", corpus), 1e-12)
	// A term in every document is worthless for ranking.
	allDocs := [][]string{{"refund"}, {"refund"}, {"refund"}}
	assert.Equal(t, 0.0, CalculateIDF("refund", allDocs))
	// Absent terms and empty corpora never produce Inf or NaN.
	assert.Equal(t, 0.0, CalculateIDF("missing", corpus))
	assert.Equal(t, 0.0, CalculateIDF("refund", nil))
}

func TestBuildVector(t *testing.T) {
	corpus := [][]string{
		{"refund", "charged"},
		{"shipping", "charged"},
	}
	vec := BuildVector([]string{"refund", "charged"}, corpus)
	// "charged" appears in every corpus document, so its IDF is 0 and the
	// entry is omitted from the sparse vector.
	assert.Len(t, vec, 1)
	assert.InDelta(t, 0.5*math.Log(2), vec["refund"], 1e-12)

	assert.Empty(t, BuildVector(nil, corpus))
}

func TestCosineSimilarity(t *testing.T) {
	a := map[string]float64{"x": 1, "y": 2}
	b := map[string]float64{"x": 2, "y": 1}
	assert.InDelta(t, 0.8, CosineSimilarity(a, b), 1e-12)
	// Symmetry.
	assert.Equal(t, CosineSimilarity(a, b), CosineSimilarity(b, a))
	// Self-similarity.
	assert.InDelta(t, 1.0, CosineSimilarity(a, a), 1e-12)
	// Orthogonal and degenerate inputs.
	assert.Equal(t, 0.0, CosineSimilarity(a, map[string]float64{"z": 3}))
	assert.Equal(t, 0.0, CosineSimilarity(nil, a))
	assert.Equal(t, 0.0, CosineSimilarity(a, nil))
}

func TestTextSimilarity(t *testing.T) {
	corpus := []string{
		"customer charged twice wants refund",
		"package lost during shipping",
	}

	// A text compared with itself scores 1 when its terms are discriminative
	// within the corpus.
	self := TextSimilarity(corpus[0], corpus[0], corpus)
	assert.InDelta(t, 1.0, self, 1e-9)

	// Disjoint vocabularies score 0.
	assert.Equal(t, 0.0, TextSimilarity(corpus[0], corpus[1], corpus))

	// Texts reducing to no meaningful terms score 0 immediately.
	assert.Equal(t, 0.0, TextSimilarity("the a an", corpus[0], corpus))
	assert.Equal(t, 0.0, TextSimilarity(corpus[0], "is was were", corpus))

	// Scores never escape [0,1].
	partial := TextSimilarity("charged twice for shipping", corpus[0], corpus)
	assert.GreaterOrEqual(t, partial, 0.0)
	assert.LessOrEqual(t, partial, 1.0)
}

func TestMostSimilar(t *testing.T) {
	candidates := []string{
		"package lost during shipping transit",
		"customer charged twice wants refund",
		"password reset link expired",
	}
	hit := MostSimilar("I was charged twice, need a refund", candidates)
	assert.NotNil(t, hit)
	assert.Equal(t, 1, hit.Index)
	assert.Greater(t, hit.Similarity, 0.0)

	assert.Nil(t, MostSimilar("anything", nil))

	// With no meaningful query terms every score is 0 and the first
	// candidate wins by the strict comparison.
	hit = MostSimilar("the a an", candidates)
	assert.Equal(t, 0, hit.Index)
	assert.Equal(t, 0.0, hit.Similarity)
}

func TestSimilarAboveThreshold(t *testing.T) {
	candidates := []string{
		"refund after duplicate charge",
		"password reset link expired",
		"duplicate charge on credit card refund pending",
	}
	hits := SimilarAboveThreshold("charged twice, duplicate charge, refund please", candidates, 0.1)
	assert.NotEmpty(t, hits)
	// Descending by similarity.
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Similarity, hits[i].Similarity)
	}
	for _, h := range hits {
		assert.NotEqual(t, 1, h.Index)
	}

	assert.Nil(t, SimilarAboveThreshold("query", nil, 0.5))
}
