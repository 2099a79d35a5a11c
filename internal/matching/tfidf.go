package matching

import (
	"math"
	"sort"
)

// CalculateTF returns the relative frequency of term in doc: count / length.
// An empty document yields 0.
func CalculateTF(term string, doc []string) float64 {
	if len(doc) == 0 {
		return 0
	}
	count := 0
	for _, t := range doc {
		if t == term {
			count++
		}
	}
	return float64(count) / float64(len(doc))
}

// CalculateIDF returns ln(corpusSize / docsContainingTerm). By definition it
// is exactly 0 when the corpus is empty or no document contains the term, so
// callers never see NaN or Inf from a divide-by-zero.
func CalculateIDF(term string, corpus [][]string) float64 {
	if len(corpus) == 0 {
		return 0
	}
	containing := 0
	for _, doc := range corpus {
		for _, t := range doc {
			if t == term {
				containing++
				break
			}
		}
	}
	if containing == 0 {
		return 0
	}
	return math.Log(float64(len(corpus)) / float64(containing))
}

// CalculateTFIDF is the product of term frequency and inverse document
// frequency for a term within a document, relative to the given corpus.
func CalculateTFIDF(term string, doc []string, corpus [][]string) float64 {
	return CalculateTF(term, doc) * CalculateIDF(term, corpus)
}

// BuildVector computes the sparse TF-IDF vector of a document against a
// corpus. The map holds the document's unique terms only, and zero-weight
// entries are omitted entirely.
func BuildVector(doc []string, corpus [][]string) map[string]float64 {
	vector := make(map[string]float64)
	if len(doc) == 0 {
		return vector
	}
	seen := make(map[string]struct{}, len(doc))
	for _, term := range doc {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		if w := CalculateTFIDF(term, doc, corpus); w != 0 {
			vector[term] = w
		}
	}
	return vector
}

// CosineSimilarity returns dot(a,b) / (|a|*|b|) for two sparse vectors.
// Empty vectors and zero magnitudes yield 0 rather than NaN.
func CosineSimilarity(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, magA, magB float64
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
		magA += wa * wa
	}
	for _, wb := range b {
		magB += wb * wb
	}
	denom := math.Sqrt(magA) * math.Sqrt(magB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

// TextSimilarity scores two raw texts in [0,1] using TF-IDF vectors weighted
// against corpusTexts. If either text yields no meaningful terms the score is
// 0 immediately. Callers must supply one consistent corpus for every
// comparison within a single ranking pass so that IDF weights stay stable.
func TextSimilarity(text1, text2 string, corpusTexts []string) float64 {
	terms1 := ExtractTerms(text1)
	if len(terms1) == 0 {
		return 0
	}
	terms2 := ExtractTerms(text2)
	if len(terms2) == 0 {
		return 0
	}
	corpus := extractCorpus(corpusTexts)
	v1 := BuildVector(terms1, corpus)
	v2 := BuildVector(terms2, corpus)
	sim := CosineSimilarity(v1, v2)
	// Guard against floating drift past 1.0 on near-identical vectors.
	if sim > 1 {
		return 1
	}
	if sim < 0 {
		return 0
	}
	return sim
}

// SimilarityHit pairs a candidate index with its similarity score.
type SimilarityHit struct {
	Index      int     `json:"index"`
	Similarity float64 `json:"similarity"`
}

// MostSimilar returns the best-scoring candidate for the query, using the
// candidate list itself as the IDF corpus. It returns nil for an empty list.
// Comparison is strict, so ties favor the earliest candidate.
func MostSimilar(query string, candidates []string) *SimilarityHit {
	if len(candidates) == 0 {
		return nil
	}
	scores := scoreAgainst(query, candidates)
	best := &SimilarityHit{Index: 0, Similarity: scores[0]}
	for i := 1; i < len(scores); i++ {
		if scores[i] > best.Similarity {
			best = &SimilarityHit{Index: i, Similarity: scores[i]}
		}
	}
	return best
}

// SimilarAboveThreshold returns every candidate scoring at or above the
// threshold, sorted by similarity descending. Candidates with equal scores
// keep their original relative order.
func SimilarAboveThreshold(query string, candidates []string, threshold float64) []SimilarityHit {
	if len(candidates) == 0 {
		return nil
	}
	scores := scoreAgainst(query, candidates)
	hits := make([]SimilarityHit, 0, len(scores))
	for i, s := range scores {
		if s >= threshold {
			hits = append(hits, SimilarityHit{Index: i, Similarity: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	return hits
}

// scoreAgainst computes the query's similarity to each candidate with the
// candidate list as the shared corpus, extracting every text exactly once.
func scoreAgainst(query string, candidates []string) []float64 {
	corpus := extractCorpus(candidates)
	scores := make([]float64, len(candidates))
	queryTerms := ExtractTerms(query)
	if len(queryTerms) == 0 {
		return scores
	}
	queryVec := BuildVector(queryTerms, corpus)
	for i, doc := range corpus {
		if len(doc) == 0 {
			continue
		}
		scores[i] = CosineSimilarity(queryVec, BuildVector(doc, corpus))
	}
	return scores
}

func extractCorpus(texts []string) [][]string {
	corpus := make([][]string, len(texts))
	for i, t := range texts {
		corpus[i] = ExtractTerms(t)
	}
	return corpus
}
