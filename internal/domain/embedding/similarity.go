package embedding

import (
	"math"
	"sort"
)

// Candidate pairs a stored image with its resolved vector.
type Candidate struct {
	ImageID uint
	Vector  []float32
}

// Match is a transient query result: a candidate image and how close it is
// to the query, higher meaning more similar.
type Match struct {
	ImageID    uint
	Similarity float64
}

// scorePrecision keeps reported scores stable across runs; cosine scores are
// rounded to 5 decimal digits.
const scorePrecision = 1e5

// Rank scores every candidate against the query vector with cosine
// similarity, orders them best first and truncates to limit. A non-nil
// threshold then drops matches scoring strictly below it; filtering happens
// after truncation, so a threshold can only shrink the result set, never
// pull in candidates beyond the top-limit ones.
//
// This is a deliberate brute-force scan over the full corpus on every call.
// At the corpus sizes this service handles an index would cost more in
// invalidation bookkeeping than it saves in scan time.
func Rank(query []float32, candidates []Candidate, limit int, threshold *float64) []Match {
	if limit <= 0 {
		limit = 10
	}

	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		matches = append(matches, Match{
			ImageID:    candidate.ImageID,
			Similarity: CosineSimilarity(query, candidate.Vector),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	filtered := matches[:0]
	for _, match := range matches {
		if threshold != nil && match.Similarity < *threshold {
			continue
		}
		match.Similarity = roundScore(match.Similarity)
		filtered = append(filtered, match)
	}

	return filtered
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-length vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func roundScore(score float64) float64 {
	return math.Round(score*scorePrecision) / scorePrecision
}
