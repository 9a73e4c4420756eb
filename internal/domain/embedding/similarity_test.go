package embedding

import (
	"math"
	"testing"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestCosineSimilarityKnownValues(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
		{"mismatched lengths", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CosineSimilarity(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRankOrdersBestFirst(t *testing.T) {
	query := []float32{1, 0}
	candidates := []Candidate{
		{ImageID: 1, Vector: []float32{0, 1}},
		{ImageID: 2, Vector: []float32{1, 0}},
		{ImageID: 3, Vector: []float32{1, 1}},
	}

	matches := Rank(query, candidates, 10, nil)

	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	wantOrder := []uint{2, 3, 1}
	for i, want := range wantOrder {
		if matches[i].ImageID != want {
			t.Errorf("position %d: got image %d, want %d", i, matches[i].ImageID, want)
		}
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Similarity > matches[i-1].Similarity {
			t.Errorf("matches not sorted descending at position %d", i)
		}
	}
}

func TestRankTruncatesToLimit(t *testing.T) {
	query := []float32{1, 0}
	candidates := make([]Candidate, 0, 20)
	for i := 0; i < 20; i++ {
		candidates = append(candidates, Candidate{ImageID: uint(i + 1), Vector: []float32{1, float32(i) * 0.01}})
	}

	matches := Rank(query, candidates, 5, nil)

	if len(matches) != 5 {
		t.Fatalf("expected 5 matches, got %d", len(matches))
	}
}

func TestRankThresholdAppliesAfterTruncation(t *testing.T) {
	query := []float32{1, 0}
	// Candidate 1 scores 1.0, candidate 2 about 0.707, candidate 3 exactly 0.
	candidates := []Candidate{
		{ImageID: 1, Vector: []float32{1, 0}},
		{ImageID: 2, Vector: []float32{1, 1}},
		{ImageID: 3, Vector: []float32{0, 1}},
	}

	// Limit 2 keeps candidates 1 and 2, then the threshold drops 2. The
	// result can never regain candidate 3 even though it survived nothing.
	matches := Rank(query, candidates, 2, floatPtr(0.9))

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].ImageID != 1 {
		t.Errorf("got image %d, want 1", matches[0].ImageID)
	}
}

func TestRankHighThresholdReturnsEmpty(t *testing.T) {
	query := []float32{1, 0}
	candidates := []Candidate{
		{ImageID: 1, Vector: []float32{0, 1}},
		{ImageID: 2, Vector: []float32{-1, 0}},
	}

	matches := Rank(query, candidates, 10, floatPtr(0.99))

	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(matches))
	}
}

func TestRankNilThresholdKeepsNegativeScores(t *testing.T) {
	query := []float32{1, 0}
	candidates := []Candidate{
		{ImageID: 1, Vector: []float32{-1, 0}},
	}

	matches := Rank(query, candidates, 10, nil)

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Similarity != -1 {
		t.Errorf("got similarity %v, want -1", matches[0].Similarity)
	}
}

func TestRankRoundsScoresToFiveDecimals(t *testing.T) {
	query := []float32{1, 0}
	candidates := []Candidate{
		{ImageID: 1, Vector: []float32{1, 1}},
	}

	matches := Rank(query, candidates, 10, nil)

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	want := 0.70711 // cos(45 degrees) rounded
	if matches[0].Similarity != want {
		t.Errorf("got similarity %v, want %v", matches[0].Similarity, want)
	}
}

func TestRankThresholdComparesRawScore(t *testing.T) {
	query := []float32{1, 0}
	candidates := []Candidate{
		{ImageID: 1, Vector: []float32{1, 1}},
	}

	// The raw score is just above 0.707106, so a threshold at that value
	// must keep the match even though the reported score rounds to 0.70711.
	matches := Rank(query, candidates, 10, floatPtr(0.707106))

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
}

func TestRankEmptyCandidates(t *testing.T) {
	matches := Rank([]float32{1, 0}, nil, 10, nil)
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(matches))
	}
}
