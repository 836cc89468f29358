package access

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float64
		b    []float64
		want float64
	}{
		{
			name: "identical vectors",
			a:    []float64{1, 0, 0},
			b:    []float64{1, 0, 0},
			want: 1.0,
		},
		{
			name: "orthogonal vectors",
			a:    []float64{1, 0},
			b:    []float64{0, 1},
			want: 0.0,
		},
		{
			name: "opposite vectors",
			a:    []float64{1, 0},
			b:    []float64{-1, 0},
			want: -1.0,
		},
		{
			name: "dimension mismatch scores exactly zero",
			a:    []float64{1, 0, 0},
			b:    []float64{1, 0},
			want: 0.0,
		},
		{
			name: "empty vectors score zero",
			a:    []float64{},
			b:    []float64{},
			want: 0.0,
		},
		{
			name: "zero vector scores zero",
			a:    []float64{0, 0, 0},
			b:    []float64{1, 2, 3},
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCalibrateConfidence(t *testing.T) {
	tests := []struct {
		name   string
		cosine float64
		want   float64
	}{
		{name: "top band start", cosine: 0.70, want: 0.85},
		{name: "top band midpoint", cosine: 0.85, want: 0.925},
		{name: "perfect cosine clamps inside scale", cosine: 1.0, want: 1.0},
		{name: "second band start", cosine: 0.60, want: 0.70},
		{name: "second band interior", cosine: 0.65, want: 0.775},
		{name: "third band start", cosine: 0.50, want: 0.50},
		{name: "fourth band start", cosine: 0.40, want: 0.30},
		{name: "bottom band", cosine: 0.20, want: 0.15},
		{name: "negative cosine floors at zero", cosine: -0.5, want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalibrateConfidence(tt.cosine)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCalibrateConfidenceIsMonotonicAndClamped(t *testing.T) {
	prev := -1.0
	for cosine := -1.0; cosine <= 1.0; cosine += 0.01 {
		got := CalibrateConfidence(cosine)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
		assert.GreaterOrEqual(t, got+1e-9, prev, "calibration must not decrease at cosine %.2f", cosine)
		prev = got
	}
}

func TestBestMatch(t *testing.T) {
	templates := []StoredTemplate{
		{TemplateID: "t1", UserID: "alice", Embedding: []float64{1, 0, 0}},
		{TemplateID: "t2", UserID: "bob", Embedding: []float64{0, 1, 0}},
		{TemplateID: "t3", UserID: "alice", Embedding: []float64{0.9, 0.1, 0}},
	}

	t.Run("returns the strongest user", func(t *testing.T) {
		match := BestMatch([]float64{1, 0, 0}, templates)
		assert.NotNil(t, match)
		assert.Equal(t, "alice", match.UserID)
		assert.Equal(t, "t1", match.TemplateID)
		assert.InDelta(t, 1.0, match.Cosine, 1e-9)
	})

	t.Run("no templates yields no match", func(t *testing.T) {
		match := BestMatch([]float64{1, 0, 0}, nil)
		assert.Nil(t, match)
	})

	t.Run("mismatched template dims never win over comparable ones", func(t *testing.T) {
		mixed := append([]StoredTemplate{
			{TemplateID: "bad", UserID: "mallory", Embedding: []float64{1, 0}},
		}, templates...)
		match := BestMatch([]float64{1, 0, 0}, mixed)
		assert.Equal(t, "alice", match.UserID)
	})

	t.Run("confidence follows the calibration curve", func(t *testing.T) {
		captured := []float64{math.Sqrt(0.5), math.Sqrt(0.5), 0}
		match := BestMatch(captured, templates[:1])
		assert.InDelta(t, CalibrateConfidence(match.Cosine), match.Confidence, 1e-9)
	})
}
