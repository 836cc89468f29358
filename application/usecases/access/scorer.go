package access

import "math"

// CosineSimilarity compares two embeddings. A dimension mismatch scores
// exactly 0: vectors of different provenance are never comparable.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CalibrateConfidence maps raw cosine similarity onto the confidence scale
// the thresholds are expressed in. The curve is piecewise linear, steeper in
// the ambiguous middle bands, and always clamped to [0, 1].
func CalibrateConfidence(cosine float64) float64 {
	var confidence float64
	switch {
	case cosine >= 0.70:
		confidence = 0.85 + (cosine-0.70)*0.5
	case cosine >= 0.60:
		confidence = 0.70 + (cosine-0.60)*1.5
	case cosine >= 0.50:
		confidence = 0.50 + (cosine-0.50)*2.0
	case cosine >= 0.40:
		confidence = 0.30 + (cosine-0.40)*2.0
	default:
		confidence = math.Max(0, cosine*0.75)
	}
	return math.Min(1.0, math.Max(0.0, confidence))
}

// StoredTemplate is one decrypted, validated template ready for comparison.
type StoredTemplate struct {
	TemplateID string
	UserID     string
	Embedding  []float64
	Quality    float64
}

// Match is the best scoring user for a captured embedding. A user's score is
// their best template's score.
type Match struct {
	UserID     string
	TemplateID string
	Cosine     float64
	Confidence float64
}

// BestMatch scores the captured embedding against every template and returns the single
// strongest user, or nil when there are no templates to compare against.
func BestMatch(captured []float64, templates []StoredTemplate) *Match {
	var best *Match
	for _, template := range templates {
		cosine := CosineSimilarity(captured, template.Embedding)
		confidence := CalibrateConfidence(cosine)
		if best == nil || confidence > best.Confidence {
			best = &Match{
				UserID:     template.UserID,
				TemplateID: template.TemplateID,
				Cosine:     cosine,
				Confidence: confidence,
			}
		}
	}
	return best
}
