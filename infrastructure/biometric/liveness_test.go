package biometric

import (
	"testing"

	"facegate.io/application/config"
	"facegate.io/infrastructure/biometric/types"
	"github.com/stretchr/testify/assert"
)

func livenessSettings() *config.Settings {
	return &config.Settings{
		LivenessThreshold:         0.7,
		WeightedLivenessThreshold: 0.05,
		SpoofProbabilityThreshold: 0.8,
		SharpnessFloorLiveness:    50,
		EdgeDensityFloor:          0.05,
		ContrastFloor:             20,
	}
}

// Signals typical of a sharp, well lit live capture.
func liveSignals() types.LivenessSignals {
	return types.LivenessSignals{
		LaplacianVariance:  320,
		EdgeDensity:        0.12,
		ContrastStd:        45,
		MeanGradient:       30,
		FrequencyStd:       6,
		SaturationVariance: 650,
		GradientStd:        28,
	}
}

func TestEvaluateLiveCapture(t *testing.T) {
	analyzer := NewLivenessAnalyzer(livenessSettings())

	result := analyzer.Evaluate(liveSignals())
	assert.True(t, result.Live)
	assert.InDelta(t, 0.9, result.BasicScore, 1e-9)
	assert.Greater(t, result.WeightedScore, 0.05)
	assert.Equal(t, types.AttackNone, result.AttackType)
}

func TestEvaluateBasicGateIsConjunctive(t *testing.T) {
	analyzer := NewLivenessAnalyzer(livenessSettings())

	cases := []struct {
		name   string
		mutate func(*types.LivenessSignals)
	}{
		{"blurry", func(s *types.LivenessSignals) { s.LaplacianVariance = 30 }},
		{"featureless", func(s *types.LivenessSignals) { s.EdgeDensity = 0.01 }},
		{"flat contrast", func(s *types.LivenessSignals) { s.ContrastStd = 10 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			signals := liveSignals()
			tc.mutate(&signals)

			result := analyzer.Evaluate(signals)
			assert.Zero(t, result.BasicScore)
			assert.False(t, result.Live)
		})
	}
}

func TestEvaluateBasicGateFloorsAreExclusive(t *testing.T) {
	analyzer := NewLivenessAnalyzer(livenessSettings())
	signals := liveSignals()
	signals.LaplacianVariance = 50

	result := analyzer.Evaluate(signals)
	assert.Zero(t, result.BasicScore, "a signal sitting exactly on its floor must not pass")
}

func TestEvaluateWeightedScoreGrowsWithTexture(t *testing.T) {
	analyzer := NewLivenessAnalyzer(livenessSettings())

	flat := liveSignals()
	flat.LaplacianVariance = 60
	flat.FrequencyStd = 1
	flat.MeanGradient = 5
	flat.ContrastStd = 25

	rich := liveSignals()

	assert.Greater(t,
		analyzer.Evaluate(rich).WeightedScore,
		analyzer.Evaluate(flat).WeightedScore)
}

func TestEvaluateSpoofArgmaxNamesTheAttack(t *testing.T) {
	settings := livenessSettings()
	// A permissive spoof threshold makes the classifier's argmax observable.
	settings.SpoofProbabilityThreshold = 0.5
	analyzer := NewLivenessAnalyzer(settings)

	photo := liveSignals()
	photo.EdgeDensity = 0.16
	photo.SaturationVariance = 650
	photo.GradientStd = 40
	assert.Equal(t, types.AttackPhotoPrint, analyzer.Evaluate(photo).AttackType)

	screen := liveSignals()
	screen.EdgeDensity = 0.14
	screen.SaturationVariance = 120
	screen.GradientStd = 40
	assert.Equal(t, types.AttackScreenReplay, analyzer.Evaluate(screen).AttackType)

	mask := liveSignals()
	mask.EdgeDensity = 0.10
	mask.SaturationVariance = 650
	mask.GradientStd = 0
	assert.Equal(t, types.AttackMask3D, analyzer.Evaluate(mask).AttackType)
}

func TestEvaluateAttackTypeHiddenBelowThreshold(t *testing.T) {
	analyzer := NewLivenessAnalyzer(livenessSettings())
	signals := liveSignals()
	signals.EdgeDensity = 0.16

	result := analyzer.Evaluate(signals)
	assert.Equal(t, types.AttackNone, result.AttackType)
}
