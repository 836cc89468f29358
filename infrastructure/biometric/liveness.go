package biometric

import (
	"math"

	"facegate.io/application/config"
	"facegate.io/infrastructure/biometric/types"
	"gocv.io/x/gocv"
)

// LivenessAnalyzer runs three independent analyzers over one face region:
// a conjunctive gate on sharpness, edge density and contrast; a weighted
// texture model; and a spoof classifier that names the likely attack type.
type LivenessAnalyzer struct {
	settings *config.Settings
}

func NewLivenessAnalyzer(settings *config.Settings) *LivenessAnalyzer {
	return &LivenessAnalyzer{settings: settings}
}

// Analyze measures the raw signals on the region and scores them. The colour
// frame is needed for the saturation signal; gray for everything else.
func (la *LivenessAnalyzer) Analyze(faceRegion gocv.Mat) types.LivenessResult {
	gray := gocv.NewMat()
	defer gray.Close()
	if faceRegion.Channels() > 1 {
		gocv.CvtColor(faceRegion, &gray, gocv.ColorBGRToGray)
	} else {
		faceRegion.CopyTo(&gray)
	}

	gradientMean, gradientStd := sobelGradient(gray)
	signals := types.LivenessSignals{
		LaplacianVariance:  laplacianVariance(gray),
		EdgeDensity:        cannyEdgeDensity(gray),
		ContrastStd:        intensityStd(gray),
		MeanGradient:       gradientMean,
		FrequencyStd:       frequencyStd(gray),
		SaturationVariance: saturationVariance(faceRegion),
		GradientStd:        gradientStd,
	}
	return la.Evaluate(signals)
}

// Evaluate scores already-measured signals. Split from Analyze so the scoring
// behaviour is checkable without image fixtures.
func (la *LivenessAnalyzer) Evaluate(signals types.LivenessSignals) types.LivenessResult {
	basic := la.basicScore(signals)
	weighted := la.weightedScore(signals)
	spoof, attack := la.spoofScore(signals)

	live := basic >= la.settings.LivenessThreshold &&
		weighted >= la.settings.WeightedLivenessThreshold &&
		spoof <= la.settings.SpoofProbabilityThreshold

	result := types.LivenessResult{
		BasicScore:    basic,
		WeightedScore: weighted,
		SpoofScore:    spoof,
		Live:          live,
		Signals:       signals,
	}
	if spoof > la.settings.SpoofProbabilityThreshold {
		result.AttackType = attack
	}
	return result
}

// basicScore is all-or-nothing: every signal must clear its floor. A region
// that passes scores 0.9, one that fails anything scores 0.
func (la *LivenessAnalyzer) basicScore(signals types.LivenessSignals) float64 {
	if signals.LaplacianVariance > la.settings.SharpnessFloorLiveness &&
		signals.EdgeDensity > la.settings.EdgeDensityFloor &&
		signals.ContrastStd > la.settings.ContrastFloor {
		return 0.9
	}
	return 0.0
}

// weightedScore pushes four scaled texture features through a fixed linear
// model and a sigmoid. The weights came out of offline fitting against the
// capture corpus; treat them as data.
func (la *LivenessAnalyzer) weightedScore(signals types.LivenessSignals) float64 {
	features := []float64{
		signals.LaplacianVariance / 500.0,
		signals.FrequencyStd / 10.0,
		signals.MeanGradient / 50.0,
		signals.ContrastStd / 100.0,
	}
	weights := []float64{0.3, 0.25, 0.25, 0.2}
	score := 0.1
	for i, f := range features {
		score += weights[i] * f
	}
	return sigmoid(score)
}

// spoofScore estimates per-attack probabilities and combines them. The
// returned attack type is the argmax of the three.
func (la *LivenessAnalyzer) spoofScore(signals types.LivenessSignals) (float64, types.AttackType) {
	photo := 1.0
	if signals.EdgeDensity <= 0.15 {
		photo = signals.EdgeDensity / 0.15
	}

	screen := 1.0
	if signals.SaturationVariance >= 200 {
		screen = math.Max(0, (400-signals.SaturationVariance)/200)
	}

	mask := 1.0 - math.Min(1.0, signals.GradientStd/30.0)

	combined := sigmoid(0.4*photo + 0.3*screen + 0.3*mask)

	attack := types.AttackPhotoPrint
	best := photo
	if screen > best {
		attack = types.AttackScreenReplay
		best = screen
	}
	if mask > best {
		attack = types.AttackMask3D
	}
	return combined, attack
}
