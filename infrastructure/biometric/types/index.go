package types

import "image"

// DetectedFace is one candidate face region that survived post-filtering.
type DetectedFace struct {
	Rect         image.Rectangle `json:"rect"`
	Confidence   float64         `json:"confidence"`
	Sharpness    float64         `json:"sharpness"`
	IntensityStd float64         `json:"intensity_std"`
	AspectRatio  float64         `json:"aspect_ratio"`
}

// LivenessSignals are the raw image measurements every analyzer draws from.
type LivenessSignals struct {
	LaplacianVariance  float64 `json:"laplacian_variance"`
	EdgeDensity        float64 `json:"edge_density"`
	ContrastStd        float64 `json:"contrast_std"`
	MeanGradient       float64 `json:"mean_gradient"`
	FrequencyStd       float64 `json:"frequency_std"`
	SaturationVariance float64 `json:"saturation_variance"`
	GradientStd        float64 `json:"gradient_std"`
}

type AttackType string

const (
	AttackNone         AttackType = ""
	AttackPhotoPrint   AttackType = "photo_print"
	AttackScreenReplay AttackType = "screen_replay"
	AttackMask3D       AttackType = "mask_3d"
)

// LivenessResult combines the three analyzers over one face region.
type LivenessResult struct {
	BasicScore    float64         `json:"basic_score"`
	WeightedScore float64         `json:"weighted_score"`
	SpoofScore    float64         `json:"spoof_score"`
	AttackType    AttackType      `json:"attack_type,omitempty"`
	Live          bool            `json:"live"`
	Signals       LivenessSignals `json:"signals"`
}

// FaceCapture is one fully analyzed face: location, liveness and embedding.
// Embedding is nil when the region was too blurred to embed.
type FaceCapture struct {
	Face      DetectedFace   `json:"face"`
	Liveness  LivenessResult `json:"liveness"`
	Embedding []float64      `json:"-"`
}

// FrameAnalysis is the full result of processing one verification frame.
type FrameAnalysis struct {
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Captures []FaceCapture `json:"captures"`
}

// TemplateCandidate is an enrollment-quality embedding extracted from one
// enrollment image.
type TemplateCandidate struct {
	Embedding []float64 `json:"-"`
	Quality   float64   `json:"quality"`
	Sharpness float64   `json:"sharpness"`
}
