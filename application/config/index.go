package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Settings is the single immutable configuration object for the recognition
// engine. It is built once at process start and handed to every component
// constructor; nothing reads the environment after Load returns.
type Settings struct {
	Port    string
	GinMode string

	DBURL  string
	DBName string

	RedisAddr     string
	RedisPassword string

	// TemplateKey is the AES-256 key protecting embeddings at rest. Rotating
	// it orphans every existing template; recovery is re-enrollment.
	TemplateKey []byte

	// EmbeddingModelPath points at the ONNX face embedding network.
	EmbeddingModelPath string
	// EmbeddingModelID names the model whose vectors live in the store.
	// Templates from a different model id are never compared.
	EmbeddingModelID string
	// EmbeddingDims is the vector length the model must emit. Guards the
	// scorer against comparing vectors of mixed provenance.
	EmbeddingDims int

	// CascadePath is the Haar cascade XML used by the face locator.
	CascadePath string

	// MaxImageBytes rejects oversized payloads before any decoding work.
	MaxImageBytes int

	// AcceptanceThreshold is the minimum calibrated confidence for a match
	// to count at all. Guard 3 of the decision chain.
	AcceptanceThreshold float64
	// MatchSanityFloor is distinctly below AcceptanceThreshold; a best match
	// under it is treated as an unknown person rather than a weak match.
	// Guard 2 of the decision chain.
	MatchSanityFloor float64

	// LivenessThreshold gates the conjunctive three-signal analyzer.
	LivenessThreshold float64
	// WeightedLivenessThreshold gates the weighted four-signal analyzer.
	WeightedLivenessThreshold float64
	// SpoofProbabilityThreshold is the combined spoof score above which an
	// attack classification is reported and liveness fails.
	SpoofProbabilityThreshold float64

	// DetectorScaleFactor / DetectorMinNeighbors bias the cascade toward
	// few, strongly confirmed detections over many noisy ones.
	DetectorScaleFactor  float64
	DetectorMinNeighbors int
	// DetectorMinFacePx / DetectorMaxFacePx bound the candidate box size.
	// Small boxes are overwhelmingly false positives at checkpoint range.
	DetectorMinFacePx int
	DetectorMaxFacePx int
	// DetectorMinIntensityStd rejects flat regions; real faces carry
	// intensity variation.
	DetectorMinIntensityStd float64
	// DetectorMinAspect / DetectorMaxAspect bound width/height to human
	// face proportions.
	DetectorMinAspect float64
	DetectorMaxAspect float64
	// DetectorMaxFaces caps how many regions one frame may yield.
	DetectorMaxFaces int

	// SharpnessFloorLiveness is the Laplacian-variance floor for the
	// liveness gate (blurred replays fail here).
	SharpnessFloorLiveness float64
	// SharpnessFloorAcquire is the lower acquisition floor: a face blurrier
	// than this is not worth embedding at all.
	SharpnessFloorAcquire float64
	// EdgeDensityFloor is the Canny edge-pixel ratio floor (flat screen
	// captures fail here).
	EdgeDensityFloor float64
	// ContrastFloor is the intensity stddev floor (printed photos fail here).
	ContrastFloor float64

	// EnrollmentQualityFloor discards enrollment faces whose combined
	// size/variance quality falls below it.
	EnrollmentQualityFloor float64

	// EvidenceRoot is the directory evidence images are written under.
	EvidenceRoot string
	// EvidenceJPEGQuality balances audit fidelity against disk use.
	EvidenceJPEGQuality int

	// FailedAttemptStreak denials at one checkpoint inside
	// FailedAttemptWindow raise a multiple-failed-attempts alert.
	FailedAttemptStreak int
	FailedAttemptWindow time.Duration

	// AlertEmailTo receives denial notifications.
	AlertEmailTo string
}

// Load reads the environment exactly once and returns the frozen settings.
func Load() (*Settings, error) {
	s := &Settings{
		Port:    envOr("PORT", "8000"),
		GinMode: envOr("GIN_MODE", "debug"),

		DBURL:  os.Getenv("DB_URL"),
		DBName: envOr("DB_NAME", "facegate"),

		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		EmbeddingModelPath: envOr("EMBEDDING_MODEL_PATH", "./models/arcface/arcface.onnx"),
		EmbeddingModelID:   envOr("EMBEDDING_MODEL_ID", "arcface-512"),
		EmbeddingDims:      envIntOr("EMBEDDING_DIMS", 512),

		CascadePath: envOr("CASCADE_PATH", "./models/haarcascades/haarcascade_frontalface_default.xml"),

		MaxImageBytes: envIntOr("MAX_IMAGE_SIZE", 5*1024*1024),

		AcceptanceThreshold: envFloatOr("CONFIDENCE_THRESHOLD", 0.95),
		MatchSanityFloor:    envFloatOr("MATCH_SANITY_FLOOR", 0.80),

		LivenessThreshold:         envFloatOr("LIVENESS_THRESHOLD", 0.7),
		WeightedLivenessThreshold: envFloatOr("WEIGHTED_LIVENESS_THRESHOLD", 0.05),
		SpoofProbabilityThreshold: envFloatOr("SPOOF_PROBABILITY_THRESHOLD", 0.8),

		DetectorScaleFactor:     envFloatOr("DETECTOR_SCALE_FACTOR", 1.05),
		DetectorMinNeighbors:    envIntOr("DETECTOR_MIN_NEIGHBORS", 15),
		DetectorMinFacePx:       envIntOr("DETECTOR_MIN_FACE_PX", 150),
		DetectorMaxFacePx:       envIntOr("DETECTOR_MAX_FACE_PX", 300),
		DetectorMinIntensityStd: envFloatOr("DETECTOR_MIN_INTENSITY_STD", 25),
		DetectorMinAspect:       envFloatOr("DETECTOR_MIN_ASPECT", 0.6),
		DetectorMaxAspect:       envFloatOr("DETECTOR_MAX_ASPECT", 1.4),
		DetectorMaxFaces:        envIntOr("DETECTOR_MAX_FACES", 5),

		SharpnessFloorLiveness: envFloatOr("SHARPNESS_FLOOR_LIVENESS", 50),
		SharpnessFloorAcquire:  envFloatOr("SHARPNESS_FLOOR_ACQUIRE", 20),
		EdgeDensityFloor:       envFloatOr("EDGE_DENSITY_FLOOR", 0.05),
		ContrastFloor:          envFloatOr("CONTRAST_FLOOR", 20),

		EnrollmentQualityFloor: envFloatOr("ENROLLMENT_QUALITY_FLOOR", 0.3),

		EvidenceRoot:        envOr("EVIDENCE_ROOT", "./evidence"),
		EvidenceJPEGQuality: envIntOr("EVIDENCE_JPEG_QUALITY", 85),

		FailedAttemptStreak: envIntOr("FAILED_ATTEMPT_STREAK", 3),
		FailedAttemptWindow: time.Duration(envIntOr("FAILED_ATTEMPT_WINDOW_SECONDS", 300)) * time.Second,

		AlertEmailTo: os.Getenv("ALERT_EMAIL_TO"),
	}

	keyHex := os.Getenv("TEMPLATE_ENC_KEY")
	if keyHex == "" {
		return nil, errors.New("TEMPLATE_ENC_KEY is required")
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("TEMPLATE_ENC_KEY is not valid hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("TEMPLATE_ENC_KEY must be 32 bytes, got %d", len(key))
	}
	s.TemplateKey = key

	if s.MatchSanityFloor >= s.AcceptanceThreshold {
		return nil, fmt.Errorf("MATCH_SANITY_FLOOR (%.2f) must sit below CONFIDENCE_THRESHOLD (%.2f)",
			s.MatchSanityFloor, s.AcceptanceThreshold)
	}

	return s, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
