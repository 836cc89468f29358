package biometric

import (
	"fmt"
	"image"
	"math"
	"os"
	"sync"

	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/config"
	"facegate.io/infrastructure/logger"
	"gocv.io/x/gocv"
)

// ArcFaceEmbedder extracts embeddings with an ArcFace ONNX network.
type ArcFaceEmbedder struct {
	net          gocv.Net
	inputSize    image.Point
	dims         int
	modelsLoaded bool
	mutex        sync.Mutex
}

func NewArcFaceEmbedder(settings *config.Settings) (*ArcFaceEmbedder, error) {
	embedder := &ArcFaceEmbedder{
		inputSize: image.Point{X: 112, Y: 112},
		dims:      settings.EmbeddingDims,
	}

	if _, err := os.Stat(settings.EmbeddingModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", settings.EmbeddingModelPath)
	}

	embedder.net = gocv.ReadNet(settings.EmbeddingModelPath, "")
	if embedder.net.Empty() {
		return nil, fmt.Errorf("failed to load embedding model from %s", settings.EmbeddingModelPath)
	}
	embedder.net.SetPreferableBackend(gocv.NetBackendDefault)
	embedder.net.SetPreferableTarget(gocv.NetTargetCPU)
	embedder.modelsLoaded = true

	logger.Info("embedding model loaded", logger.LoggerOptions{
		Key: "model",
		Data: map[string]interface{}{
			"path": settings.EmbeddingModelPath,
			"dims": settings.EmbeddingDims,
		},
	})
	return embedder, nil
}

func (af *ArcFaceEmbedder) Close() {
	af.net.Close()
}

// Embed runs the network over one face region and returns an L2-normalized
// vector. The output is validated before it is allowed anywhere near the
// template store or the scorer.
func (af *ArcFaceEmbedder) Embed(face gocv.Mat) ([]float64, error) {
	if !af.modelsLoaded {
		return nil, apperrors.ModelFault{Model: "arcface", Reason: "model not loaded"}
	}
	if face.Empty() {
		return nil, apperrors.InputError{Reason: "empty face region"}
	}

	preprocessed := af.preprocessFace(face)
	defer preprocessed.Close()

	blob := gocv.BlobFromImage(
		preprocessed,
		1.0/127.5,
		af.inputSize,
		gocv.NewScalar(127.5, 127.5, 127.5, 0),
		true,
		false,
	)
	defer blob.Close()

	// gocv.Net forward passes share internal buffers.
	af.mutex.Lock()
	af.net.SetInput(blob, "")
	output := af.net.Forward("")
	af.mutex.Unlock()
	defer output.Close()

	if output.Total() < af.dims {
		return nil, apperrors.ModelFault{
			Model:  "arcface",
			Reason: fmt.Sprintf("expected %d output values, got %d", af.dims, output.Total()),
		}
	}

	embedding := make([]float64, af.dims)
	for i := 0; i < af.dims; i++ {
		embedding[i] = float64(output.GetFloatAt(0, i))
	}

	if err := ValidateEmbedding(embedding, af.dims); err != nil {
		return nil, err
	}
	return l2Normalize(embedding), nil
}

func (af *ArcFaceEmbedder) preprocessFace(face gocv.Mat) gocv.Mat {
	resized := gocv.NewMat()
	gocv.Resize(face, &resized, af.inputSize, 0, 0, gocv.InterpolationLinear)

	if resized.Channels() == 1 {
		rgb := gocv.NewMat()
		gocv.CvtColor(resized, &rgb, gocv.ColorGrayToBGR)
		resized.Close()
		return rgb
	}
	return resized
}

// ValidateEmbedding rejects vectors no downstream consumer can trust: wrong
// length, non-finite values, or a degenerate all-zero vector.
func ValidateEmbedding(embedding []float64, dims int) error {
	if len(embedding) != dims {
		return apperrors.ModelFault{
			Model:  "arcface",
			Reason: fmt.Sprintf("embedding has %d dimensions, expected %d", len(embedding), dims),
		}
	}
	allZero := true
	for _, v := range embedding {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return apperrors.ModelFault{Model: "arcface", Reason: "embedding contains non-finite values"}
		}
		if v != 0 {
			allZero = false
		}
	}
	if allZero {
		return apperrors.ModelFault{Model: "arcface", Reason: "embedding is all zeros"}
	}
	return nil
}

func l2Normalize(embedding []float64) []float64 {
	var norm float64
	for _, v := range embedding {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return embedding
	}
	normalized := make([]float64, len(embedding))
	for i, v := range embedding {
		normalized[i] = v / norm
	}
	return normalized
}
