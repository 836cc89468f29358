package biometric

import (
	"errors"
	"fmt"
	"image"
	"math"

	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/config"
	"facegate.io/infrastructure/biometric/types"
	"facegate.io/infrastructure/logger"
	"github.com/montanaflynn/stats"
	"gocv.io/x/gocv"
)

// BiometricService owns the vision pipeline: locate faces, analyze liveness,
// extract embeddings. It is constructed once at startup and shared.
type BiometricService struct {
	detector *HaarFaceDetector
	embedder *ArcFaceEmbedder
	liveness *LivenessAnalyzer
	settings *config.Settings
}

func InitialiseBiometricService(settings *config.Settings) (*BiometricService, error) {
	detector, err := NewHaarFaceDetector(settings)
	if err != nil {
		return nil, err
	}
	embedder, err := NewArcFaceEmbedder(settings)
	if err != nil {
		detector.Close()
		return nil, err
	}
	logger.Info("biometric service initialised")
	return &BiometricService{
		detector: detector,
		embedder: embedder,
		liveness: NewLivenessAnalyzer(settings),
		settings: settings,
	}, nil
}

func (bs *BiometricService) Close() {
	bs.detector.Close()
	bs.embedder.Close()
}

// decodeFrame turns raw request bytes into a colour Mat, enforcing the size
// cap before any decoding happens.
func (bs *BiometricService) decodeFrame(imageBytes []byte) (gocv.Mat, error) {
	if len(imageBytes) == 0 {
		return gocv.Mat{}, apperrors.InputError{Reason: "empty image payload"}
	}
	if len(imageBytes) > bs.settings.MaxImageBytes {
		return gocv.Mat{}, apperrors.InputError{
			Reason: fmt.Sprintf("image exceeds the %d byte limit", bs.settings.MaxImageBytes),
		}
	}
	img, err := gocv.IMDecode(imageBytes, gocv.IMReadColor)
	if err != nil || img.Empty() {
		return gocv.Mat{}, apperrors.InputError{Reason: "image could not be decoded"}
	}
	return img, nil
}

// ProcessFrame runs the full pipeline over one verification frame. Faces too
// blurred to embed keep their liveness result but carry a nil embedding; a
// broken embedding model aborts the frame so the caller never scores it.
func (bs *BiometricService) ProcessFrame(imageBytes []byte) (*types.FrameAnalysis, error) {
	img, err := bs.decodeFrame(imageBytes)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	faces, err := bs.detector.Locate(img)
	if err != nil {
		return nil, err
	}

	analysis := &types.FrameAnalysis{
		Width:    img.Cols(),
		Height:   img.Rows(),
		Captures: make([]types.FaceCapture, 0, len(faces)),
	}

	for _, face := range faces {
		region := img.Region(face.Rect)

		capture := types.FaceCapture{
			Face:     face,
			Liveness: bs.liveness.Analyze(region),
		}
		if face.Sharpness >= bs.settings.SharpnessFloorAcquire {
			embedding, embedErr := bs.embedder.Embed(region)
			if embedErr != nil {
				var fault apperrors.ModelFault
				if errors.As(embedErr, &fault) {
					region.Close()
					return nil, embedErr
				}
				logger.Warning("embedding extraction failed for face", logger.LoggerOptions{
					Key:  "error",
					Data: embedErr,
				})
			} else {
				capture.Embedding = embedding
			}
		}
		region.Close()
		analysis.Captures = append(analysis.Captures, capture)
	}
	return analysis, nil
}

// ProcessEnrollmentImage extracts one template candidate from an enrollment
// image: the largest face, provided it is sharp enough and its quality
// clears the enrollment floor.
func (bs *BiometricService) ProcessEnrollmentImage(imageBytes []byte) (*types.TemplateCandidate, error) {
	img, err := bs.decodeFrame(imageBytes)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	faces, err := bs.detector.Locate(img)
	if err != nil {
		return nil, err
	}
	if len(faces) == 0 {
		return nil, apperrors.InputError{Reason: "no face found in enrollment image"}
	}

	face := largestFace(faces)
	if face.Sharpness < bs.settings.SharpnessFloorAcquire {
		return nil, apperrors.InputError{Reason: "enrollment image too blurred"}
	}

	region := img.Region(face.Rect)
	defer region.Close()

	embedding, err := bs.embedder.Embed(region)
	if err != nil {
		return nil, err
	}

	quality := EnrollmentQuality(embedding, face.Rect.Dx(), face.Rect.Dy())
	if quality < bs.settings.EnrollmentQualityFloor {
		return nil, apperrors.InputError{
			Reason: fmt.Sprintf("enrollment image quality %.2f below the %.2f floor", quality, bs.settings.EnrollmentQualityFloor),
		}
	}

	return &types.TemplateCandidate{
		Embedding: embedding,
		Quality:   quality,
		Sharpness: face.Sharpness,
	}, nil
}

// EncodeEvidenceFrame re-encodes the frame as JPEG for evidence storage and
// reports its decoded dimensions.
func (bs *BiometricService) EncodeEvidenceFrame(imageBytes []byte) (encoded []byte, width int, height int, err error) {
	img, err := bs.decodeFrame(imageBytes)
	if err != nil {
		return nil, 0, 0, err
	}
	defer img.Close()

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, []int{gocv.IMWriteJpegQuality, bs.settings.EvidenceJPEGQuality})
	if err != nil {
		return nil, 0, 0, apperrors.InputError{Reason: "frame could not be re-encoded"}
	}
	defer buf.Close()

	encoded = make([]byte, len(buf.GetBytes()))
	copy(encoded, buf.GetBytes())
	return encoded, img.Cols(), img.Rows(), nil
}

// EncodeFaceRegion crops the given rectangle out of the frame and encodes it
// the same way as the full frame. The rectangle is clamped to the frame
// bounds before cropping.
func (bs *BiometricService) EncodeFaceRegion(imageBytes []byte, rect image.Rectangle) (encoded []byte, width int, height int, err error) {
	img, err := bs.decodeFrame(imageBytes)
	if err != nil {
		return nil, 0, 0, err
	}
	defer img.Close()

	bounded := rect.Intersect(image.Rect(0, 0, img.Cols(), img.Rows()))
	if bounded.Empty() {
		return nil, 0, 0, apperrors.InputError{Reason: "face region outside frame bounds"}
	}

	region := img.Region(bounded)
	defer region.Close()

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, region, []int{gocv.IMWriteJpegQuality, bs.settings.EvidenceJPEGQuality})
	if err != nil {
		return nil, 0, 0, apperrors.InputError{Reason: "face region could not be encoded"}
	}
	defer buf.Close()

	encoded = make([]byte, len(buf.GetBytes()))
	copy(encoded, buf.GetBytes())
	return encoded, bounded.Dx(), bounded.Dy(), nil
}

// EnrollmentQuality blends how large the face was with how much variation
// the embedding carries. Both halves saturate at 1.
func EnrollmentQuality(embedding []float64, width, height int) float64 {
	sizeQuality := math.Min(1.0, float64(width*height)/(100.0*100.0))

	variance, err := stats.PopulationVariance(embedding)
	if err != nil {
		variance = 0
	}
	varianceQuality := math.Min(1.0, variance*10)

	return (sizeQuality + varianceQuality) / 2.0
}

func largestFace(faces []types.DetectedFace) types.DetectedFace {
	best := faces[0]
	for _, face := range faces[1:] {
		if face.Rect.Dx()*face.Rect.Dy() > best.Rect.Dx()*best.Rect.Dy() {
			best = face
		}
	}
	return best
}
