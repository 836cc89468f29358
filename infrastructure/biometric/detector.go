package biometric

import (
	"fmt"
	"image"
	"math"
	"sort"
	"sync"

	"facegate.io/application/config"
	"facegate.io/infrastructure/biometric/types"
	"facegate.io/infrastructure/logger"
	"gocv.io/x/gocv"
)

// detectorConfidence is the fixed confidence reported for cascade hits that
// survive every post-filter. The cascade itself gives no usable score; the
// filters are what earn the number.
const detectorConfidence = 0.85

// HaarFaceDetector locates faces with a Haar cascade tuned for few, strongly
// confirmed detections, then rejects candidates that fail intensity and
// geometry sanity checks.
type HaarFaceDetector struct {
	cascade  gocv.CascadeClassifier
	settings *config.Settings
	loaded   bool
	mutex    sync.Mutex
}

func NewHaarFaceDetector(settings *config.Settings) (*HaarFaceDetector, error) {
	detector := &HaarFaceDetector{
		cascade:  gocv.NewCascadeClassifier(),
		settings: settings,
	}
	if !detector.cascade.Load(settings.CascadePath) {
		return nil, fmt.Errorf("failed to load face cascade from %s", settings.CascadePath)
	}
	detector.loaded = true
	logger.Info("face cascade loaded", logger.LoggerOptions{
		Key:  "path",
		Data: settings.CascadePath,
	})
	return detector, nil
}

func (d *HaarFaceDetector) Close() {
	d.cascade.Close()
}

// Locate runs the cascade over the frame and returns the filtered candidate
// faces, at most DetectorMaxFaces of them.
func (d *HaarFaceDetector) Locate(img gocv.Mat) ([]types.DetectedFace, error) {
	if !d.loaded {
		return nil, fmt.Errorf("face cascade not loaded")
	}
	if img.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if img.Channels() > 1 {
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	} else {
		img.CopyTo(&gray)
	}

	equalized := gocv.NewMat()
	defer equalized.Close()
	gocv.EqualizeHist(gray, &equalized)

	// The cascade is shared; DetectMultiScale is not reentrant.
	d.mutex.Lock()
	rects := d.cascade.DetectMultiScaleWithParams(
		equalized,
		d.settings.DetectorScaleFactor,
		d.settings.DetectorMinNeighbors,
		0,
		image.Point{X: d.settings.DetectorMinFacePx, Y: d.settings.DetectorMinFacePx},
		image.Point{X: d.settings.DetectorMaxFacePx, Y: d.settings.DetectorMaxFacePx},
	)
	d.mutex.Unlock()

	candidates := make([]types.DetectedFace, 0, len(rects))
	for _, rect := range rects {
		candidate, ok := d.filterCandidate(gray, rect)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate)
	}
	faces := dedupeFaces(candidates, d.settings.DetectorMaxFaces)

	logger.Info("face detection completed", logger.LoggerOptions{
		Key: "faces",
		Data: map[string]interface{}{
			"raw":  len(rects),
			"kept": len(faces),
		},
	})
	return faces, nil
}

// filterCandidate applies the post-detection sanity checks: the region must
// carry real intensity variation and have human face proportions.
func (d *HaarFaceDetector) filterCandidate(gray gocv.Mat, rect image.Rectangle) (types.DetectedFace, bool) {
	bounded := rect.Intersect(image.Rect(0, 0, gray.Cols(), gray.Rows()))
	if bounded.Dx() <= 0 || bounded.Dy() <= 0 {
		return types.DetectedFace{}, false
	}

	region := gray.Region(bounded)
	defer region.Close()

	std := intensityStd(region)
	if std < d.settings.DetectorMinIntensityStd {
		return types.DetectedFace{}, false
	}

	aspect := float64(bounded.Dx()) / float64(bounded.Dy())
	if aspect < d.settings.DetectorMinAspect || aspect > d.settings.DetectorMaxAspect {
		return types.DetectedFace{}, false
	}

	return types.DetectedFace{
		Rect:         bounded,
		Confidence:   detectorConfidence,
		Sharpness:    laplacianVariance(region),
		IntensityStd: std,
		AspectRatio:  aspect,
	}, true
}

// dedupeFaces collapses the cascade's repeated hits over one face. Largest
// candidates are kept first; a later candidate whose center lies within 1.2
// times the smaller region's shortest side of a kept face is the same face.
// At most max faces survive.
func dedupeFaces(candidates []types.DetectedFace, max int) []types.DetectedFace {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Rect.Dx()*candidates[i].Rect.Dy() >
			candidates[j].Rect.Dx()*candidates[j].Rect.Dy()
	})

	kept := make([]types.DetectedFace, 0, len(candidates))
	for _, candidate := range candidates {
		if sameFaceAsAny(kept, candidate.Rect) {
			continue
		}
		kept = append(kept, candidate)
		if len(kept) >= max {
			break
		}
	}
	return kept
}

func sameFaceAsAny(kept []types.DetectedFace, rect image.Rectangle) bool {
	cx, cy := rectCenter(rect)
	for _, face := range kept {
		fx, fy := rectCenter(face.Rect)
		limit := 1.2 * math.Min(minSide(face.Rect), minSide(rect))
		if math.Hypot(cx-fx, cy-fy) < limit {
			return true
		}
	}
	return false
}

func rectCenter(rect image.Rectangle) (float64, float64) {
	return float64(rect.Min.X) + float64(rect.Dx())/2,
		float64(rect.Min.Y) + float64(rect.Dy())/2
}

func minSide(rect image.Rectangle) float64 {
	return math.Min(float64(rect.Dx()), float64(rect.Dy()))
}
