package biometric

import (
	"image"
	"testing"

	"facegate.io/infrastructure/biometric/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func face(rect image.Rectangle) types.DetectedFace {
	return types.DetectedFace{Rect: rect, Confidence: detectorConfidence}
}

func TestDedupeFacesKeepsLargestFirst(t *testing.T) {
	// The bigger rect arrives last; it must still win the dedupe.
	candidates := []types.DetectedFace{
		face(image.Rect(100, 100, 200, 200)),
		face(image.Rect(90, 90, 290, 290)),
	}

	kept := dedupeFaces(candidates, 5)
	require.Len(t, kept, 1)
	assert.Equal(t, 200, kept[0].Rect.Dx())
}

func TestDedupeFacesMergesNearbyCentersWithoutOverlap(t *testing.T) {
	// Centers 110px apart, no shared area, both sides 100: within the
	// 1.2x-min-side radius they are the same face.
	candidates := []types.DetectedFace{
		face(image.Rect(0, 0, 100, 100)),
		face(image.Rect(110, 0, 210, 100)),
	}

	kept := dedupeFaces(candidates, 5)
	assert.Len(t, kept, 1)
}

func TestDedupeFacesKeepsDistinctFaces(t *testing.T) {
	candidates := []types.DetectedFace{
		face(image.Rect(0, 0, 100, 100)),
		face(image.Rect(300, 0, 400, 100)),
		face(image.Rect(0, 300, 100, 400)),
	}

	kept := dedupeFaces(candidates, 5)
	assert.Len(t, kept, 3)
}

func TestDedupeFacesRadiusUsesSmallerRegion(t *testing.T) {
	// The small face sits 130px from the big face's center: outside
	// 1.2x its own 100px min side, so it is a separate face even though
	// the big face's side alone would swallow it.
	candidates := []types.DetectedFace{
		face(image.Rect(0, 0, 400, 400)),
		face(image.Rect(280, 150, 380, 250)),
	}

	kept := dedupeFaces(candidates, 5)
	assert.Len(t, kept, 2)
}

func TestDedupeFacesHonorsCap(t *testing.T) {
	candidates := []types.DetectedFace{
		face(image.Rect(0, 0, 300, 300)),
		face(image.Rect(1000, 0, 1200, 200)),
		face(image.Rect(0, 1000, 100, 1100)),
	}

	kept := dedupeFaces(candidates, 2)
	require.Len(t, kept, 2)
	assert.Equal(t, 300, kept[0].Rect.Dx())
	assert.Equal(t, 200, kept[1].Rect.Dx())
}
