package access

import (
	"image"
	"testing"

	"facegate.io/infrastructure/biometric/types"
	"github.com/stretchr/testify/assert"
)

func TestPrimaryCapturePicksLargestFace(t *testing.T) {
	analysis := &types.FrameAnalysis{Captures: []types.FaceCapture{
		{Face: types.DetectedFace{Rect: image.Rect(0, 0, 100, 100)}},
		{Face: types.DetectedFace{Rect: image.Rect(0, 0, 220, 220)}},
		{Face: types.DetectedFace{Rect: image.Rect(0, 0, 150, 150)}},
	}}

	primary := primaryCapture(analysis)
	assert.Equal(t, 220, primary.Face.Rect.Dx())
}

func TestPrimaryCaptureEmptyFrame(t *testing.T) {
	assert.Nil(t, primaryCapture(&types.FrameAnalysis{}))
}
