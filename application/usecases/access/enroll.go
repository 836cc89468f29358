package access

import (
	"context"
	"fmt"

	apperrors "facegate.io/application/appErrors"
	"facegate.io/infrastructure/logger"
)

// EnrollResult reports what enrollment achieved across the submitted images.
type EnrollResult struct {
	UserID         string    `json:"userId"`
	TemplatesSaved int       `json:"templatesSaved"`
	ImagesRejected int       `json:"imagesRejected"`
	AverageQuality float64   `json:"averageQuality"`
	Rejections     []string  `json:"rejections,omitempty"`
	Qualities      []float64 `json:"qualities"`
}

// Enroll extracts one template per usable image. Individual images may be
// rejected for quality without failing the call; enrollment fails only when
// no image yields a template. Re-enrollment adds templates, it never
// replaces existing ones.
func (e *Engine) Enroll(ctx context.Context, userID string, images [][]byte) (*EnrollResult, error) {
	user, err := e.users.FindOneByID(userID)
	if err != nil {
		return nil, apperrors.StoreFault{Reason: "failed to look up user", Err: err}
	}
	if user == nil || user.DeletedAt != nil {
		return nil, apperrors.InputError{Reason: "user not found"}
	}

	result := &EnrollResult{UserID: userID}
	var qualitySum float64

	for i, image := range images {
		candidate, procErr := e.vision.ProcessEnrollmentImage(image)
		if procErr != nil {
			result.ImagesRejected++
			result.Rejections = append(result.Rejections, fmt.Sprintf("image %d: %v", i+1, procErr))
			logger.Warning("enrollment image rejected", logger.LoggerOptions{
				Key: "rejection",
				Data: map[string]interface{}{
					"userId": userID,
					"image":  i + 1,
					"reason": procErr.Error(),
				},
			})
			continue
		}

		if _, saveErr := e.templates.Save(ctx, userID, candidate.Embedding, candidate.Quality); saveErr != nil {
			return nil, saveErr
		}
		result.TemplatesSaved++
		result.Qualities = append(result.Qualities, candidate.Quality)
		qualitySum += candidate.Quality
	}

	if result.TemplatesSaved == 0 {
		return nil, apperrors.InputError{Reason: "no submitted image produced a usable template"}
	}

	result.AverageQuality = qualitySum / float64(result.TemplatesSaved)
	logger.Info("enrollment completed", logger.LoggerOptions{
		Key: "enrollment",
		Data: map[string]interface{}{
			"userId":   userID,
			"saved":    result.TemplatesSaved,
			"rejected": result.ImagesRejected,
		},
	})
	return result, nil
}
