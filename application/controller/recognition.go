package controller

import (
	"context"
	"errors"
	"net/http"

	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/constants"
	"facegate.io/application/controller/dto"
	"facegate.io/application/interfaces"
	"facegate.io/application/usecases/access"
	"facegate.io/application/utils"
	"facegate.io/entities"
	"facegate.io/infrastructure/logger"
	server_response "facegate.io/infrastructure/serverResponse"
	"facegate.io/infrastructure/validator"
)

// VerifyAccess decides access for one checkpoint frame.
func VerifyAccess(ctx *interfaces.ApplicationContext[dto.VerifyAccessRequest]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	imageBytes, err := utils.DecodeBase64Image(ctx.Body.ImageBase64)
	if err != nil {
		apperrors.ClientError(ctx.Ctx, "invalid image format", nil)
		return
	}

	checkpointID := ctx.Body.CheckpointID
	if checkpointID == "" {
		checkpointID = constants.DefaultCheckpointID
	}

	checkLiveness := true
	if ctx.Body.CheckLiveness != nil {
		checkLiveness = *ctx.Body.CheckLiveness
	}

	result, err := accessEngine.Verify(context.TODO(), imageBytes, checkpointID, checkLiveness)
	if err != nil {
		var input apperrors.InputError
		if errors.As(err, &input) {
			apperrors.ClientError(ctx.Ctx, input.Reason, nil)
			return
		}
		// Model and store faults still answer the checkpoint client with a
		// terminal ERROR decision rather than a transport failure, so the
		// client can distinguish faults from denials.
		var model apperrors.ModelFault
		var store apperrors.StoreFault
		if errors.As(err, &model) || errors.As(err, &store) {
			logger.Error("verification failed before a decision could be scored", logger.LoggerOptions{
				Key:  "error",
				Data: err,
			})
			server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "verification could not be completed", access.VerifyResult{
				Decision: entities.DecisionError,
				Message:  "verification engine unavailable",
			}, nil)
			return
		}
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "verification completed", result, nil)
}

// EnrollFace registers face templates for an existing user.
func EnrollFace(ctx *interfaces.ApplicationContext[dto.EnrollFaceRequest]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	images := make([][]byte, 0, len(ctx.Body.ImagesBase64))
	for _, payload := range ctx.Body.ImagesBase64 {
		imageBytes, err := utils.DecodeBase64Image(payload)
		if err != nil {
			apperrors.ClientError(ctx.Ctx, "invalid image format", nil)
			return
		}
		images = append(images, imageBytes)
	}

	result, err := accessEngine.Enroll(context.TODO(), ctx.Body.UserID, images)
	if err != nil {
		respondEngineError(ctx.Ctx, err)
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "enrollment completed", result, nil)
}

// RecognitionStats reports the dashboard counters.
func RecognitionStats(ctx *interfaces.ApplicationContext[any]) {
	snapshot, err := statsService.Snapshot()
	if err != nil {
		respondEngineError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "stats fetched", snapshot, nil)
}

func respondEngineError(ctx interface{}, err error) {
	var input apperrors.InputError
	if errors.As(err, &input) {
		apperrors.ClientError(ctx, input.Reason, nil)
		return
	}
	var model apperrors.ModelFault
	if errors.As(err, &model) {
		apperrors.ExternalDependencyError(ctx, "vision model", "500", err)
		return
	}
	var store apperrors.StoreFault
	if errors.As(err, &store) {
		apperrors.ExternalDependencyError(ctx, "template store", "500", err)
		return
	}
	apperrors.FatalServerError(ctx, err)
}
