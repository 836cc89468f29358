package controller

import (
	"errors"
	"net/http"

	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/interfaces"
	"facegate.io/application/repository"
	server_response "facegate.io/infrastructure/serverResponse"
	"github.com/gin-gonic/gin"
)

// GetEvidenceRecord returns the metadata for one captured frame.
func GetEvidenceRecord(ctx *interfaces.ApplicationContext[any]) {
	id := ctx.GetStringParam("id")
	if id == "" {
		apperrors.ClientError(ctx.Ctx, "evidence id is required", nil)
		return
	}

	record, err := repository.EvidenceRepo().FindOneByID(id)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if record == nil {
		apperrors.NotFoundError(ctx.Ctx, "evidence record not found")
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "evidence record fetched", record, nil)
}

// GetEvidenceImage streams the stored frame itself.
func GetEvidenceImage(ctx *interfaces.ApplicationContext[any]) {
	id := ctx.GetStringParam("id")
	if id == "" {
		apperrors.ClientError(ctx.Ctx, "evidence id is required", nil)
		return
	}

	record, err := repository.EvidenceRepo().FindOneByID(id)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if record == nil {
		apperrors.NotFoundError(ctx.Ctx, "evidence record not found")
		return
	}

	imageBytes, err := evidenceStore.Read(record.Path)
	if err != nil {
		apperrors.NotFoundError(ctx.Ctx, "evidence image missing from store")
		return
	}

	ginCtx, ok := (ctx.Ctx).(*gin.Context)
	if !ok {
		apperrors.FatalServerError(ctx.Ctx, errors.New("unsupported server context"))
		return
	}
	ginCtx.Data(http.StatusOK, "image/"+record.Format, imageBytes)
}
