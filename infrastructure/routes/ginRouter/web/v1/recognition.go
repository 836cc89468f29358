package routev1

import (
	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/controller"
	"facegate.io/application/controller/dto"
	"facegate.io/application/interfaces"
	"github.com/gin-gonic/gin"
)

func RecognitionRouter(router *gin.RouterGroup) {
	recognitionRouter := router.Group("/recognition")
	{
		recognitionRouter.POST("/verify", func(ctx *gin.Context) {
			var body dto.VerifyAccessRequest
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.VerifyAccess(&interfaces.ApplicationContext[dto.VerifyAccessRequest]{
				Ctx:  ctx,
				Body: body,
			})
		})

		recognitionRouter.POST("/enroll", func(ctx *gin.Context) {
			var body dto.EnrollFaceRequest
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.EnrollFace(&interfaces.ApplicationContext[dto.EnrollFaceRequest]{
				Ctx:  ctx,
				Body: body,
			})
		})

		recognitionRouter.GET("/stats", func(ctx *gin.Context) {
			controller.RecognitionStats(&interfaces.ApplicationContext[any]{
				Ctx: ctx,
			})
		})
	}
}
