package routev1

import (
	"facegate.io/application/controller"
	"facegate.io/application/interfaces"
	"github.com/gin-gonic/gin"
)

func EvidenceRouter(router *gin.RouterGroup) {
	evidenceRouter := router.Group("/evidence")
	{
		evidenceRouter.GET("/:id", func(ctx *gin.Context) {
			controller.GetEvidenceRecord(&interfaces.ApplicationContext[any]{
				Ctx: ctx,
				Param: map[string]any{
					"id": ctx.Param("id"),
				},
			})
		})

		evidenceRouter.GET("/:id/image", func(ctx *gin.Context) {
			controller.GetEvidenceImage(&interfaces.ApplicationContext[any]{
				Ctx: ctx,
				Param: map[string]any{
					"id": ctx.Param("id"),
				},
			})
		})
	}
}
