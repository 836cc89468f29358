package infrastructure

import (
	"fmt"
	"net/http"
	"os"
	"time"

	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/config"
	"facegate.io/infrastructure/logger"
	webRoutev1 "facegate.io/infrastructure/routes/ginRouter/web/v1"
	server_response "facegate.io/infrastructure/serverResponse"
	startup "facegate.io/infrastructure/startUp"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type serverInterface interface {
	Start(settings *config.Settings)
}

type ginServer struct{}

func (s *ginServer) Start(settings *config.Settings) {
	startup.StartServices(settings)
	defer startup.CleanUpServices()

	server := gin.Default()
	origins := []string{}
	if settings.GinMode == "debug" {
		origins = append(origins, "http://localhost:3000")
	} else if settings.GinMode == "release" {
		origins = append(origins, os.Getenv("DASHBOARD_ORIGIN"))
	}
	corsConfig := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	server.Use(cors.New(corsConfig))
	server.MaxMultipartMemory = 15 << 20

	routerV1 := server.Group("/api/v1")
	{
		webRoutev1.RecognitionRouter(routerV1)
		webRoutev1.EvidenceRouter(routerV1)
	}

	server.GET("/ping", func(ctx *gin.Context) {
		server_response.Responder.Respond(ctx, http.StatusOK, "pong!", nil, nil)
	})

	server.NoRoute(func(ctx *gin.Context) {
		apperrors.NotFoundError(ctx, fmt.Sprintf("%s %s does not exist", ctx.Request.Method, ctx.Request.URL))
	})

	if settings.GinMode == "debug" || settings.GinMode == "release" {
		logger.Info(fmt.Sprintf("Server starting on PORT %s", settings.Port))
		server.Run(fmt.Sprintf(":%s", settings.Port))
	} else {
		panic(fmt.Sprintf("invalid gin mode used - %s", settings.GinMode))
	}
}
