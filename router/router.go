// router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MZain-ul-Abideen/MAS-Explainability/controller"
	"github.com/MZain-ul-Abideen/MAS-Explainability/db"
	"github.com/MZain-ul-Abideen/MAS-Explainability/middleware"
)

func SetupRouter(
	controllers *controller.Controllers,
	apiKey string,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	if db.RedisClient != nil {
		router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))
	}
	if apiKey != "" {
		router.Use(middleware.APIKeyAuth(apiKey))
	}

	api := router.Group("/api/v1")

	controllers.Pipeline.RegisterRoutes(api)
	controllers.Query.RegisterRoutes(api)

	return router
}
