package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/ticketo/points/internal/server/http/handlers"
	"github.com/ticketo/points/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.ServiceFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	systemsHandler := handlers.NewSystemsHandler(facade)
	pointsHandler := handlers.NewPointsHandler(facade)

	api := engine.Group("/api/points")
	api.Use(middleware.TenantRequired())

	api.GET("/systems", systemsHandler.List)
	api.POST("/systems", systemsHandler.Create)
	api.PATCH("/systems/:id", systemsHandler.Update)
	api.DELETE("/systems/:id", systemsHandler.Delete)

	users := api.Group("/users/:userID")
	users.GET("/balance", pointsHandler.Balance)
	users.GET("/history", pointsHandler.History)
	users.POST("/earn", pointsHandler.Earn)
	users.POST("/redeem", pointsHandler.Redeem)

	return engine
}
