package api

import (
	"github.com/gin-gonic/gin"

	"rolldepot/internal/middleware"
)

// NewRouter assembles the gin engine for the given configuration.
func NewRouter(cfg Config) *gin.Engine {
	return NewServer(cfg).Router()
}

// Router builds the HTTP routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	router.GET("/metrics", gin.WrapH(s.Metrics.Handler()))

	apiGroup := router.Group("/api")
	apiGroup.Use(middleware.RateLimit(s.rateLimitRPS, s.rateLimitBurst))

	s.registerImportRoutes(apiGroup)
	s.registerModelRoutes(apiGroup)
	s.registerClipRoutes(apiGroup)
	s.registerMappingRoutes(apiGroup)

	return router
}
