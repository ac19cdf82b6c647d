package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter mounts the API on a fresh gin engine.
func NewRouter(h *Handler, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.MaxMultipartMemory = 12 << 20

	r.GET("/health", h.HealthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/stats", h.Stats)
		v1.POST("/match", h.Match)
		v1.POST("/review", h.Review)
		v1.POST("/coach", h.Coach)
		v1.POST("/ats", h.OptimizeATS)
		v1.POST("/cv", h.GenerateCV)
		v1.POST("/extract", h.Extract)
	}

	return r
}
