package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"minestock/internal/config"
)

func NewRouter(cfg config.Config, h *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", h.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/search", h.Search)
		api.POST("/bulk", h.BulkUpload)
		api.GET("/bulk/export", h.BulkExport)

		api.GET("/history", h.HistoryList)
		api.POST("/history/:id/replay", h.HistoryReplay)

		api.GET("/state", h.StateSnapshot)
		api.POST("/state/back", h.StateBack)
		api.POST("/state/home", h.StateHome)
		api.POST("/state/select", h.StateSelect)
		api.POST("/state/sheet", h.StateSheet)

		api.POST("/rop", h.Recalculate)
	}

	return router
}
