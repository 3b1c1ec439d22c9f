package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gpulab/gpuboard/internal/common"
	"github.com/gpulab/gpuboard/internal/config"
	"github.com/gpulab/gpuboard/internal/httpapi/handlers"
	"github.com/gpulab/gpuboard/internal/httpapi/middleware"
	"github.com/gpulab/gpuboard/internal/ratelimit"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB, cfg config.Config, limiter *ratelimit.Limiter) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	h := handlers.NewHandler(db, cfg)

	// published CSVs from the external search tool
	r.Static("/files", cfg.PublicDir)

	api := r.Group("/api")

	api.GET("/gpus", h.ListGPUs)
	api.GET("/gpus/brand/:brand", h.ListGPUsByBrand)
	api.GET("/gpus/year/:start/:end", h.ListGPUsByYearRange)
	api.GET("/gpus/search/:term", h.SearchGPUs)
	api.GET("/search-gpus", h.TypeaheadGPUs)

	api.GET("/stats", h.Stats)
	api.GET("/chart-data", h.NvidiaChartData)
	api.GET("/amd-chart-data", h.AMDChartData)

	api.GET("/gpu-detail/:id", h.GPUDetail)
	api.GET("/cache/clear", h.ClearExpiredCache)
	api.GET("/cache/status", h.CacheStatus)

	api.POST("/deepseek-chat", middleware.RateLimit(limiter), h.ChatStream)
	api.POST("/save-chat-session", h.SaveChatSession)

	api.POST("/gpu-search", h.GPUSearch)
	api.POST("/gpu-fetch", h.GPUFetch)
	api.POST("/import-gpus", h.ImportGPUs)
	api.POST("/import-gpu-to-db", h.ImportGPUsPerRow)

	api.POST("/chat-history/auth", h.AuthHistory)
	adminGroup := api.Group("/chat-history")
	adminGroup.Use(middleware.AdminRequired(cfg.JWTSecret))
	adminGroup.GET("", h.ListChatHistory)
	adminGroup.DELETE("/:id", h.DeleteChatSession)
	adminGroup.DELETE("", h.DeleteAllChatSessions)

	return r
}
