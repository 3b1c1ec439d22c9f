package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gpulab/gpuboard/internal/ai"
	"github.com/gpulab/gpuboard/internal/chat"
	"github.com/gpulab/gpuboard/internal/common"
	"github.com/gpulab/gpuboard/internal/config"
	"github.com/gpulab/gpuboard/internal/detail"
	"github.com/gpulab/gpuboard/internal/gpu"
	"github.com/gpulab/gpuboard/internal/scrape"
	"gorm.io/gorm"
)

type Handler struct {
	Cfg     config.Config
	Gpus    *gpu.Repo
	Details *detail.Manager
	Cache   *detail.Repo
	ChatSvc *chat.Service
	Chats   *chat.Repo
	Scraper *scrape.Runner
}

func NewHandler(db *gorm.DB, cfg config.Config) *Handler {
	gpus := gpu.NewRepo(db)

	cacheRepo := detail.NewRepo(db)
	fetcher := detail.NewFetcher(time.Duration(cfg.FetchTimeoutSecs) * time.Second)
	manager := detail.NewManager(cacheRepo, gpus, fetcher,
		time.Duration(cfg.CacheTTLDays)*24*time.Hour)

	chats := chat.NewRepo(db)
	provider := ai.NewDeepSeekProvider(cfg.DeepSeekBaseURL, cfg.DeepSeekAPIKey,
		cfg.DeepSeekModel, cfg.ChatMaxTokens, cfg.ChatTemperature)
	chatSvc := chat.NewService(chats, chat.NewContextBuilder(manager), provider)

	return &Handler{
		Cfg:     cfg,
		Gpus:    gpus,
		Details: manager,
		Cache:   cacheRepo,
		ChatSvc: chatSvc,
		Chats:   chats,
		Scraper: scrape.NewRunner(cfg.PythonBin, cfg.SearchScript, cfg.PublicDir),
	}
}

// badRequest writes the 400 envelope for a rejected request.
func badRequest(c *gin.Context, code int, msg string) {
	err := &common.ValidationError{Msg: msg}
	common.Fail(c, http.StatusBadRequest, code, err.Error())
}
