package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gpulab/gpuboard/internal/common"
)

// GPUSearch runs the external tool in list-only mode.
func (h *Handler) GPUSearch(c *gin.Context) {
	var req struct {
		Keyword string `json:"keyword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Keyword == "" {
		badRequest(c, 10001, "keyword is required")
		return
	}

	out, err := h.Scraper.Search(c.Request.Context(), req.Keyword)
	if err != nil {
		common.Fail(c, http.StatusBadGateway, 50202, err.Error())
		return
	}
	common.OK(c, out)
}

// GPUFetch scrapes the selected search result indices.
func (h *Handler) GPUFetch(c *gin.Context) {
	var req struct {
		Keyword         string `json:"keyword"`
		SelectedIndices []int  `json:"selectedIndices"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Keyword == "" {
		badRequest(c, 10001, "keyword is required")
		return
	}
	if len(req.SelectedIndices) == 0 {
		badRequest(c, 10002, "select at least one result")
		return
	}

	out, err := h.Scraper.FetchSelected(c.Request.Context(), req.Keyword, req.SelectedIndices)
	if err != nil {
		common.Fail(c, http.StatusBadGateway, 50202, err.Error())
		return
	}
	common.OK(c, out)
}
