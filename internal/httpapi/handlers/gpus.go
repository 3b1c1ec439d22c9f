package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gpulab/gpuboard/internal/common"
	"github.com/gpulab/gpuboard/internal/gpu"
)

func (h *Handler) ListGPUs(c *gin.Context) {
	recs, err := h.Gpus.All(c.Request.Context())
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to list gpus")
		return
	}
	common.OK(c, recs)
}

func (h *Handler) ListGPUsByBrand(c *gin.Context) {
	recs, err := h.Gpus.ByBrand(c.Request.Context(), c.Param("brand"))
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to list gpus")
		return
	}
	common.OK(c, recs)
}

func (h *Handler) ListGPUsByYearRange(c *gin.Context) {
	start, err1 := strconv.Atoi(c.Param("start"))
	end, err2 := strconv.Atoi(c.Param("end"))
	if err1 != nil || err2 != nil {
		badRequest(c, 10001, "invalid year range")
		return
	}
	recs, err := h.Gpus.ByYearRange(c.Request.Context(), start, end)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to list gpus")
		return
	}
	common.OK(c, recs)
}

func (h *Handler) SearchGPUs(c *gin.Context) {
	recs, err := h.Gpus.Search(c.Request.Context(), c.Param("term"))
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "search failed")
		return
	}
	common.OK(c, recs)
}

// TypeaheadGPUs returns at most ten {id, name} pairs for query strings of two
// or more characters.
func (h *Handler) TypeaheadGPUs(c *gin.Context) {
	query := c.Query("query")
	if len(query) < 2 {
		common.OK(c, []gin.H{})
		return
	}
	recs, err := h.Gpus.Search(c.Request.Context(), query)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "search failed")
		return
	}
	if len(recs) > 10 {
		recs = recs[:10]
	}
	out := make([]gin.H, 0, len(recs))
	for _, r := range recs {
		out = append(out, gin.H{"id": r.ID, "name": r.Name})
	}
	common.OK(c, out)
}

func (h *Handler) Stats(c *gin.Context) {
	recs, err := h.Gpus.All(c.Request.Context())
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to compute stats")
		return
	}
	common.OK(c, gpu.Summarize(recs))
}

func (h *Handler) chartData(c *gin.Context, brand string) {
	recs, err := h.Gpus.All(c.Request.Context())
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to compute chart data")
		return
	}
	common.OK(c, gpu.ChartSeries(recs, brand))
}

func (h *Handler) NvidiaChartData(c *gin.Context) { h.chartData(c, "nvidia") }
func (h *Handler) AMDChartData(c *gin.Context)    { h.chartData(c, "amd") }

type importGPU struct {
	Brand       string   `json:"brand"`
	Name        string   `json:"name"`
	ReleaseYear *int     `json:"release_year"`
	LaunchPrice *float64 `json:"launch_price"`
	PixelRate   string   `json:"pixel_rate"`
	TextureRate string   `json:"texture_rate"`
	FP16        string   `json:"fp16"`
	FP32        string   `json:"fp32"`
	FP64        string   `json:"fp64"`
	MemorySize  string   `json:"memory_size"`
	SourceURL   string   `json:"source_url"`
}

func (g importGPU) record() gpu.Record {
	return gpu.Record{
		Brand:       g.Brand,
		Name:        g.Name,
		ReleaseYear: g.ReleaseYear,
		LaunchPrice: g.LaunchPrice,
		PixelRate:   g.PixelRate,
		TextureRate: g.TextureRate,
		FP16:        g.FP16,
		FP32:        g.FP32,
		FP64:        g.FP64,
		MemorySize:  g.MemorySize,
		SourceURL:   g.SourceURL,
	}
}

// ImportGPUs bulk-inserts scraped rows in one statement.
func (h *Handler) ImportGPUs(c *gin.Context) {
	var req struct {
		Gpus []importGPU `json:"gpus"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Gpus) == 0 {
		badRequest(c, 10002, "invalid gpu data")
		return
	}

	recs := make([]gpu.Record, 0, len(req.Gpus))
	for _, g := range req.Gpus {
		recs = append(recs, g.record())
	}
	count, err := h.Gpus.BatchInsert(c.Request.Context(), recs)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to import gpus")
		return
	}
	common.OK(c, gin.H{"count": count})
}

// ImportGPUsPerRow inserts rows one by one, skipping entries without a brand
// and name, and reports per-row success/failure counts.
func (h *Handler) ImportGPUsPerRow(c *gin.Context) {
	var rows []importGPU
	if err := c.ShouldBindJSON(&rows); err != nil || len(rows) == 0 {
		badRequest(c, 10002, "invalid gpu data")
		return
	}

	successCount, failCount := 0, 0
	for _, g := range rows {
		if g.Brand == "" || g.Name == "" {
			failCount++
			continue
		}
		rec := g.record()
		if _, err := h.Gpus.Insert(c.Request.Context(), &rec); err != nil {
			failCount++
			continue
		}
		successCount++
	}

	common.OK(c, gin.H{
		"total":        len(rows),
		"successCount": successCount,
		"failCount":    failCount,
	})
}
