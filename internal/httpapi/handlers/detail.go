package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gpulab/gpuboard/internal/common"
	"github.com/gpulab/gpuboard/internal/detail"
)

// GPUDetail serves the cache-or-fetch detail view for one GPU.
func (h *Handler) GPUDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, 10001, "invalid gpu id")
		return
	}

	d, err := h.Details.GetDetail(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			common.Fail(c, http.StatusNotFound, 40401, "gpu not found")
		case errors.Is(err, detail.ErrNoSourceURL):
			common.Fail(c, http.StatusNotFound, 40402, "gpu has no source url")
		default:
			var fe *common.FetchError
			if errors.As(err, &fe) {
				common.Fail(c, http.StatusBadGateway, 50201, "failed to fetch gpu detail")
				return
			}
			common.Fail(c, http.StatusInternalServerError, 50001, "failed to get gpu detail")
		}
		return
	}
	common.OK(c, d)
}

// ClearExpiredCache deletes cache rows past the freshness window.
func (h *Handler) ClearExpiredCache(c *gin.Context) {
	cutoff := time.Now().Add(-h.Details.TTL())
	count, err := h.Cache.DeleteOlderThan(c.Request.Context(), cutoff)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to clear cache")
		return
	}
	common.OK(c, gin.H{"clearedCount": count})
}

func (h *Handler) CacheStatus(c *gin.Context) {
	cutoff := time.Now().Add(-h.Details.TTL())
	stats, err := h.Cache.Stats(c.Request.Context(), cutoff)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to read cache status")
		return
	}
	common.OK(c, gin.H{"cache_statistics": stats})
}
