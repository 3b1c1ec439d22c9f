package handlers

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gpulab/gpuboard/internal/common"
	"github.com/gpulab/gpuboard/internal/httpapi/middleware"
	"golang.org/x/crypto/bcrypt"
)

const adminTokenTTL = 12 * time.Hour

// AuthHistory checks the shared admin secret and issues the token gating the
// history management routes. ADMIN_PASSWORD_HASH (bcrypt) wins over the plain
// ADMIN_PASSWORD when both are set.
func (h *Handler) AuthHistory(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		badRequest(c, 10001, "password is required")
		return
	}

	var match bool
	if h.Cfg.AdminPasswordHash != "" {
		match = bcrypt.CompareHashAndPassword([]byte(h.Cfg.AdminPasswordHash), []byte(req.Password)) == nil
	} else {
		match = subtle.ConstantTimeCompare([]byte(h.Cfg.AdminPassword), []byte(req.Password)) == 1
	}
	if !match {
		common.Fail(c, http.StatusUnauthorized, 40104, "wrong password")
		return
	}

	token, err := middleware.NewAdminToken(h.Cfg.JWTSecret, adminTokenTTL)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to issue token")
		return
	}
	common.OK(c, gin.H{"token": token})
}

func (h *Handler) ListChatHistory(c *gin.Context) {
	sessions, err := h.Chats.AllSessions(c.Request.Context())
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to list chat history")
		return
	}
	common.OK(c, sessions)
}

func (h *Handler) DeleteChatSession(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, 10001, "invalid session id")
		return
	}
	deleted, err := h.Chats.DeleteSession(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to delete session")
		return
	}
	common.OK(c, gin.H{"deleted": deleted})
}

func (h *Handler) DeleteAllChatSessions(c *gin.Context) {
	deleted, err := h.Chats.DeleteAllSessions(c.Request.Context())
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to clear chat history")
		return
	}
	common.OK(c, gin.H{"deleted": deleted})
}
