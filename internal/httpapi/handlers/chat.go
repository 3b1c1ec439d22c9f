package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gpulab/gpuboard/internal/chat"
	"github.com/gpulab/gpuboard/internal/common"
)

type chatReq struct {
	Message      string      `json:"message"`
	SelectedGpus []uint64    `json:"selectedGpus"`
	SessionID    string      `json:"sessionId"`
	History      []chat.Turn `json:"history"`
}

// ChatStream proxies one chat request upstream and relays the reply as SSE
// frames: data:{"content":...} per delta, then data:{"done":true}. The
// terminal frame is sent on every path so clients never hang. When the
// response writer cannot flush, the whole reply is buffered instead.
func (h *Handler) ChatStream(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		badRequest(c, 10001, "message is required")
		return
	}

	ctx := c.Request.Context()
	streamReq := chat.StreamRequest{
		Message:   req.Message,
		GpuIDs:    req.SelectedGpus,
		SessionID: req.SessionID,
		ClientIP:  c.ClientIP(),
		History:   req.History,
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		reply, err := h.ChatSvc.Complete(ctx, streamReq)
		if err != nil {
			common.Fail(c, http.StatusBadGateway, 50203, "chat upstream failed")
			return
		}
		common.OK(c, gin.H{"content": reply, "done": true})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	events := h.ChatSvc.Stream(ctx, streamReq)

	for {
		select {
		case ev, open := <-events:
			if !open {
				return
			}
			b, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", b); err != nil {
				// client disconnected; ctx cancellation stops the upstream read
				return
			}
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}

// SaveChatSession is the explicit transcript save used by clients.
func (h *Handler) SaveChatSession(c *gin.Context) {
	var req struct {
		SessionID        string      `json:"sessionId"`
		SelectedGpus     []uint64    `json:"selectedGpus"`
		ConversationData []chat.Turn `json:"conversationData"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" || len(req.ConversationData) == 0 {
		badRequest(c, 10001, "session id and conversation data are required")
		return
	}

	id, err := h.Chats.SaveSession(c.Request.Context(), req.SessionID, c.ClientIP(),
		req.SelectedGpus, req.ConversationData)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to save session")
		return
	}
	common.OK(c, gin.H{"sessionId": req.SessionID, "dbId": id})
}
