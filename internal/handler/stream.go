package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"panelprofits/internal/stream"
)

// StreamHandler upgrades clients onto the narrative event websocket feed.
type StreamHandler struct {
	Hub    *stream.Hub
	Logger *zap.Logger
}

func (h *StreamHandler) Register(r *gin.Engine) {
	r.GET("/api/narrative/stream", h.subscribe)
}

func (h *StreamHandler) subscribe(c *gin.Context) {
	if h.Hub == nil {
		Error(c, http.StatusServiceUnavailable, "stream disabled", nil)
		return
	}
	if err := h.Hub.Subscribe(c.Writer, c.Request); err != nil {
		if h.Logger != nil {
			h.Logger.Debug("stream subscriber dropped", zap.Error(err))
		}
	}
}
