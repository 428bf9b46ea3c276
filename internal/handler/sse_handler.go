package handler

import (
	"fmt"

	"inbox-triage/internal/sse"

	"github.com/labstack/echo/v4"
)

type SSEHandler struct {
	sseManager *sse.SSEManager
	logger     echo.Logger
}

func NewSSEHandler(sseManager *sse.SSEManager, logger echo.Logger) *SSEHandler {
	return &SSEHandler{sseManager: sseManager, logger: logger}
}

// Stream provides Server-Sent Events for triage updates and woken snoozes
func (h *SSEHandler) Stream(c echo.Context) error {
	id := sessionID(c)

	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")

	clientChannel := h.sseManager.AddClient(id)
	defer h.sseManager.RemoveClient(id, clientChannel)

	h.sseManager.BroadcastToSession(id, sse.EventConnection, map[string]string{
		"message": "Connected to triage updates",
	})

	for {
		select {
		case eventData, ok := <-clientChannel:
			if !ok {
				// manager closed
				return nil
			}
			fmt.Fprintf(c.Response(), "data: %s\n\n", eventData)
			c.Response().Flush()
		case <-c.Request().Context().Done():
			return nil
		}
	}
}
