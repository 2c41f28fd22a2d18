package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ChatStatus is the ingestion part of the health report.
type ChatStatus struct {
	Connected bool   `json:"connected"`
	RoomID    string `json:"room_id,omitempty"`
	Handle    string `json:"handle,omitempty"`
}

// HealthResponse is the body of GET /health. Chat is absent when ingestion
// is off.
type HealthResponse struct {
	Status string      `json:"status"`
	Chat   *ChatStatus `json:"chat,omitempty"`
}

// Health reports liveness and, when ingestion runs, whether the chat room
// has been joined. It is mounted outside the API base path.
func (h *Handlers) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok"}
	if h.room != nil {
		room := h.room.Room()
		resp.Chat = &ChatStatus{
			Connected: room.RoomID != "" || room.Handle != "",
			RoomID:    room.RoomID,
			Handle:    room.Handle,
		}
	}
	c.JSON(http.StatusOK, resp)
}
