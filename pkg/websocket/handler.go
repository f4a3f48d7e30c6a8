package websocket

import (
	"log"

	"flottapool/internal/models"

	"github.com/gin-gonic/gin"
)

// Handler owns the hub and implements the change-notification contract the
// services publish through: vehicle updates, appended log entries and booking
// changes all reach every connected dashboard.
type Handler struct {
	hub *Hub
}

func NewHandler() *Handler {
	hub := NewHub()
	go hub.Run()

	return &Handler{
		hub: hub,
	}
}

func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewClient(h.hub, conn)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (h *Handler) VehicleUpdated(vehicle *models.Vehicle) {
	h.hub.Broadcast("vehicle_updated", map[string]interface{}{
		"vehicle": vehicle,
	})
}

func (h *Handler) LogAppended(entry *models.LogEntry) {
	h.hub.Broadcast("log_appended", map[string]interface{}{
		"entry": entry,
	})
}

func (h *Handler) BookingChanged(booking *models.Booking, action string) {
	h.hub.Broadcast("booking_"+action, map[string]interface{}{
		"booking": booking,
	})
}

func (h *Handler) GetHub() *Hub {
	return h.hub
}
