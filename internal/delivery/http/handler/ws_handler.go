package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"msme-logistics/internal/realtime"
	deliveryUsecase "msme-logistics/internal/usecase/delivery"
	"msme-logistics/pkg/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is handled by the CORS middleware at the HTTP
	// layer; the upgrade itself accepts any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSHandler struct {
	hub     *realtime.Hub
	service *deliveryUsecase.Service
}

func NewWSHandler(hub *realtime.Hub, service *deliveryUsecase.Service) *WSHandler {
	return &WSHandler{hub: hub, service: service}
}

func (h *WSHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/deliveries/:id/track", h.Track)
}

// Track upgrades the connection and streams status and location events for
// one delivery until the client disconnects. Party access is checked before
// the upgrade.
func (h *WSHandler) Track(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if _, err := h.service.Get(c.Request.Context(), p, id); err != nil {
		fail(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to upgrade connection")
		return
	}

	h.hub.Subscribe(id, conn)
	defer func() {
		h.hub.Unsubscribe(id, conn)
		_ = conn.Close()
	}()

	// Drain reads to notice the disconnect; clients only listen.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
