package realtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"msme-logistics/internal/usecase/delivery"
)

// Hub fans delivery events out to websocket subscribers. Subscriptions are
// keyed by delivery id; a connection subscribes to exactly one delivery.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[*websocket.Conn]struct{}
	logger      *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]map[*websocket.Conn]struct{}),
		logger:      logger,
	}
}

func (h *Hub) Subscribe(deliveryID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subscribers[deliveryID] == nil {
		h.subscribers[deliveryID] = make(map[*websocket.Conn]struct{})
	}
	h.subscribers[deliveryID][conn] = struct{}{}
}

func (h *Hub) Unsubscribe(deliveryID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.subscribers[deliveryID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.subscribers, deliveryID)
		}
	}
}

// Broadcast pushes the event to every subscriber of its delivery. Writes
// that fail drop the connection; the client is expected to reconnect.
func (h *Hub) Broadcast(event delivery.Event) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.subscribers[event.DeliveryID]))
	for conn := range h.subscribers[event.DeliveryID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			h.logger.Debug("dropping websocket subscriber",
				zap.String("delivery_id", event.DeliveryID.String()),
				zap.Error(err))
			h.Unsubscribe(event.DeliveryID, conn)
			_ = conn.Close()
		}
	}
}
