package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Hub fans storefront events (stock changes, new orders) out to connected
// dashboard clients.
type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	done       chan struct{}
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 16),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.Println("New WS client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()

		case <-h.done:
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

// BroadcastStockUpdate notifies clients that a batch's remaining stock or
// status changed. Fire-and-forget: a send never blocks a request handler.
func (h *Hub) BroadcastStockUpdate(batchID uuid.UUID, remainingKg float64, status string) {
	h.send(map[string]interface{}{
		"type":         "stock_update",
		"batch_id":     batchID,
		"remaining_kg": remainingKg,
		"status":       status,
	})
}

// BroadcastOrderPlaced notifies clients that a new order was committed.
func (h *Hub) BroadcastOrderPlaced(orderNumber string, farmIDs []uuid.UUID, total int64) {
	h.send(map[string]interface{}{
		"type":         "order_placed",
		"order_number": orderNumber,
		"farm_ids":     farmIDs,
		"total":        total,
	})
}

func (h *Hub) send(payload map[string]interface{}) {
	msg, err := json.Marshal(payload)
	if err != nil {
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		// Drop the event rather than stall the caller when nobody drains
	}
}
