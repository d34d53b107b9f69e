package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
)

// Event types pushed to connected displays.
const (
	TypeCatalog = "catalog_update"
	TypeOrder   = "order_update"
	TypeStock   = "stock_update"
)

// Event is the JSON frame sent to every client.
type Event struct {
	Type      string      `json:"type"`
	Action    string      `json:"action"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
	log        *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.log.Info("New WS Client Connected")

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
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Publish queues an event for broadcast. When the queue is full the event
// is dropped so a slow display never stalls the cashier.
func (h *Hub) Publish(eventType, action, message string, data interface{}) {
	msg, err := json.Marshal(Event{
		Type:      eventType,
		Action:    action,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		h.log.WithError(err).WithField("action", action).Error("failed to encode ws event")
		return
	}

	select {
	case h.Broadcast <- msg:
	default:
		h.log.WithField("action", action).Warn("ws broadcast queue full, event dropped")
	}
}
