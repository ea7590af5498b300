package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event - конверт для всех событий, рассылаемых в комнаты
type Event struct {
	Type      string      `json:"type"`
	RoomID    uint        `json:"room_id"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub ведет активные подключения и рассылает события по комнатам.
// Реализует service.EventBroadcaster: сервисы не знают о транспорте.
type Hub struct {
	// Клиенты по ID комнаты
	rooms map[uint]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan *roomMessage

	mu sync.RWMutex
}

type roomMessage struct {
	roomID  uint
	payload []byte
}

// NewHub создает новый hub
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uint]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *roomMessage, 256),
	}
}

// Run обрабатывает регистрацию, отключение и рассылку.
// Запускается одной горутиной при старте сервера.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[client.RoomID]
	if !ok {
		clients = make(map[*Client]struct{})
		h.rooms[client.RoomID] = clients
	}
	clients[client] = struct{}{}

	log.Printf("[WebSocket] Клиент %s (пользователь #%d) подключен к комнате #%d, всего в комнате: %d",
		client.ConnectionID, client.UserID, client.RoomID, len(clients))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[client.RoomID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	client.closeSend()
	if len(clients) == 0 {
		delete(h.rooms, client.RoomID)
	}

	log.Printf("[WebSocket] Клиент %s отключен от комнаты #%d", client.ConnectionID, client.RoomID)
}

func (h *Hub) deliver(msg *roomMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[msg.roomID] {
		if !client.enqueue(msg.payload) {
			// Переполненный буфер означает мертвого или безнадежно
			// отставшего клиента; его снимет unregister из writePump
			log.Printf("[WebSocket] Буфер клиента %s переполнен, сообщение комнаты #%d отброшено",
				client.ConnectionID, msg.roomID)
		}
	}
}

// BroadcastToRoom сериализует событие и рассылает его всем подключенным
// к комнате клиентам
func (h *Hub) BroadcastToRoom(roomID uint, eventType string, data interface{}) error {
	payload, err := json.Marshal(Event{
		Type:      eventType,
		RoomID:    roomID,
		Data:      data,
		Timestamp: time.Now(),
	})
	if err != nil {
		return err
	}

	h.broadcast <- &roomMessage{roomID: roomID, payload: payload}
	return nil
}

// RoomClientCount возвращает число подключенных к комнате клиентов
func (h *Hub) RoomClientCount(roomID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
