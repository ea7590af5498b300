package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Время, которое разрешено писать сообщение клиенту
	writeWait = 10 * time.Second

	// Время ожидания pong-ответа; соединение без pong считается мертвым
	pongWait = 30 * time.Second

	// Периодичность ping-сообщений, должна быть меньше pongWait
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер входящего сообщения. Клиенты ничего не
	// присылают по WebSocket кроме pong, канал односторонний.
	maxMessageSize = 512

	// Размер буфера исходящих сообщений клиента
	clientBufferSize = 64
)

// Client - одно WebSocket-подключение участника к комнате
type Client struct {
	// Внутренний ID пользователя
	UserID uint

	// Комната, события которой получает клиент
	RoomID uint

	// Уникальный ID соединения: один пользователь может держать
	// несколько вкладок
	ConnectionID string

	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

// NewClient создает клиента и регистрирует его в hub
func NewClient(hub *Hub, conn *websocket.Conn, userID, roomID uint) *Client {
	client := &Client{
		UserID:       userID,
		RoomID:       roomID,
		ConnectionID: uuid.New().String(),
		hub:          hub,
		conn:         conn,
		send:         make(chan []byte, clientBufferSize),
	}
	hub.register <- client
	return client
}

// enqueue пытается поставить сообщение в буфер клиента без блокировки
func (c *Client) enqueue(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// closeSend закрывает канал отправки ровно один раз
func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// ReadPump читает входящие фреймы до разрыва соединения. Содержимое
// игнорируется, но чтение обязательно: оно обрабатывает pong и close.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WebSocket] Неожиданное закрытие соединения %s: %v", c.ConnectionID, err)
			}
			return
		}
	}
}

// WritePump пишет события из буфера в соединение и поддерживает его
// ping-сообщениями
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
