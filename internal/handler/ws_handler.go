package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/yourusername/trivia-rooms/internal/service"
	ws "github.com/yourusername/trivia-rooms/internal/websocket"
)

// WSHandler устанавливает WebSocket-подключения к комнатам
type WSHandler struct {
	hub         *ws.Hub
	roomService *service.RoomService
	upgrader    gorillaws.Upgrader
}

// NewWSHandler создает новый WebSocket-обработчик
func NewWSHandler(hub *ws.Hub, roomService *service.RoomService, checkOrigin func(r *http.Request) bool) *WSHandler {
	return &WSHandler{
		hub:         hub,
		roomService: roomService,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// HandleConnection апгрейдит соединение и подписывает клиента на события
// комнаты. Подключаться могут только участники комнаты.
func (h *WSHandler) HandleConnection(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)
	userID := c.MustGet("user_id").(uint)

	room, err := h.roomService.GetRoomByID(roomID)
	if err != nil {
		handleGameError(c, err)
		return
	}

	isParticipant := false
	for _, p := range room.Participants {
		if p.UserID == userID {
			isParticipant = true
			break
		}
	}
	if !isParticipant {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant of this room"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade сам пишет HTTP-ответ при ошибке
		log.Printf("[WSHandler] Ошибка апгрейда соединения для пользователя #%d: %v", userID, err)
		return
	}

	client := ws.NewClient(h.hub, conn, userID, roomID)
	go client.WritePump()
	go client.ReadPump()
}
