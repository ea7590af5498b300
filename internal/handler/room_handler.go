package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/trivia-rooms/internal/domain/entity"
	"github.com/yourusername/trivia-rooms/internal/handler/dto"
	"github.com/yourusername/trivia-rooms/internal/service"
)

// RoomHandler обрабатывает запросы жизненного цикла комнат
type RoomHandler struct {
	roomService *service.RoomService
	gameService *service.GameService
}

// NewRoomHandler создает новый обработчик комнат
func NewRoomHandler(roomService *service.RoomService, gameService *service.GameService) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		gameService: gameService,
	}
}

// CreateRoomRequest представляет запрос на создание комнаты
type CreateRoomRequest struct {
	Settings entity.RoomSettings `json:"settings" binding:"required"`
	IsPublic bool                `json:"is_public"`
}

// CreateRoom обрабатывает запрос на создание комнаты.
// Создатель становится хостом и первым участником.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.roomService.CreateRoom(userID, req.Settings, req.IsPublic)
	if err != nil {
		handleGameError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewRoomResponse(room))
}

// JoinRoomRequest представляет запрос на вход в комнату по коду
type JoinRoomRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

// JoinRoom обрабатывает вход в комнату по коду присоединения
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roomID, err := h.roomService.JoinRoom(req.Code, userID)
	if err != nil {
		handleGameError(c, err)
		return
	}

	room, err := h.roomService.GetRoomByID(roomID)
	if err != nil {
		handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRoomResponse(room))
}

// GetRoom возвращает комнату с участниками
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)

	room, err := h.roomService.GetRoomByID(roomID)
	if err != nil {
		handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRoomResponse(room))
}

// GetPublicRooms возвращает публичные комнаты, ожидающие игроков
func (h *RoomHandler) GetPublicRooms(c *gin.Context) {
	rooms, err := h.roomService.GetPublicRooms()
	if err != nil {
		handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": dto.NewPublicRoomListResponse(rooms)})
}

// SetReadyRequest представляет запрос на смену готовности
type SetReadyRequest struct {
	IsReady *bool `json:"is_ready" binding:"required"`
}

// SetReady переключает готовность участника. Если готовность замкнула
// условие авто-старта, игра запускается и в ответе started=true.
func (h *RoomHandler) SetReady(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)
	userID := c.MustGet("user_id").(uint)

	var req SetReadyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	started, err := h.gameService.SetPlayerReady(c.Request.Context(), roomID, userID, *req.IsReady)
	if err != nil {
		handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_ready": *req.IsReady, "started": started})
}

// LeaveRoom обрабатывает выход участника из комнаты
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)
	userID := c.MustGet("user_id").(uint)

	if err := h.roomService.LeaveRoom(roomID, userID); err != nil {
		handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left the room"})
}
