package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/trivia-rooms/internal/handler/dto"
	"github.com/yourusername/trivia-rooms/internal/service"
)

// UserHandler обрабатывает запросы профиля и лидерборда
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler создает новый обработчик пользователей
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMe возвращает профиль текущего пользователя со статистикой
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	user, err := h.userService.GetByID(userID)
	if err != nil {
		handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// GetUser возвращает профиль пользователя по ID
func (h *UserHandler) GetUser(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	user, err := h.userService.GetByID(userID)
	if err != nil {
		handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// GetLeaderboard возвращает страницу лидерборда
func (h *UserHandler) GetLeaderboard(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if err != nil || perPage < 1 {
		perPage = 20
	}

	users, total, err := h.userService.GetLeaderboard(perPage, (page-1)*perPage)
	if err != nil {
		handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewLeaderboardResponse(users, total, page, perPage))
}
