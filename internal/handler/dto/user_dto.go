package dto

import (
	"time"

	"github.com/yourusername/trivia-rooms/internal/domain/entity"
)

// UserResponse представляет пользователя в формате для ответа клиенту
type UserResponse struct {
	ID            uint                 `json:"id"`
	Username      string               `json:"username"`
	AvatarURL     string               `json:"avatar_url,omitempty"`
	GamesPlayed   int                  `json:"games_played"`
	GamesWon      int                  `json:"games_won"`
	TotalScore    int64                `json:"total_score"`
	CategoryStats entity.CategoryStats `json:"category_stats"`
	CreatedAt     time.Time            `json:"created_at"`
}

// LeaderboardResponse представляет пагинированный лидерборд
type LeaderboardResponse struct {
	Users   []UserResponse `json:"users"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

// NewUserResponse создает DTO для пользователя.
// external_id наружу не отдается: это внутренняя связка с identity-провайдером.
func NewUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:            user.ID,
		Username:      user.Username,
		AvatarURL:     user.AvatarURL,
		GamesPlayed:   user.GamesPlayed,
		GamesWon:      user.GamesWon,
		TotalScore:    user.TotalScore,
		CategoryStats: user.CategoryStats,
		CreatedAt:     user.CreatedAt,
	}
}

// NewLeaderboardResponse создает DTO для страницы лидерборда
func NewLeaderboardResponse(users []entity.User, total int64, page, perPage int) *LeaderboardResponse {
	result := make([]UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *NewUserResponse(&users[i]))
	}
	return &LeaderboardResponse{
		Users:   result,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}
