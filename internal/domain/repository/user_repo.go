package repository

import (
	"github.com/yourusername/trivia-rooms/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByExternalID(externalID string) (*entity.User, error)
	Update(user *entity.User) error
	// ApplyGameResult транзакционно обновляет статистику после завершенной игры:
	// games_played +1, games_won +1 при победе, total_score += score,
	// счетчики сыгранных категорий
	ApplyGameResult(userID uint, won bool, score int, categories []string) error
	// GetLeaderboard возвращает пользователей для лидерборда с пагинацией и общим количеством
	GetLeaderboard(limit, offset int) ([]entity.User, int64, error)
}
