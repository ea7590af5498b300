package repository

import (
	"github.com/yourusername/trivia-rooms/internal/domain/entity"
)

// ParticipantRepository определяет методы для работы с участниками комнат
type ParticipantRepository interface {
	Create(participant *entity.Participant) error
	GetByRoomAndUser(roomID, userID uint) (*entity.Participant, error)
	// GetByRoom возвращает всех участников комнаты (включая неактивных) с данными пользователей
	GetByRoom(roomID uint) ([]entity.Participant, error)
	// GetActiveByRoom возвращает только активных участников
	GetActiveByRoom(roomID uint) ([]entity.Participant, error)
	CountByRoom(roomID uint) (int64, error)
	// SetReady обновляет флаг готовности; при отсутствии записи возвращает ErrParticipantNotFound
	SetReady(roomID, userID uint, isReady bool) error
	// SetInactive помечает участника неактивным (soft delete, счет сохраняется)
	SetInactive(roomID, userID uint) error
	// IncrementScore атомарно увеличивает счет участника
	IncrementScore(roomID, userID uint, delta int) error
}
