package repository

import (
	"time"

	"github.com/yourusername/trivia-rooms/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	CreateBatch(questions []entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	// GetByRoomAndRound возвращает вопросы раунда, отсортированные по order_in_round
	GetByRoomAndRound(roomID uint, round int) ([]entity.Question, error)
	// GetByPosition возвращает вопрос по позиции (round, order_in_round) внутри комнаты
	GetByPosition(roomID uint, round, orderInRound int) (*entity.Question, error)
	// StampReveal проставляет revealed_at и expires_at текущему вопросу
	StampReveal(questionID uint, revealedAt, expiresAt time.Time) error
}
