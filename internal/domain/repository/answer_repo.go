package repository

import (
	"github.com/yourusername/trivia-rooms/internal/domain/entity"
)

// AnswerRepository определяет методы для работы с ответами.
// Ответы только создаются: записи не изменяются и не удаляются.
type AnswerRepository interface {
	// CreateWithScoreIncrement в одной транзакции сохраняет ответ и начисляет
	// очки участнику: либо происходит и то и другое, либо ничего.
	// При нарушении уникальности (user_id, question_id) возвращает
	// ErrDuplicateAnswer - это основная защита от конкурентных дублей.
	CreateWithScoreIncrement(answer *entity.Answer) error
	// GetByQuestion возвращает все ответы на вопрос с данными пользователей
	GetByQuestion(questionID uint) ([]entity.Answer, error)
	// GetByRoom возвращает все ответы игры
	GetByRoom(roomID uint) ([]entity.Answer, error)
}
