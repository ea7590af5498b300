package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/trivia-rooms/internal/domain/entity"
	"github.com/yourusername/trivia-rooms/internal/domain/repository"
)

// AnswerRepo реализует repository.AnswerRepository
type AnswerRepo struct {
	db *gorm.DB
}

// NewAnswerRepo создает новый репозиторий ответов
func NewAnswerRepo(db *gorm.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

// CreateWithScoreIncrement в одной транзакции сохраняет ответ и начисляет
// очки участнику. Unique constraint на (user_id, question_id) делает защиту
// от дублей строгой: конкурентная повторная отправка получает
// ErrDuplicateAnswer от базы, а не от best-effort проверки в коде.
func (r *AnswerRepo) CreateWithScoreIncrement(answer *entity.Answer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(answer).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: user #%d, question #%d",
					repository.ErrDuplicateAnswer, answer.UserID, answer.QuestionID)
			}
			return err
		}

		if answer.PointsEarned == 0 {
			return nil
		}

		result := tx.Model(&entity.Participant{}).
			Where("room_id = ? AND user_id = ?", answer.RoomID, answer.UserID).
			UpdateColumn("score", gorm.Expr("score + ?", answer.PointsEarned))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: user #%d in room #%d",
				repository.ErrParticipantNotFound, answer.UserID, answer.RoomID)
		}

		return nil
	})
}

// GetByQuestion возвращает все ответы на вопрос с данными пользователей
func (r *AnswerRepo) GetByQuestion(questionID uint) ([]entity.Answer, error) {
	var answers []entity.Answer
	err := r.db.
		Preload("User").
		Where("question_id = ?", questionID).
		Order("created_at").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}

// GetByRoom возвращает все ответы игры
func (r *AnswerRepo) GetByRoom(roomID uint) ([]entity.Answer, error) {
	var answers []entity.Answer
	err := r.db.
		Where("room_id = ?", roomID).
		Order("created_at").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}
