package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/trivia-rooms/internal/domain/entity"
	"github.com/yourusername/trivia-rooms/internal/domain/repository"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// CreateBatch создает набор вопросов раунда одной вставкой
func (r *QuestionRepo) CreateBatch(questions []entity.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.Create(&questions).Error
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrQuestionNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetByRoomAndRound возвращает вопросы раунда, отсортированные по order_in_round
func (r *QuestionRepo) GetByRoomAndRound(roomID uint, round int) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.
		Where("room_id = ? AND round_number = ?", roomID, round).
		Order("order_in_round").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// GetByPosition возвращает вопрос по позиции (round, order_in_round) внутри комнаты
func (r *QuestionRepo) GetByPosition(roomID uint, round, orderInRound int) (*entity.Question, error) {
	var question entity.Question
	err := r.db.
		Where("room_id = ? AND round_number = ? AND order_in_round = ?", roomID, round, orderInRound).
		First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrQuestionNotFound
		}
		return nil, err
	}
	return &question, nil
}

// StampReveal проставляет revealed_at и expires_at вопросу, ставшему текущим
func (r *QuestionRepo) StampReveal(questionID uint, revealedAt, expiresAt time.Time) error {
	result := r.db.Model(&entity.Question{}).
		Where("id = ?", questionID).
		Updates(map[string]interface{}{
			"revealed_at": revealedAt,
			"expires_at":  expiresAt,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return repository.ErrQuestionNotFound
	}

	return nil
}
