package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/trivia-rooms/internal/domain/entity"
	"github.com/yourusername/trivia-rooms/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-rooms/internal/pkg/errors"
)

// ParticipantRepo реализует repository.ParticipantRepository
type ParticipantRepo struct {
	db *gorm.DB
}

// NewParticipantRepo создает новый репозиторий участников
func NewParticipantRepo(db *gorm.DB) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

// Create создает запись участника.
// Unique index на (room_id, user_id) гарантирует не более одной записи
// на пару комната-пользователь; нарушение возвращается как ErrConflict.
func (r *ParticipantRepo) Create(participant *entity.Participant) error {
	err := r.db.Create(participant).Error
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user #%d already in room #%d",
				apperrors.ErrConflict, participant.UserID, participant.RoomID)
		}
		return err
	}
	return nil
}

// GetByRoomAndUser возвращает участника по паре (комната, пользователь)
func (r *ParticipantRepo) GetByRoomAndUser(roomID, userID uint) (*entity.Participant, error) {
	var participant entity.Participant
	err := r.db.Where("room_id = ? AND user_id = ?", roomID, userID).First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrParticipantNotFound
		}
		return nil, err
	}
	return &participant, nil
}

// GetByRoom возвращает всех участников комнаты с данными пользователей
func (r *ParticipantRepo) GetByRoom(roomID uint) ([]entity.Participant, error) {
	var participants []entity.Participant
	err := r.db.
		Preload("User").
		Where("room_id = ?", roomID).
		Order("joined_at").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// GetActiveByRoom возвращает только активных участников комнаты
func (r *ParticipantRepo) GetActiveByRoom(roomID uint) ([]entity.Participant, error) {
	var participants []entity.Participant
	err := r.db.
		Where("room_id = ? AND is_active = ?", roomID, true).
		Order("joined_at").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// CountByRoom возвращает количество участников комнаты
func (r *ParticipantRepo) CountByRoom(roomID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Participant{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	return count, err
}

// SetReady обновляет флаг готовности участника
func (r *ParticipantRepo) SetReady(roomID, userID uint, isReady bool) error {
	result := r.db.Model(&entity.Participant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Update("is_ready", isReady)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user #%d in room #%d", repository.ErrParticipantNotFound, userID, roomID)
	}

	return nil
}

// SetInactive помечает участника неактивным, сохраняя его счет для истории
func (r *ParticipantRepo) SetInactive(roomID, userID uint) error {
	result := r.db.Model(&entity.Participant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Update("is_active", false)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user #%d in room #%d", repository.ErrParticipantNotFound, userID, roomID)
	}

	return nil
}

// IncrementScore атомарно увеличивает счет участника через gorm.Expr
func (r *ParticipantRepo) IncrementScore(roomID, userID uint, delta int) error {
	result := r.db.Model(&entity.Participant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		UpdateColumn("score", gorm.Expr("score + ?", delta))

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user #%d in room #%d", repository.ErrParticipantNotFound, userID, roomID)
	}

	return nil
}
