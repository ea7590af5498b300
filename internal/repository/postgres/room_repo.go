package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/trivia-rooms/internal/domain/entity"
	"github.com/yourusername/trivia-rooms/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-rooms/internal/pkg/errors"
)

// RoomRepo реализует repository.RoomRepository
type RoomRepo struct {
	db *gorm.DB
}

// NewRoomRepo создает новый репозиторий комнат
func NewRoomRepo(db *gorm.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// CreateWithHost атомарно создает комнату и запись участника-хоста.
// Либо появляются обе записи, либо ни одной.
func (r *RoomRepo) CreateWithHost(room *entity.Room, host *entity.Participant) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}

		host.RoomID = room.ID
		return tx.Create(host).Error
	})
}

// GetByID возвращает комнату по ID
func (r *RoomRepo) GetByID(id uint) (*entity.Room, error) {
	var room entity.Room
	err := r.db.First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// GetByCode возвращает комнату по коду присоединения
func (r *RoomRepo) GetByCode(code string) (*entity.Room, error) {
	var room entity.Room
	err := r.db.Where("code = ?", code).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// GetWithParticipants возвращает комнату вместе с участниками и данными их пользователей
func (r *RoomRepo) GetWithParticipants(id uint) (*entity.Room, error) {
	var room entity.Room
	err := r.db.
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at")
		}).
		Preload("Participants.User").
		First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// GetPublicWaiting возвращает публичные комнаты, ожидающие игроков
func (r *RoomRepo) GetPublicWaiting() ([]entity.Room, error) {
	var rooms []entity.Room
	err := r.db.
		Preload("Participants").
		Where("is_public = ? AND status = ?", true, entity.RoomStatusWaiting).
		Order("created_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// CodeExists проверяет, занят ли код комнаты
func (r *RoomRepo) CodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Room{}).Where("code = ?", code).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AtomicStart атомарно переводит waiting → in_progress.
// - RowsAffected == 0 → комната не в статусе waiting (двойной старт исключен)
// - Другая DB ошибка → возвращается как есть
func (r *RoomRepo) AtomicStart(roomID uint) error {
	result := r.db.Model(&entity.Room{}).
		Where("id = ? AND status = ?", roomID, entity.RoomStatusWaiting).
		Updates(map[string]interface{}{
			"status":                 entity.RoomStatusInProgress,
			"started_at":             time.Now(),
			"current_round":          1,
			"current_question_index": 0,
		})

	if result.Error != nil {
		return fmt.Errorf("start room #%d failed: %w", roomID, result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: room #%d", repository.ErrGameAlreadyStarted, roomID)
	}

	return nil
}

// AtomicFinish атомарно переводит комнату в finished.
// Повторный перевод уже завершенной комнаты возвращает ErrConflict.
func (r *RoomRepo) AtomicFinish(roomID uint) error {
	result := r.db.Model(&entity.Room{}).
		Where("id = ? AND status <> ?", roomID, entity.RoomStatusFinished).
		Updates(map[string]interface{}{
			"status":      entity.RoomStatusFinished,
			"finished_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("finish room #%d failed: %w", roomID, result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: room #%d already finished", apperrors.ErrConflict, roomID)
	}

	return nil
}

// UpdateHost обновляет хоста комнаты
func (r *RoomRepo) UpdateHost(roomID, hostID uint) error {
	return r.db.Model(&entity.Room{}).
		Where("id = ?", roomID).
		Update("host_id", hostID).
		Error
}

// UpdateProgress точечно обновляет current_round и current_question_index
func (r *RoomRepo) UpdateProgress(roomID uint, currentRound, currentQuestionIndex int) error {
	return r.db.Model(&entity.Room{}).
		Where("id = ?", roomID).
		Updates(map[string]interface{}{
			"current_round":          currentRound,
			"current_question_index": currentQuestionIndex,
		}).Error
}

// UpdateState - частичное обновление произвольных полей комнаты.
// Переходы статуса автоматически штампуют started_at / finished_at.
func (r *RoomRepo) UpdateState(roomID uint, updates map[string]interface{}) error {
	if status, ok := updates["status"]; ok {
		switch status {
		case entity.RoomStatusInProgress:
			updates["started_at"] = time.Now()
		case entity.RoomStatusFinished:
			updates["finished_at"] = time.Now()
		}
	}

	return r.db.Model(&entity.Room{}).
		Where("id = ?", roomID).
		Updates(updates).Error
}
