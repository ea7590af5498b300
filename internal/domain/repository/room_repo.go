package repository

import (
	"github.com/yourusername/trivia-rooms/internal/domain/entity"
)

// RoomRepository определяет методы для работы с игровыми комнатами
type RoomRepository interface {
	// CreateWithHost атомарно создает комнату и запись участника-хоста
	CreateWithHost(room *entity.Room, host *entity.Participant) error
	GetByID(id uint) (*entity.Room, error)
	GetByCode(code string) (*entity.Room, error)
	// GetWithParticipants возвращает комнату вместе с участниками и данными их пользователей
	GetWithParticipants(id uint) (*entity.Room, error)
	// GetPublicWaiting возвращает публичные комнаты в статусе waiting с участниками
	GetPublicWaiting() ([]entity.Room, error)
	CodeExists(code string) (bool, error)
	// AtomicStart атомарно переводит waiting → in_progress, проставляет started_at
	// и current_round=1. Guard `WHERE status = 'waiting'` (RowsAffected) исключает
	// двойной старт при конкурентных вызовах; при 0 строк возвращается
	// ErrGameAlreadyStarted.
	AtomicStart(roomID uint) error
	// AtomicFinish атомарно переводит комнату в finished и проставляет finished_at.
	// Переход монотонный: из finished выхода нет.
	AtomicFinish(roomID uint) error
	UpdateHost(roomID, hostID uint) error
	// UpdateProgress точечно обновляет current_round и current_question_index
	UpdateProgress(roomID uint, currentRound, currentQuestionIndex int) error
	// UpdateState - частичное обновление произвольных полей комнаты
	UpdateState(roomID uint, updates map[string]interface{}) error
}
