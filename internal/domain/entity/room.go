package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Константы статусов игровой комнаты
const (
	RoomStatusWaiting    = "waiting"
	RoomStatusInProgress = "in_progress"
	RoomStatusFinished   = "finished"
)

// Границы настроек комнаты
const (
	MinPlayers = 2
	MaxPlayers = 4

	RoomCodeLength = 6
)

// RoomSettings - неизменяемый снимок настроек игры, хранится в JSONB по значению
type RoomSettings struct {
	MaxPlayers        int      `json:"max_players"`
	Rounds            int      `json:"rounds"`
	QuestionsPerRound int      `json:"questions_per_round"`
	TimeLimitSec      int      `json:"time_limit_sec"`
	Categories        []string `json:"categories"`
	Difficulty        string   `json:"difficulty"`
}

// Scan реализует интерфейс sql.Scanner для RoomSettings
func (s *RoomSettings) Scan(value interface{}) error {
	if value == nil {
		*s = RoomSettings{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	return json.Unmarshal(bytes, s)
}

// Value реализует интерфейс driver.Valuer для RoomSettings
func (s RoomSettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Validate проверяет структурную корректность настроек
func (s *RoomSettings) Validate() error {
	if s.MaxPlayers < MinPlayers || s.MaxPlayers > MaxPlayers {
		return errors.New("max_players must be between 2 and 4")
	}
	if s.Rounds < 1 {
		return errors.New("rounds must be positive")
	}
	if s.QuestionsPerRound < 1 {
		return errors.New("questions_per_round must be positive")
	}
	if s.TimeLimitSec < 1 {
		return errors.New("time_limit_sec must be positive")
	}
	if len(s.Categories) == 0 {
		return errors.New("categories must not be empty")
	}
	if s.Difficulty != "easy" && s.Difficulty != "medium" && s.Difficulty != "hard" {
		return errors.New("difficulty must be one of: easy, medium, hard")
	}
	return nil
}

// Room представляет игровую комнату. Комнаты никогда не удаляются:
// завершенные остаются для истории результатов.
type Room struct {
	ID                   uint          `gorm:"primaryKey" json:"id"`
	Code                 string        `gorm:"size:6;not null;uniqueIndex" json:"code"`
	HostID               uint          `gorm:"not null;index" json:"host_id"`
	Settings             RoomSettings  `gorm:"type:jsonb;not null" json:"settings"`
	Status               string        `gorm:"size:20;not null;default:'waiting';index" json:"status"`
	IsPublic             bool          `gorm:"not null;default:false;index:idx_public_waiting" json:"is_public"`
	CurrentRound         int           `gorm:"not null;default:0" json:"current_round"`
	CurrentQuestionIndex int           `gorm:"not null;default:0" json:"current_question_index"`
	Participants         []Participant `gorm:"foreignKey:RoomID" json:"participants,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
	StartedAt            *time.Time    `json:"started_at,omitempty"`
	FinishedAt           *time.Time    `json:"finished_at,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (Room) TableName() string {
	return "rooms"
}

// IsWaiting проверяет, находится ли комната в ожидании игроков
func (r *Room) IsWaiting() bool {
	return r.Status == RoomStatusWaiting
}

// IsInProgress проверяет, идет ли игра
func (r *Room) IsInProgress() bool {
	return r.Status == RoomStatusInProgress
}

// IsFinished проверяет, завершена ли игра
func (r *Room) IsFinished() bool {
	return r.Status == RoomStatusFinished
}

// CanTransitionTo проверяет допустимость перехода статуса.
// Переходы монотонны: waiting → in_progress → finished, обратных нет.
func (r *Room) CanTransitionTo(status string) bool {
	switch r.Status {
	case RoomStatusWaiting:
		return status == RoomStatusInProgress || status == RoomStatusFinished
	case RoomStatusInProgress:
		return status == RoomStatusFinished
	default:
		return false
	}
}

// TotalQuestions возвращает общее количество вопросов в игре
func (r *Room) TotalQuestions() int {
	return r.Settings.Rounds * r.Settings.QuestionsPerRound
}
