package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Очки за ответ: база за правильный ответ и максимальный бонус за скорость
const (
	BasePoints    = 100
	MaxSpeedBonus = 50
)

// QuestionOption представляет один помеченный вариант ответа
type QuestionOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// QuestionOptions - пользовательский тип для хранения вариантов ответа в JSONB
type QuestionOptions []QuestionOption

// Scan реализует интерфейс sql.Scanner для QuestionOptions
func (o *QuestionOptions) Scan(value interface{}) error {
	if value == nil {
		*o = QuestionOptions{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = QuestionOptions{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для QuestionOptions
func (o QuestionOptions) Value() (driver.Value, error) {
	if o == nil || len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// Question представляет вопрос раунда. Пара (round_number, order_in_round)
// уникальна внутри комнаты. Правильный ответ скрыт от клиента до резолюции.
type Question struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	RoomID           uint            `gorm:"not null;index;uniqueIndex:idx_room_round_order" json:"room_id"`
	RoundNumber      int             `gorm:"not null;uniqueIndex:idx_room_round_order" json:"round_number"`
	OrderInRound     int             `gorm:"not null;uniqueIndex:idx_room_round_order" json:"order_in_round"`
	Content          string          `gorm:"size:1000;not null" json:"content"`
	Options          QuestionOptions `gorm:"type:jsonb;not null" json:"options"`
	CorrectAnswer    string          `gorm:"size:10;not null" json:"-"` // Скрыто от клиента
	Category         string          `gorm:"size:50;not null" json:"category"`
	Difficulty       string          `gorm:"size:20;not null" json:"difficulty"`
	FactChecked      bool            `gorm:"not null;default:false" json:"fact_checked"`
	FactCheckDetails string          `gorm:"size:1000;not null;default:''" json:"fact_check_details,omitempty"`
	RevealedAt       *time.Time      `json:"revealed_at,omitempty"`
	ExpiresAt        *time.Time      `json:"expires_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsCorrect проверяет, совпадает ли метка ответа с правильной
func (q *Question) IsCorrect(answer string) bool {
	return answer == q.CorrectAnswer
}

// IsRevealed проверяет, был ли вопрос показан игрокам
func (q *Question) IsRevealed() bool {
	return q.RevealedAt != nil
}

// ResponseTimeMs возвращает время ответа в миллисекундах от момента показа.
// Если вопрос еще не показан, время считается нулевым.
func (q *Question) ResponseTimeMs(now time.Time) int64 {
	if q.RevealedAt == nil {
		return 0
	}
	ms := now.Sub(*q.RevealedAt).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}

// CalculatePoints рассчитывает очки за ответ.
// Правильный ответ дает 100 базовых очков плюс бонус за скорость:
// floor(50 * max(0, 1 - responseTime/timeLimit)). Бонус линейно убывает
// от 50 при мгновенном ответе до 0 на границе лимита и не бывает отрицательным.
func (q *Question) CalculatePoints(isCorrect bool, responseTimeMs int64, timeLimitSec int) int {
	if !isCorrect {
		return 0
	}

	points := BasePoints

	timeLimitMs := int64(timeLimitSec) * 1000
	if timeLimitMs > 0 {
		remaining := 1 - float64(responseTimeMs)/float64(timeLimitMs)
		if remaining < 0 {
			remaining = 0
		}
		points += int(float64(MaxSpeedBonus) * remaining)
	}

	return points
}

// Masked возвращает копию вопроса без правильного ответа.
// Единственная точка маскирования: клиенты не должны наблюдать
// correct_answer до резолюции вопроса.
func (q *Question) Masked() *Question {
	masked := *q
	masked.CorrectAnswer = ""
	return &masked
}
