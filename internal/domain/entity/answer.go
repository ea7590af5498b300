package entity

import (
	"time"
)

// Answer представляет ответ пользователя на вопрос.
// На пару (user_id, question_id) существует не более одной записи -
// уникальный индекс в БД делает защиту от дублей при конкурентной
// отправке строгой, а не best-effort. Записи не изменяются и не удаляются.
type Answer struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	UserID         uint   `gorm:"not null;index;uniqueIndex:idx_user_question" json:"user_id"`
	QuestionID     uint   `gorm:"not null;index;uniqueIndex:idx_user_question" json:"question_id"`
	RoomID         uint   `gorm:"not null;index" json:"room_id"`
	Answer         string `gorm:"size:10;not null" json:"answer"`
	IsCorrect      bool   `gorm:"not null" json:"is_correct"`
	ResponseTimeMs int64  `gorm:"not null;default:0" json:"response_time_ms"`
	PointsEarned   int    `gorm:"not null;default:0" json:"points_earned"`
	User           *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Answer) TableName() string {
	return "answers"
}
