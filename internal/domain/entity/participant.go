package entity

import (
	"time"
)

// Participant представляет членство пользователя в комнате.
// На пару (комната, пользователь) существует не более одной записи.
// Записи не удаляются: при выходе участник помечается неактивным,
// чтобы сохранить историю счета.
type Participant struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	RoomID   uint  `gorm:"not null;index;uniqueIndex:idx_room_user" json:"room_id"`
	UserID   uint  `gorm:"not null;index;uniqueIndex:idx_room_user" json:"user_id"`
	Score    int   `gorm:"not null;default:0" json:"score"`
	IsReady  bool  `gorm:"not null;default:false" json:"is_ready"`
	IsActive bool  `gorm:"not null;default:true" json:"is_active"`
	User     *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	JoinedAt  time.Time `gorm:"not null" json:"joined_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Participant) TableName() string {
	return "participants"
}
