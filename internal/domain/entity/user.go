package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// CategoryStats - пользовательский тип для хранения счетчиков игр по категориям в JSONB
type CategoryStats map[string]int

// Scan реализует интерфейс sql.Scanner для CategoryStats
// Используется GORM для чтения JSONB данных из базы
func (s *CategoryStats) Scan(value interface{}) error {
	if value == nil {
		*s = CategoryStats{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*s = CategoryStats{}
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// Value реализует интерфейс driver.Valuer для CategoryStats
func (s CategoryStats) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil // Возвращаем пустой JSON объект вместо null
	}
	return json.Marshal(s)
}

// User представляет игрока. Запись создается при первом появлении нового
// внешнего идентификатора; учетными данными управляет внешний identity-провайдер.
type User struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	ExternalID    string        `gorm:"size:100;not null;uniqueIndex" json:"external_id"`
	Username      string        `gorm:"size:50;not null" json:"username"`
	AvatarURL     string        `gorm:"size:255;not null;default:''" json:"avatar_url,omitempty"`
	GamesPlayed   int           `gorm:"not null;default:0" json:"games_played"`
	GamesWon      int           `gorm:"not null;default:0" json:"games_won"`
	TotalScore    int64         `gorm:"not null;default:0" json:"total_score"`
	CategoryStats CategoryStats `gorm:"type:jsonb;not null;default:'{}'" json:"category_stats"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// ApplyGameResult обновляет накопленную статистику после завершенной игры
func (u *User) ApplyGameResult(won bool, score int, categories []string) {
	u.GamesPlayed++
	if won {
		u.GamesWon++
	}
	u.TotalScore += int64(score)

	if u.CategoryStats == nil {
		u.CategoryStats = CategoryStats{}
	}
	for _, category := range categories {
		u.CategoryStats[category]++
	}
}
