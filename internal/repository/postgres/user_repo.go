package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/trivia-rooms/internal/domain/entity"
	apperrors "github.com/yourusername/trivia-rooms/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create создает нового пользователя. При гонке за один external_id
// проигравший получает ErrConflict и должен перечитать запись.
func (r *UserRepo) Create(user *entity.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: external_id %s", apperrors.ErrConflict, user.ExternalID)
		}
		return err
	}
	return nil
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByExternalID возвращает пользователя по внешнему идентификатору
// (выдается identity-провайдером)
func (r *UserRepo) GetByExternalID(externalID string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("external_id = ?", externalID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update обновляет информацию о пользователе
func (r *UserRepo) Update(user *entity.User) error {
	return r.db.Save(user).Error
}

// ApplyGameResult транзакционно обновляет статистику после завершенной игры.
// Read-modify-write внутри транзакции, чтобы конкурентные завершения игр
// не потеряли обновления счетчиков.
func (r *UserRepo) ApplyGameResult(userID uint, won bool, score int, categories []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user entity.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		user.ApplyGameResult(won, score, categories)

		return tx.Save(&user).Error
	})
}

// GetLeaderboard возвращает пользователей для лидерборда с пагинацией и общим
// количеством. Сортировка: games_won DESC, total_score DESC, id ASC для стабильности.
func (r *UserRepo) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	var users []entity.User
	var total int64

	if err := r.db.Model(&entity.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.
		Order("games_won DESC, total_score DESC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
