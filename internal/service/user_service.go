package service

import (
	"errors"

	"github.com/yourusername/trivia-rooms/internal/domain/entity"
	"github.com/yourusername/trivia-rooms/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-rooms/internal/pkg/errors"
)

// UserService реализует работу с игроками: ленивое создание по внешнему
// идентификатору, чтение профиля и лидерборд.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetOrCreate возвращает пользователя по внешнему идентификатору, создавая
// запись при первом появлении. Гонка двух первых запросов разрешается
// unique-индексом: проигравший Create перечитывает созданную запись.
// Имя и аватар при каждом входе синхронизируются с данными провайдера.
func (s *UserService) GetOrCreate(externalID, username, avatarURL string) (*entity.User, error) {
	user, err := s.userRepo.GetByExternalID(externalID)
	if err == nil {
		if user.Username != username || user.AvatarURL != avatarURL {
			user.Username = username
			user.AvatarURL = avatarURL
			if err := s.userRepo.Update(user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user = &entity.User{
		ExternalID:    externalID,
		Username:      username,
		AvatarURL:     avatarURL,
		CategoryStats: entity.CategoryStats{},
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return s.userRepo.GetByExternalID(externalID)
		}
		return nil, err
	}

	return user, nil
}

// GetByID возвращает пользователя по внутреннему идентификатору
func (s *UserService) GetByID(id uint) (*entity.User, error) {
	return s.userRepo.GetByID(id)
}

// GetLeaderboard возвращает страницу лидерборда и общее число игроков.
// Порядок: по победам, затем по суммарному счету.
func (s *UserService) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.GetLeaderboard(limit, offset)
}
