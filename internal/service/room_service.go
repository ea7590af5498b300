package service

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/yourusername/trivia-rooms/internal/domain/entity"
	"github.com/yourusername/trivia-rooms/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-rooms/internal/pkg/errors"
)

const (
	roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// maxCodeAttempts ограничивает перебор кодов. Пространство кодов 36^6,
	// так что лимит практически недостижим и служит страховкой от
	// бесконечного цикла при деградации БД.
	maxCodeAttempts = 100

	publicRoomsCacheKey = "rooms:public"
	publicRoomsCacheTTL = 5 * time.Second
)

// PublicRoom - публичная комната с числом участников для лобби
type PublicRoom struct {
	entity.Room
	ParticipantCount int `json:"participant_count"`
}

// RoomService реализует хранилище комнат: создание с уникальным кодом,
// вход по коду, готовность с авто-стартом, выход с передачей хоста.
type RoomService struct {
	roomRepo        repository.RoomRepository
	participantRepo repository.ParticipantRepository
	cacheRepo       repository.CacheRepository
	locker          *RoomLocker
	broadcaster     EventBroadcaster
}

// NewRoomService создает новый сервис комнат
func NewRoomService(
	roomRepo repository.RoomRepository,
	participantRepo repository.ParticipantRepository,
	cacheRepo repository.CacheRepository,
	locker *RoomLocker,
	broadcaster EventBroadcaster,
) *RoomService {
	return &RoomService{
		roomRepo:        roomRepo,
		participantRepo: participantRepo,
		cacheRepo:       cacheRepo,
		locker:          locker,
		broadcaster:     broadcaster,
	}
}

// CreateRoom создает комнату с уникальным 6-символьным кодом и атомарно
// добавляет хоста первым участником (счет 0, не готов, активен)
func (s *RoomService) CreateRoom(hostUserID uint, settings entity.RoomSettings, isPublic bool) (*entity.Room, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	code, err := s.generateUniqueCode()
	if err != nil {
		return nil, err
	}

	room := &entity.Room{
		Code:         code,
		HostID:       hostUserID,
		Settings:     settings,
		Status:       entity.RoomStatusWaiting,
		IsPublic:     isPublic,
		CurrentRound: 0,
	}

	host := &entity.Participant{
		UserID:   hostUserID,
		Score:    0,
		IsReady:  false,
		IsActive: true,
		JoinedAt: time.Now(),
	}

	if err := s.roomRepo.CreateWithHost(room, host); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	s.invalidatePublicRoomsCache()

	return room, nil
}

// generateUniqueCode подбирает случайный код [A-Z0-9]{6}, не занятый
// существующими комнатами
func (s *RoomService) generateUniqueCode() (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := randomRoomCode()

		exists, err := s.roomRepo.CodeExists(code)
		if err != nil {
			return "", fmt.Errorf("failed to check room code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}

	return "", fmt.Errorf("could not allocate a unique room code after %d attempts", maxCodeAttempts)
}

// randomRoomCode генерирует случайный код комнаты
func randomRoomCode() string {
	var b strings.Builder
	b.Grow(entity.RoomCodeLength)
	for i := 0; i < entity.RoomCodeLength; i++ {
		b.WriteByte(roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))])
	}
	return b.String()
}

// NormalizeCode приводит код к канонической форме:
// ввод нечувствителен к регистру, поиск идет по верхнему регистру
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// JoinRoom добавляет пользователя в комнату по коду.
// Повторный вход уже состоящего в комнате пользователя идемпотентен:
// возвращается тот же ID комнаты без второй записи участника.
func (s *RoomService) JoinRoom(code string, userID uint) (uint, error) {
	room, err := s.roomRepo.GetByCode(NormalizeCode(code))
	if err != nil {
		return 0, err
	}

	if !room.IsWaiting() {
		return 0, fmt.Errorf("%w: room #%d", repository.ErrGameAlreadyStarted, room.ID)
	}

	err = s.locker.WithRoomLock(room.ID, func() error {
		_, err := s.participantRepo.GetByRoomAndUser(room.ID, userID)
		if err == nil {
			// Уже участник - идемпотентный вход
			return nil
		}
		if !errors.Is(err, repository.ErrParticipantNotFound) {
			return err
		}

		count, err := s.participantRepo.CountByRoom(room.ID)
		if err != nil {
			return err
		}
		if count >= int64(room.Settings.MaxPlayers) {
			return fmt.Errorf("%w: room #%d", repository.ErrRoomFull, room.ID)
		}

		participant := &entity.Participant{
			RoomID:   room.ID,
			UserID:   userID,
			Score:    0,
			IsReady:  false,
			IsActive: true,
			JoinedAt: time.Now(),
		}
		if err := s.participantRepo.Create(participant); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				// Конкурентный дубль по unique-индексу - тоже идемпотентный вход
				return nil
			}
			return err
		}

		if errB := s.broadcaster.BroadcastToRoom(room.ID, EventPlayerJoined, map[string]interface{}{
			"user_id": userID,
		}); errB != nil {
			log.Printf("[RoomService] Ошибка рассылки входа пользователя #%d: %v", userID, errB)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	s.invalidatePublicRoomsCache()

	return room.ID, nil
}

// GetRoomByID возвращает комнату с участниками и данными их пользователей
func (s *RoomService) GetRoomByID(roomID uint) (*entity.Room, error) {
	return s.roomRepo.GetWithParticipants(roomID)
}

// GetRoomByCode возвращает комнату по коду присоединения
func (s *RoomService) GetRoomByCode(code string) (*entity.Room, error) {
	return s.roomRepo.GetByCode(NormalizeCode(code))
}

// GetPublicRooms возвращает публичные комнаты в статусе waiting с живым
// числом участников. Список кешируется на несколько секунд: лобби
// опрашивает его часто, а точность до секунды не требуется.
func (s *RoomService) GetPublicRooms() ([]PublicRoom, error) {
	var cached []PublicRoom
	if err := s.cacheRepo.GetJSON(publicRoomsCacheKey, &cached); err == nil {
		return cached, nil
	}

	rooms, err := s.roomRepo.GetPublicWaiting()
	if err != nil {
		return nil, err
	}

	result := make([]PublicRoom, 0, len(rooms))
	for _, room := range rooms {
		count := len(room.Participants)
		room.Participants = nil // В лобби достаточно числа участников
		result = append(result, PublicRoom{
			Room:             room,
			ParticipantCount: count,
		})
	}

	if err := s.cacheRepo.SetJSON(publicRoomsCacheKey, result, publicRoomsCacheTTL); err != nil {
		log.Printf("[RoomService] Не удалось закешировать список публичных комнат: %v", err)
	}

	return result, nil
}

// SetPlayerReady обновляет готовность участника и проверяет условие
// авто-старта: все активные участники готовы и их не меньше двух.
// Проверка и переход выполняются под блокировкой комнаты, а сам переход
// дополнительно защищен условием `status = 'waiting'` в БД, так что два
// конкурентных переключения готовности не запустят игру дважды.
// Возвращает true, если комната перешла в in_progress этим вызовом.
func (s *RoomService) SetPlayerReady(roomID, userID uint, isReady bool) (bool, error) {
	started := false

	err := s.locker.WithRoomLock(roomID, func() error {
		if err := s.participantRepo.SetReady(roomID, userID, isReady); err != nil {
			return err
		}

		if errB := s.broadcaster.BroadcastToRoom(roomID, EventPlayerReady, map[string]interface{}{
			"user_id":  userID,
			"is_ready": isReady,
		}); errB != nil {
			log.Printf("[RoomService] Ошибка рассылки готовности пользователя #%d: %v", userID, errB)
		}

		if !isReady {
			return nil
		}

		participants, err := s.participantRepo.GetActiveByRoom(roomID)
		if err != nil {
			return err
		}

		if len(participants) < entity.MinPlayers {
			return nil
		}
		for _, p := range participants {
			if !p.IsReady {
				return nil
			}
		}

		if err := s.roomRepo.AtomicStart(roomID); err != nil {
			if errors.Is(err, repository.ErrGameAlreadyStarted) {
				// Комнату уже стартовал конкурентный вызов - не ошибка
				return nil
			}
			return err
		}

		started = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if started {
		s.invalidatePublicRoomsCache()
	}

	return started, nil
}

// LeaveRoom помечает участника неактивным (счет сохраняется для истории).
// Если уходит хост, хостом становится первый оставшийся активный участник;
// если активных не осталось, комната принудительно завершается.
func (s *RoomService) LeaveRoom(roomID, userID uint) error {
	err := s.locker.WithRoomLock(roomID, func() error {
		room, err := s.roomRepo.GetByID(roomID)
		if err != nil {
			return err
		}

		if err := s.participantRepo.SetInactive(roomID, userID); err != nil {
			if errors.Is(err, repository.ErrParticipantNotFound) {
				// Выход не-участника - no-op, как и повторный выход
				return nil
			}
			return err
		}

		if errB := s.broadcaster.BroadcastToRoom(roomID, EventPlayerLeft, map[string]interface{}{
			"user_id": userID,
		}); errB != nil {
			log.Printf("[RoomService] Ошибка рассылки выхода пользователя #%d: %v", userID, errB)
		}

		if room.HostID != userID {
			return nil
		}

		active, err := s.participantRepo.GetActiveByRoom(roomID)
		if err != nil {
			return err
		}

		if len(active) > 0 {
			return s.roomRepo.UpdateHost(roomID, active[0].UserID)
		}

		// Все вышли - закрываем комнату
		if err := s.roomRepo.AtomicFinish(roomID); err != nil && !errors.Is(err, apperrors.ErrConflict) {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidatePublicRoomsCache()

	return nil
}

// UpdateRoomStatus - частичное обновление состояния комнаты, примитив
// оркестратора. Переход статуса проверяется на монотонность
// (waiting → in_progress → finished); started_at и finished_at
// штампуются автоматически на соответствующих переходах.
func (s *RoomService) UpdateRoomStatus(roomID uint, status *string, currentRound, currentQuestionIndex *int) error {
	updates := map[string]interface{}{}

	if status != nil {
		room, err := s.roomRepo.GetByID(roomID)
		if err != nil {
			return err
		}
		if *status != room.Status && !room.CanTransitionTo(*status) {
			return fmt.Errorf("%w: %s → %s", apperrors.ErrConflict, room.Status, *status)
		}
		updates["status"] = *status
	}
	if currentRound != nil {
		updates["current_round"] = *currentRound
	}
	if currentQuestionIndex != nil {
		updates["current_question_index"] = *currentQuestionIndex
	}

	if len(updates) == 0 {
		return nil
	}

	return s.roomRepo.UpdateState(roomID, updates)
}

// invalidatePublicRoomsCache сбрасывает кеш списка публичных комнат
func (s *RoomService) invalidatePublicRoomsCache() {
	if err := s.cacheRepo.Delete(publicRoomsCacheKey); err != nil {
		log.Printf("[RoomService] Не удалось сбросить кеш публичных комнат: %v", err)
	}
}
