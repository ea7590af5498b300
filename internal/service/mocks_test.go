package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/trivia-rooms/internal/domain/entity"
	"github.com/yourusername/trivia-rooms/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-rooms/internal/pkg/errors"
)

// ============================================================================
// Ручные моки репозиториев. Поля-функции позволяют каждому тесту
// подменять только нужные методы.
// ============================================================================

type mockRoomRepo struct {
	CreateWithHostFn      func(room *entity.Room, host *entity.Participant) error
	GetByIDFn             func(id uint) (*entity.Room, error)
	GetByCodeFn           func(code string) (*entity.Room, error)
	GetWithParticipantsFn func(id uint) (*entity.Room, error)
	GetPublicWaitingFn    func() ([]entity.Room, error)
	CodeExistsFn          func(code string) (bool, error)
	AtomicStartFn         func(roomID uint) error
	AtomicFinishFn        func(roomID uint) error
	UpdateHostFn          func(roomID, hostID uint) error
	UpdateProgressFn      func(roomID uint, currentRound, currentQuestionIndex int) error
	UpdateStateFn         func(roomID uint, updates map[string]interface{}) error
}

func (m *mockRoomRepo) CreateWithHost(room *entity.Room, host *entity.Participant) error {
	return m.CreateWithHostFn(room, host)
}
func (m *mockRoomRepo) GetByID(id uint) (*entity.Room, error)   { return m.GetByIDFn(id) }
func (m *mockRoomRepo) GetByCode(code string) (*entity.Room, error) {
	return m.GetByCodeFn(code)
}
func (m *mockRoomRepo) GetWithParticipants(id uint) (*entity.Room, error) {
	return m.GetWithParticipantsFn(id)
}
func (m *mockRoomRepo) GetPublicWaiting() ([]entity.Room, error) { return m.GetPublicWaitingFn() }
func (m *mockRoomRepo) CodeExists(code string) (bool, error)     { return m.CodeExistsFn(code) }
func (m *mockRoomRepo) AtomicStart(roomID uint) error            { return m.AtomicStartFn(roomID) }
func (m *mockRoomRepo) AtomicFinish(roomID uint) error           { return m.AtomicFinishFn(roomID) }
func (m *mockRoomRepo) UpdateHost(roomID, hostID uint) error     { return m.UpdateHostFn(roomID, hostID) }
func (m *mockRoomRepo) UpdateProgress(roomID uint, currentRound, currentQuestionIndex int) error {
	return m.UpdateProgressFn(roomID, currentRound, currentQuestionIndex)
}
func (m *mockRoomRepo) UpdateState(roomID uint, updates map[string]interface{}) error {
	return m.UpdateStateFn(roomID, updates)
}

type mockParticipantRepo struct {
	CreateFn           func(participant *entity.Participant) error
	GetByRoomAndUserFn func(roomID, userID uint) (*entity.Participant, error)
	GetByRoomFn        func(roomID uint) ([]entity.Participant, error)
	GetActiveByRoomFn  func(roomID uint) ([]entity.Participant, error)
	CountByRoomFn      func(roomID uint) (int64, error)
	SetReadyFn         func(roomID, userID uint, isReady bool) error
	SetInactiveFn      func(roomID, userID uint) error
	IncrementScoreFn   func(roomID, userID uint, delta int) error
}

func (m *mockParticipantRepo) Create(p *entity.Participant) error { return m.CreateFn(p) }
func (m *mockParticipantRepo) GetByRoomAndUser(roomID, userID uint) (*entity.Participant, error) {
	return m.GetByRoomAndUserFn(roomID, userID)
}
func (m *mockParticipantRepo) GetByRoom(roomID uint) ([]entity.Participant, error) {
	return m.GetByRoomFn(roomID)
}
func (m *mockParticipantRepo) GetActiveByRoom(roomID uint) ([]entity.Participant, error) {
	return m.GetActiveByRoomFn(roomID)
}
func (m *mockParticipantRepo) CountByRoom(roomID uint) (int64, error) { return m.CountByRoomFn(roomID) }
func (m *mockParticipantRepo) SetReady(roomID, userID uint, isReady bool) error {
	return m.SetReadyFn(roomID, userID, isReady)
}
func (m *mockParticipantRepo) SetInactive(roomID, userID uint) error {
	return m.SetInactiveFn(roomID, userID)
}
func (m *mockParticipantRepo) IncrementScore(roomID, userID uint, delta int) error {
	return m.IncrementScoreFn(roomID, userID, delta)
}

type mockQuestionRepo struct {
	CreateBatchFn       func(questions []entity.Question) error
	GetByIDFn           func(id uint) (*entity.Question, error)
	GetByRoomAndRoundFn func(roomID uint, round int) ([]entity.Question, error)
	GetByPositionFn     func(roomID uint, round, orderInRound int) (*entity.Question, error)
	StampRevealFn       func(questionID uint, revealedAt, expiresAt time.Time) error
}

func (m *mockQuestionRepo) CreateBatch(questions []entity.Question) error {
	return m.CreateBatchFn(questions)
}
func (m *mockQuestionRepo) GetByID(id uint) (*entity.Question, error) { return m.GetByIDFn(id) }
func (m *mockQuestionRepo) GetByRoomAndRound(roomID uint, round int) ([]entity.Question, error) {
	return m.GetByRoomAndRoundFn(roomID, round)
}
func (m *mockQuestionRepo) GetByPosition(roomID uint, round, orderInRound int) (*entity.Question, error) {
	return m.GetByPositionFn(roomID, round, orderInRound)
}
func (m *mockQuestionRepo) StampReveal(questionID uint, revealedAt, expiresAt time.Time) error {
	return m.StampRevealFn(questionID, revealedAt, expiresAt)
}

type mockAnswerRepo struct {
	CreateWithScoreIncrementFn func(answer *entity.Answer) error
	GetByQuestionFn            func(questionID uint) ([]entity.Answer, error)
	GetByRoomFn                func(roomID uint) ([]entity.Answer, error)
}

func (m *mockAnswerRepo) CreateWithScoreIncrement(answer *entity.Answer) error {
	return m.CreateWithScoreIncrementFn(answer)
}
func (m *mockAnswerRepo) GetByQuestion(questionID uint) ([]entity.Answer, error) {
	return m.GetByQuestionFn(questionID)
}
func (m *mockAnswerRepo) GetByRoom(roomID uint) ([]entity.Answer, error) {
	return m.GetByRoomFn(roomID)
}

type mockUserRepo struct {
	CreateFn          func(user *entity.User) error
	GetByIDFn         func(id uint) (*entity.User, error)
	GetByExternalIDFn func(externalID string) (*entity.User, error)
	UpdateFn          func(user *entity.User) error
	ApplyGameResultFn func(userID uint, won bool, score int, categories []string) error
	GetLeaderboardFn  func(limit, offset int) ([]entity.User, int64, error)
}

func (m *mockUserRepo) Create(user *entity.User) error        { return m.CreateFn(user) }
func (m *mockUserRepo) GetByID(id uint) (*entity.User, error) { return m.GetByIDFn(id) }
func (m *mockUserRepo) GetByExternalID(externalID string) (*entity.User, error) {
	return m.GetByExternalIDFn(externalID)
}
func (m *mockUserRepo) Update(user *entity.User) error { return m.UpdateFn(user) }
func (m *mockUserRepo) ApplyGameResult(userID uint, won bool, score int, categories []string) error {
	return m.ApplyGameResultFn(userID, won, score, categories)
}
func (m *mockUserRepo) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	return m.GetLeaderboardFn(limit, offset)
}

// ============================================================================
// Кеш в памяти: честный SetNX, чтобы RoomLocker работал в тестах
// ============================================================================

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (c *memoryCache) Set(key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = fmt.Sprint(value)
	return nil
}

func (c *memoryCache) Get(key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.data[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return val, nil
}

func (c *memoryCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) SetNX(key string, value interface{}, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = fmt.Sprint(value)
	return true, nil
}

func (c *memoryCache) SetJSON(key string, value interface{}, _ time.Duration) error {
	// Для тестов сериализация не нужна
	return nil
}

func (c *memoryCache) GetJSON(key string, dest interface{}) error {
	return apperrors.ErrNotFound
}

// ============================================================================
// Моки генератора и fact-checker
// ============================================================================

type mockGenerator struct {
	GenerateFn func(ctx context.Context, categories []string, difficulty string, count int) ([]GeneratedQuestion, error)
}

func (m *mockGenerator) GenerateQuestions(ctx context.Context, categories []string, difficulty string, count int) ([]GeneratedQuestion, error) {
	return m.GenerateFn(ctx, categories, difficulty, count)
}

type mockFactChecker struct {
	FactCheckFn func(ctx context.Context, question, answer, explanation string) (*FactCheckVerdict, error)
}

func (m *mockFactChecker) FactCheck(ctx context.Context, question, answer, explanation string) (*FactCheckVerdict, error) {
	return m.FactCheckFn(ctx, question, answer, explanation)
}

// recordingBroadcaster накапливает разосланные события для проверок
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

type broadcastEvent struct {
	RoomID    uint
	EventType string
	Data      interface{}
}

func (b *recordingBroadcaster) BroadcastToRoom(roomID uint, eventType string, data interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{RoomID: roomID, EventType: eventType, Data: data})
	return nil
}

func (b *recordingBroadcaster) eventTypes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	types := make([]string, 0, len(b.events))
	for _, e := range b.events {
		types = append(types, e.EventType)
	}
	return types
}

// Проверка соответствия интерфейсам на этапе компиляции
var (
	_ repository.RoomRepository        = (*mockRoomRepo)(nil)
	_ repository.ParticipantRepository = (*mockParticipantRepo)(nil)
	_ repository.QuestionRepository    = (*mockQuestionRepo)(nil)
	_ repository.AnswerRepository      = (*mockAnswerRepo)(nil)
	_ repository.UserRepository        = (*mockUserRepo)(nil)
	_ repository.CacheRepository       = (*memoryCache)(nil)
	_ QuestionGenerator                = (*mockGenerator)(nil)
	_ FactChecker                      = (*mockFactChecker)(nil)
	_ EventBroadcaster                 = (*recordingBroadcaster)(nil)
)
