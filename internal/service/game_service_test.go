package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trivia-rooms/internal/domain/entity"
	"github.com/yourusername/trivia-rooms/internal/domain/repository"
)

type gameServiceFixture struct {
	roomRepo        *mockRoomRepo
	participantRepo *mockParticipantRepo
	userRepo        *mockUserRepo
	answerRepo      *mockAnswerRepo
	questionRepo    *mockQuestionRepo
	broadcaster     *recordingBroadcaster
	svc             *GameService
}

func newGameServiceFixture() *gameServiceFixture {
	f := &gameServiceFixture{
		roomRepo:        &mockRoomRepo{},
		participantRepo: &mockParticipantRepo{},
		userRepo:        &mockUserRepo{},
		answerRepo:      &mockAnswerRepo{},
		questionRepo:    &mockQuestionRepo{},
		broadcaster:     &recordingBroadcaster{},
	}
	cache := newMemoryCache()
	locker := NewRoomLocker(cache)
	generator := &mockGenerator{
		GenerateFn: func(ctx context.Context, categories []string, difficulty string, count int) ([]GeneratedQuestion, error) {
			return generatedCandidates(count), nil
		},
	}
	roomService := NewRoomService(f.roomRepo, f.participantRepo, cache, locker, f.broadcaster)
	questionService := NewQuestionService(f.questionRepo, f.roomRepo, generator, passingFactChecker(), f.broadcaster)
	f.svc = NewGameService(
		f.roomRepo, f.participantRepo, f.userRepo, f.answerRepo,
		roomService, questionService, locker, f.broadcaster,
	)
	return f
}

// ============================================================================
// Ручной старт игры
// ============================================================================

func TestStartGame_OnlyHost(t *testing.T) {
	f := newGameServiceFixture()
	f.roomRepo.GetByIDFn = func(id uint) (*entity.Room, error) {
		return &entity.Room{ID: id, HostID: 1, Status: entity.RoomStatusWaiting, Settings: validSettings()}, nil
	}

	err := f.svc.StartGame(context.Background(), 1, 2)
	assert.ErrorIs(t, err, repository.ErrNotHost)
}

func TestStartGame_NotEnoughPlayers(t *testing.T) {
	f := newGameServiceFixture()
	f.roomRepo.GetByIDFn = func(id uint) (*entity.Room, error) {
		return &entity.Room{ID: id, HostID: 1, Status: entity.RoomStatusWaiting, Settings: validSettings()}, nil
	}
	f.participantRepo.GetActiveByRoomFn = func(roomID uint) ([]entity.Participant, error) {
		return []entity.Participant{{UserID: 1, IsReady: true, IsActive: true}}, nil
	}

	err := f.svc.StartGame(context.Background(), 1, 1)
	assert.ErrorIs(t, err, repository.ErrNotEnoughPlayers)
}

func TestStartGame_PlayersNotReady(t *testing.T) {
	f := newGameServiceFixture()
	f.roomRepo.GetByIDFn = func(id uint) (*entity.Room, error) {
		return &entity.Room{ID: id, HostID: 1, Status: entity.RoomStatusWaiting, Settings: validSettings()}, nil
	}
	f.participantRepo.GetActiveByRoomFn = func(roomID uint) ([]entity.Participant, error) {
		return []entity.Participant{
			{UserID: 1, IsReady: true, IsActive: true},
			{UserID: 2, IsReady: false, IsActive: true},
		}, nil
	}

	err := f.svc.StartGame(context.Background(), 1, 1)
	assert.ErrorIs(t, err, repository.ErrPlayersNotReady)
}

func TestStartGame_GeneratesAndRevealsFirstQuestion(t *testing.T) {
	f := newGameServiceFixture()
	status := entity.RoomStatusWaiting
	f.roomRepo.GetByIDFn = func(id uint) (*entity.Room, error) {
		return &entity.Room{
			ID: id, HostID: 1, Status: status,
			CurrentRound: 1, Settings: validSettings(),
		}, nil
	}
	f.participantRepo.GetActiveByRoomFn = func(roomID uint) ([]entity.Participant, error) {
		return []entity.Participant{
			{UserID: 1, IsReady: true, IsActive: true},
			{UserID: 2, IsReady: true, IsActive: true},
		}, nil
	}
	f.roomRepo.AtomicStartFn = func(roomID uint) error {
		status = entity.RoomStatusInProgress
		return nil
	}
	f.roomRepo.UpdateProgressFn = func(roomID uint, currentRound, currentQuestionIndex int) error { return nil }

	var storedCount int
	f.questionRepo.CreateBatchFn = func(questions []entity.Question) error {
		storedCount = len(questions)
		return nil
	}
	f.questionRepo.GetByPositionFn = func(roomID uint, round, orderInRound int) (*entity.Question, error) {
		return &entity.Question{ID: 100, RoomID: roomID, RoundNumber: round, OrderInRound: orderInRound, CorrectAnswer: "a"}, nil
	}
	f.questionRepo.StampRevealFn = func(questionID uint, revealedAt, expiresAt time.Time) error { return nil }

	err := f.svc.StartGame(context.Background(), 1, 1)
	require.NoError(t, err)

	assert.Equal(t, validSettings().QuestionsPerRound, storedCount, "генерируется полный раунд")
	types := f.broadcaster.eventTypes()
	assert.Contains(t, types, EventGameStarted)
	assert.Contains(t, types, EventRoundStarted)
	assert.Contains(t, types, EventQuestionRevealed)
}

// ============================================================================
// Продвижение по вопросам и раундам
// ============================================================================

func TestNextQuestion_RevealsNextInRound(t *testing.T) {
	f := newGameServiceFixture()
	f.roomRepo.GetByIDFn = func(id uint) (*entity.Room, error) {
		return &entity.Room{
			ID: id, HostID: 1, Status: entity.RoomStatusInProgress,
			CurrentRound: 1, CurrentQuestionIndex: 0, Settings: validSettings(),
		}, nil
	}
	f.roomRepo.UpdateProgressFn = func(roomID uint, currentRound, currentQuestionIndex int) error { return nil }
	f.questionRepo.GetByPositionFn = func(roomID uint, round, orderInRound int) (*entity.Question, error) {
		return &entity.Question{ID: 101, RoundNumber: round, OrderInRound: orderInRound, CorrectAnswer: "a"}, nil
	}
	f.questionRepo.StampRevealFn = func(questionID uint, revealedAt, expiresAt time.Time) error { return nil }

	result, err := f.svc.NextQuestion(context.Background(), 1, 1)
	require.NoError(t, err)

	assert.False(t, result.GameFinished)
	assert.Equal(t, 1, result.Round)
	assert.Equal(t, 1, result.QuestionIndex)
	require.NotNil(t, result.Question)
	assert.Empty(t, result.Question.CorrectAnswer)
}

func TestNextQuestion_OnlyHost(t *testing.T) {
	f := newGameServiceFixture()
	f.roomRepo.GetByIDFn = func(id uint) (*entity.Room, error) {
		return &entity.Room{ID: id, HostID: 1, Status: entity.RoomStatusInProgress, Settings: validSettings()}, nil
	}

	_, err := f.svc.NextQuestion(context.Background(), 1, 2)
	assert.ErrorIs(t, err, repository.ErrNotHost)
}

func TestNextQuestion_LastQuestionOfLastRoundFinishes(t *testing.T) {
	f := newGameServiceFixture()
	settings := validSettings() // 2 раунда по 3 вопроса
	f.roomRepo.GetByIDFn = func(id uint) (*entity.Room, error) {
		return &entity.Room{
			ID: id, HostID: 1, Status: entity.RoomStatusInProgress,
			CurrentRound: 2, CurrentQuestionIndex: 2, Settings: settings,
		}, nil
	}
	finished := false
	f.roomRepo.AtomicFinishFn = func(roomID uint) error {
		finished = true
		return nil
	}
	f.participantRepo.GetByRoomFn = func(roomID uint) ([]entity.Participant, error) {
		return []entity.Participant{{UserID: 1, Score: 100}, {UserID: 2, Score: 50}}, nil
	}
	f.userRepo.ApplyGameResultFn = func(userID uint, won bool, score int, categories []string) error { return nil }

	result, err := f.svc.NextQuestion(context.Background(), 1, 1)
	require.NoError(t, err)

	assert.True(t, result.GameFinished)
	assert.True(t, finished)
	assert.Contains(t, f.broadcaster.eventTypes(), EventGameFinished)
}

// ============================================================================
// Завершение игры и статистика
// ============================================================================

func TestFinishGame_WinnerByStableSort(t *testing.T) {
	f := newGameServiceFixture()
	settings := validSettings()
	f.roomRepo.GetByIDFn = func(id uint) (*entity.Room, error) {
		return &entity.Room{ID: id, HostID: 1, Status: entity.RoomStatusInProgress, Settings: settings}, nil
	}
	f.roomRepo.AtomicFinishFn = func(roomID uint) error { return nil }

	// Участники в порядке вступления: у двоих одинаковый максимум
	f.participantRepo.GetByRoomFn = func(roomID uint) ([]entity.Participant, error) {
		return []entity.Participant{
			{UserID: 1, Score: 150},
			{UserID: 2, Score: 300},
			{UserID: 3, Score: 300},
		}, nil
	}

	type resultCall struct {
		won   bool
		score int
	}
	calls := map[uint]resultCall{}
	f.userRepo.ApplyGameResultFn = func(userID uint, won bool, score int, categories []string) error {
		calls[userID] = resultCall{won: won, score: score}
		assert.Equal(t, settings.Categories, categories)
		return nil
	}

	require.NoError(t, f.svc.FinishGame(1, 1))

	require.Len(t, calls, 3, "статистика обновляется каждому участнику")
	assert.True(t, calls[2].won, "при равенстве очков побеждает вступивший раньше")
	assert.False(t, calls[3].won)
	assert.False(t, calls[1].won)
	assert.Equal(t, 300, calls[2].score)
	assert.Equal(t, 150, calls[1].score)
}

func TestFinishGame_OnlyHost(t *testing.T) {
	f := newGameServiceFixture()
	f.roomRepo.GetByIDFn = func(id uint) (*entity.Room, error) {
		return &entity.Room{ID: id, HostID: 1, Status: entity.RoomStatusInProgress, Settings: validSettings()}, nil
	}

	err := f.svc.FinishGame(1, 3)
	assert.ErrorIs(t, err, repository.ErrNotHost)
}

// ============================================================================
// Итоги игры
// ============================================================================

func TestGetGameResults_AggregatesAnswers(t *testing.T) {
	f := newGameServiceFixture()
	finishedAt := time.Now()
	alice := &entity.User{ID: 1, Username: "alice"}
	bob := &entity.User{ID: 2, Username: "bob"}

	f.roomRepo.GetWithParticipantsFn = func(id uint) (*entity.Room, error) {
		return &entity.Room{
			ID: id, Status: entity.RoomStatusFinished, FinishedAt: &finishedAt,
			Settings: validSettings(),
			Participants: []entity.Participant{
				{UserID: 1, Score: 141, User: alice},
				{UserID: 2, Score: 280, User: bob},
			},
		}, nil
	}
	f.answerRepo.GetByRoomFn = func(roomID uint) ([]entity.Answer, error) {
		return []entity.Answer{
			{UserID: 1, IsCorrect: true, ResponseTimeMs: 5400, PointsEarned: 141},
			{UserID: 1, IsCorrect: false, ResponseTimeMs: 2600, PointsEarned: 0},
			{UserID: 2, IsCorrect: true, ResponseTimeMs: 1000, PointsEarned: 148},
			{UserID: 2, IsCorrect: true, ResponseTimeMs: 3000, PointsEarned: 132},
		}, nil
	}

	results, err := f.svc.GetGameResults(1)
	require.NoError(t, err)

	assert.Equal(t, 6, results.TotalQuestions)
	require.Len(t, results.Players, 2)

	// Сортировка по убыванию счета: bob первый и победитель
	assert.Equal(t, "bob", results.Players[0].Username)
	assert.True(t, results.Players[0].IsWinner)
	assert.Equal(t, 100.0, results.Players[0].Accuracy)
	assert.Equal(t, int64(2000), results.Players[0].AvgResponseTimeMs)

	assert.Equal(t, "alice", results.Players[1].Username)
	assert.False(t, results.Players[1].IsWinner)
	assert.Equal(t, 50.0, results.Players[1].Accuracy)
	assert.Equal(t, int64(4000), results.Players[1].AvgResponseTimeMs)
}
