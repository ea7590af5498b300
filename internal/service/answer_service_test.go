package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trivia-rooms/internal/domain/entity"
	"github.com/yourusername/trivia-rooms/internal/domain/repository"
)

func currentQuestion(revealedAgo time.Duration) *entity.Question {
	revealedAt := time.Now().Add(-revealedAgo)
	expiresAt := revealedAt.Add(30 * time.Second)
	return &entity.Question{
		ID:            10,
		RoomID:        1,
		RoundNumber:   1,
		OrderInRound:  0,
		CorrectAnswer: "b",
		RevealedAt:    &revealedAt,
		ExpiresAt:     &expiresAt,
	}
}

func inProgressRoom() *entity.Room {
	return &entity.Room{
		ID:                   1,
		Status:               entity.RoomStatusInProgress,
		CurrentRound:         1,
		CurrentQuestionIndex: 0,
		Settings:             validSettings(), // time_limit_sec: 30
	}
}

func newTestAnswerService(question *entity.Question, room *entity.Room, createFn func(*entity.Answer) error) *AnswerService {
	questionRepo := &mockQuestionRepo{
		GetByIDFn: func(id uint) (*entity.Question, error) { return question, nil },
	}
	roomRepo := &mockRoomRepo{
		GetByIDFn: func(id uint) (*entity.Room, error) { return room, nil },
	}
	answerRepo := &mockAnswerRepo{CreateWithScoreIncrementFn: createFn}
	return NewAnswerService(answerRepo, questionRepo, roomRepo)
}

// ============================================================================
// Прием ответа и подсчет очков
// ============================================================================

func TestSubmitAnswer_CorrectWithSpeedBonus(t *testing.T) {
	var recorded *entity.Answer
	svc := newTestAnswerService(currentQuestion(5400*time.Millisecond), inProgressRoom(), func(a *entity.Answer) error {
		recorded = a
		return nil
	})

	result, err := svc.SubmitAnswer(1, 7, 10, "b")
	require.NoError(t, err)

	assert.True(t, result.IsCorrect)
	// 100 базовых + floor(50 * (1 - 5.4/30)) = 141
	assert.Equal(t, 141, result.PointsEarned)
	assert.InDelta(t, 5400, result.ResponseTimeMs, 200, "время считается от revealed_at")

	require.NotNil(t, recorded)
	assert.Equal(t, uint(7), recorded.UserID)
	assert.Equal(t, uint(10), recorded.QuestionID)
	assert.Equal(t, result.PointsEarned, recorded.PointsEarned)
}

func TestSubmitAnswer_WrongAnswerZeroPoints(t *testing.T) {
	var recorded *entity.Answer
	svc := newTestAnswerService(currentQuestion(time.Second), inProgressRoom(), func(a *entity.Answer) error {
		recorded = a
		return nil
	})

	result, err := svc.SubmitAnswer(1, 7, 10, "a")
	require.NoError(t, err)

	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0, result.PointsEarned)
	assert.False(t, recorded.IsCorrect)
}

func TestSubmitAnswer_LateAnswerKeepsBase(t *testing.T) {
	svc := newTestAnswerService(currentQuestion(45*time.Second), inProgressRoom(), func(a *entity.Answer) error {
		return nil
	})

	result, err := svc.SubmitAnswer(1, 7, 10, "b")
	require.NoError(t, err)
	assert.Equal(t, 100, result.PointsEarned, "бонус не уходит в минус")
}

// ============================================================================
// Отклонение устаревших и чужих вопросов
// ============================================================================

func TestSubmitAnswer_StaleWhenIndexMoved(t *testing.T) {
	room := inProgressRoom()
	room.CurrentQuestionIndex = 1 // Комната уже на следующем вопросе

	svc := newTestAnswerService(currentQuestion(time.Second), room, func(a *entity.Answer) error {
		t.Fatal("устаревший ответ не должен сохраняться")
		return nil
	})

	_, err := svc.SubmitAnswer(1, 7, 10, "b")
	assert.ErrorIs(t, err, repository.ErrStaleQuestion)
}

func TestSubmitAnswer_StaleWhenGameFinished(t *testing.T) {
	room := inProgressRoom()
	room.Status = entity.RoomStatusFinished

	svc := newTestAnswerService(currentQuestion(time.Second), room, nil)

	_, err := svc.SubmitAnswer(1, 7, 10, "b")
	assert.ErrorIs(t, err, repository.ErrStaleQuestion)
}

func TestSubmitAnswer_QuestionFromAnotherRoom(t *testing.T) {
	question := currentQuestion(time.Second)
	question.RoomID = 2

	svc := newTestAnswerService(question, inProgressRoom(), nil)

	_, err := svc.SubmitAnswer(1, 7, 10, "b")
	assert.ErrorIs(t, err, repository.ErrQuestionNotFound)
}

func TestSubmitAnswer_DuplicatePropagates(t *testing.T) {
	svc := newTestAnswerService(currentQuestion(time.Second), inProgressRoom(), func(a *entity.Answer) error {
		return fmt.Errorf("%w: user #7, question #10", repository.ErrDuplicateAnswer)
	})

	_, err := svc.SubmitAnswer(1, 7, 10, "b")
	assert.ErrorIs(t, err, repository.ErrDuplicateAnswer)
}

// ============================================================================
// Результаты вопроса
// ============================================================================

func TestGetQuestionResults_UnmaskedAfterResolution(t *testing.T) {
	question := currentQuestion(time.Second)
	questionRepo := &mockQuestionRepo{
		GetByIDFn: func(id uint) (*entity.Question, error) { return question, nil },
	}
	answerRepo := &mockAnswerRepo{
		GetByQuestionFn: func(questionID uint) ([]entity.Answer, error) {
			return []entity.Answer{
				{UserID: 1, Answer: "b", IsCorrect: true, PointsEarned: 140},
				{UserID: 2, Answer: "a", IsCorrect: false, PointsEarned: 0},
			}, nil
		},
	}
	svc := NewAnswerService(answerRepo, questionRepo, &mockRoomRepo{})

	results, err := svc.GetQuestionResults(10)
	require.NoError(t, err)

	assert.Equal(t, "b", results.Question.CorrectAnswer, "после резолюции ответ открыт")
	assert.Len(t, results.Answers, 2)
}
