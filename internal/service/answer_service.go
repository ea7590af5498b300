package service

import (
	"fmt"
	"time"

	"github.com/yourusername/trivia-rooms/internal/domain/entity"
	"github.com/yourusername/trivia-rooms/internal/domain/repository"
)

// SubmitResult - итог приема ответа, возвращается отправителю
type SubmitResult struct {
	IsCorrect      bool  `json:"is_correct"`
	PointsEarned   int   `json:"points_earned"`
	ResponseTimeMs int64 `json:"response_time_ms"`
}

// QuestionResults - агрегат для экрана результатов вопроса
type QuestionResults struct {
	Question *entity.Question `json:"question"`
	Answers  []entity.Answer  `json:"answers"`
}

// AnswerService реализует журнал ответов: прием с защитой от дублей,
// подсчет очков по времени ответа, начисление счета участнику.
type AnswerService struct {
	answerRepo   repository.AnswerRepository
	questionRepo repository.QuestionRepository
	roomRepo     repository.RoomRepository
}

// NewAnswerService создает новый сервис ответов
func NewAnswerService(
	answerRepo repository.AnswerRepository,
	questionRepo repository.QuestionRepository,
	roomRepo repository.RoomRepository,
) *AnswerService {
	return &AnswerService{
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		roomRepo:     roomRepo,
	}
}

// SubmitAnswer принимает ответ пользователя на вопрос.
//
// Единственный путь, изменяющий счет участника во время игры. Вставка
// ответа и начисление очков выполняются одной транзакцией; уникальный
// индекс (user_id, question_id) превращает конкурентную повторную
// отправку в ErrDuplicateAnswer без частичных эффектов.
//
// Срок действия вопроса (expires_at) для клиентов является подсказкой:
// сервер сам отклоняет ответы на вопрос, который больше не текущий,
// независимо от клиентского таймера.
func (s *AnswerService) SubmitAnswer(roomID, userID, questionID uint, answer string) (*SubmitResult, error) {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}

	room, err := s.roomRepo.GetByID(roomID)
	if err != nil {
		return nil, err
	}

	if question.RoomID != roomID {
		return nil, fmt.Errorf("%w: question #%d does not belong to room #%d",
			repository.ErrQuestionNotFound, questionID, roomID)
	}

	if !room.IsInProgress() ||
		question.RoundNumber != room.CurrentRound ||
		question.OrderInRound != room.CurrentQuestionIndex {
		return nil, fmt.Errorf("%w: question #%d", repository.ErrStaleQuestion, questionID)
	}

	now := time.Now()
	responseTimeMs := question.ResponseTimeMs(now)
	isCorrect := question.IsCorrect(answer)
	points := question.CalculatePoints(isCorrect, responseTimeMs, room.Settings.TimeLimitSec)

	record := &entity.Answer{
		UserID:         userID,
		QuestionID:     questionID,
		RoomID:         roomID,
		Answer:         answer,
		IsCorrect:      isCorrect,
		ResponseTimeMs: responseTimeMs,
		PointsEarned:   points,
	}

	if err := s.answerRepo.CreateWithScoreIncrement(record); err != nil {
		return nil, err
	}

	return &SubmitResult{
		IsCorrect:      isCorrect,
		PointsEarned:   points,
		ResponseTimeMs: responseTimeMs,
	}, nil
}

// GetQuestionResults возвращает вопрос вместе со всеми ответами на него.
// Используется после резолюции, поэтому правильный ответ не маскируется.
func (s *AnswerService) GetQuestionResults(questionID uint) (*QuestionResults, error) {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}

	answers, err := s.answerRepo.GetByQuestion(questionID)
	if err != nil {
		return nil, err
	}

	return &QuestionResults{
		Question: question,
		Answers:  answers,
	}, nil
}
