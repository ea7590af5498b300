package service

import (
	"context"

	"github.com/yourusername/trivia-rooms/internal/domain/entity"
)

// GeneratedQuestion - кандидат вопроса от внешнего генератора
type GeneratedQuestion struct {
	Content       string                  `json:"content"`
	Options       []entity.QuestionOption `json:"options"`
	CorrectAnswer string                  `json:"correctAnswer"`
	Category      string                  `json:"category"`
	Explanation   string                  `json:"explanation,omitempty"`
}

// FactCheckVerdict - вердикт проверки фактической точности вопроса
type FactCheckVerdict struct {
	IsAccurate  bool    `json:"isAccurate"`
	Confidence  float64 `json:"confidence"`
	Details     string  `json:"details"`
	Suggestions string  `json:"suggestions,omitempty"`
}

// QuestionGenerator определяет внешний сервис генерации вопросов.
// Полная недоступность сервиса допустима: банк вопросов обязан
// компенсировать ее резервным пулом.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, categories []string, difficulty string, count int) ([]GeneratedQuestion, error)
}

// FactChecker определяет внешний сервис проверки фактов
type FactChecker interface {
	FactCheck(ctx context.Context, question, answer, explanation string) (*FactCheckVerdict, error)
}
