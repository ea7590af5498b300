package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Подсчет очков: база 100 + линейно убывающий бонус за скорость до 50
// ============================================================================

func TestCalculatePoints(t *testing.T) {
	q := &Question{CorrectAnswer: "a"}

	tests := []struct {
		name           string
		isCorrect      bool
		responseTimeMs int64
		timeLimitSec   int
		want           int
	}{
		{
			name:           "wrong answer gives zero regardless of speed",
			isCorrect:      false,
			responseTimeMs: 0,
			timeLimitSec:   30,
			want:           0,
		},
		{
			name:           "instant answer gets full bonus",
			isCorrect:      true,
			responseTimeMs: 0,
			timeLimitSec:   30,
			want:           150,
		},
		{
			name:           "answer at the limit gets base only",
			isCorrect:      true,
			responseTimeMs: 30000,
			timeLimitSec:   30,
			want:           100,
		},
		{
			name:           "answer after the limit never goes below base",
			isCorrect:      true,
			responseTimeMs: 45000,
			timeLimitSec:   30,
			want:           100,
		},
		{
			name:           "5.4s of 30s keeps 82% of the bonus, floored",
			isCorrect:      true,
			responseTimeMs: 5400,
			timeLimitSec:   30,
			want:           141, // 100 + floor(50 * 0.82)
		},
		{
			name:           "half the limit gives half the bonus",
			isCorrect:      true,
			responseTimeMs: 15000,
			timeLimitSec:   30,
			want:           125,
		},
		{
			name:           "fractional bonus is truncated, not rounded",
			isCorrect:      true,
			responseTimeMs: 10000,
			timeLimitSec:   30,
			want:           133, // 100 + floor(50 * 2/3) = 100 + floor(33.33)
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := q.CalculatePoints(tt.isCorrect, tt.responseTimeMs, tt.timeLimitSec)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResponseTimeMs(t *testing.T) {
	now := time.Now()

	t.Run("not revealed yet", func(t *testing.T) {
		q := &Question{}
		assert.Equal(t, int64(0), q.ResponseTimeMs(now))
	})

	t.Run("revealed 2.5s ago", func(t *testing.T) {
		revealedAt := now.Add(-2500 * time.Millisecond)
		q := &Question{RevealedAt: &revealedAt}
		assert.Equal(t, int64(2500), q.ResponseTimeMs(now))
	})

	t.Run("clock skew never yields negative time", func(t *testing.T) {
		revealedAt := now.Add(time.Second)
		q := &Question{RevealedAt: &revealedAt}
		assert.Equal(t, int64(0), q.ResponseTimeMs(now))
	})
}

func TestMasked(t *testing.T) {
	revealedAt := time.Now()
	q := &Question{
		ID:            7,
		Content:       "What is the capital of France?",
		Options:       QuestionOptions{{ID: "a", Text: "Paris"}, {ID: "b", Text: "Lyon"}},
		CorrectAnswer: "a",
		RevealedAt:    &revealedAt,
	}

	masked := q.Masked()

	require.NotSame(t, q, masked)
	assert.Empty(t, masked.CorrectAnswer)
	assert.Equal(t, q.ID, masked.ID)
	assert.Equal(t, q.Content, masked.Content)
	assert.Equal(t, q.Options, masked.Options)

	// Оригинал не затронут
	assert.Equal(t, "a", q.CorrectAnswer)
}

func TestIsCorrect(t *testing.T) {
	q := &Question{CorrectAnswer: "c"}

	assert.True(t, q.IsCorrect("c"))
	assert.False(t, q.IsCorrect("a"))
	assert.False(t, q.IsCorrect("C"), "метки ответов чувствительны к регистру")
	assert.False(t, q.IsCorrect(""))
}

func TestIsRevealed(t *testing.T) {
	q := &Question{}
	assert.False(t, q.IsRevealed())

	now := time.Now()
	q.RevealedAt = &now
	assert.True(t, q.IsRevealed())
}
