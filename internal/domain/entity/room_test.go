package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Переходы статуса комнаты: строго waiting → in_progress → finished
// ============================================================================

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{RoomStatusWaiting, RoomStatusInProgress, true},
		{RoomStatusWaiting, RoomStatusFinished, true}, // Принудительное закрытие пустой комнаты
		{RoomStatusWaiting, RoomStatusWaiting, false},
		{RoomStatusInProgress, RoomStatusFinished, true},
		{RoomStatusInProgress, RoomStatusWaiting, false},
		{RoomStatusInProgress, RoomStatusInProgress, false},
		{RoomStatusFinished, RoomStatusWaiting, false},
		{RoomStatusFinished, RoomStatusInProgress, false},
		{RoomStatusFinished, RoomStatusFinished, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			room := &Room{Status: tt.from}
			assert.Equal(t, tt.want, room.CanTransitionTo(tt.to))
		})
	}
}

func TestRoomStatusPredicates(t *testing.T) {
	assert.True(t, (&Room{Status: RoomStatusWaiting}).IsWaiting())
	assert.True(t, (&Room{Status: RoomStatusInProgress}).IsInProgress())
	assert.True(t, (&Room{Status: RoomStatusFinished}).IsFinished())
	assert.False(t, (&Room{Status: RoomStatusWaiting}).IsInProgress())
}

func TestRoomSettingsValidate(t *testing.T) {
	valid := RoomSettings{
		MaxPlayers:        4,
		Rounds:            3,
		QuestionsPerRound: 5,
		TimeLimitSec:      30,
		Categories:        []string{"science", "history"},
		Difficulty:        "medium",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*RoomSettings)
	}{
		{"too few players", func(s *RoomSettings) { s.MaxPlayers = 1 }},
		{"too many players", func(s *RoomSettings) { s.MaxPlayers = 5 }},
		{"zero rounds", func(s *RoomSettings) { s.Rounds = 0 }},
		{"zero questions per round", func(s *RoomSettings) { s.QuestionsPerRound = 0 }},
		{"zero time limit", func(s *RoomSettings) { s.TimeLimitSec = 0 }},
		{"no categories", func(s *RoomSettings) { s.Categories = nil }},
		{"unknown difficulty", func(s *RoomSettings) { s.Difficulty = "impossible" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			s.Categories = append([]string(nil), valid.Categories...)
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestTotalQuestions(t *testing.T) {
	room := &Room{Settings: RoomSettings{Rounds: 3, QuestionsPerRound: 5}}
	assert.Equal(t, 15, room.TotalQuestions())
}
