package dto

import (
	"time"

	"github.com/yourusername/trivia-rooms/internal/domain/entity"
	"github.com/yourusername/trivia-rooms/internal/service"
)

// ParticipantResponse представляет участника комнаты в формате для ответа клиенту
type ParticipantResponse struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Score     int       `json:"score"`
	IsReady   bool      `json:"is_ready"`
	IsActive  bool      `json:"is_active"`
	JoinedAt  time.Time `json:"joined_at"`
}

// RoomResponse представляет комнату в формате для ответа клиенту
type RoomResponse struct {
	ID                   uint                  `json:"id"`
	Code                 string                `json:"code"`
	HostID               uint                  `json:"host_id"`
	Status               string                `json:"status"`
	IsPublic             bool                  `json:"is_public"`
	Settings             entity.RoomSettings   `json:"settings"`
	CurrentRound         int                   `json:"current_round"`
	CurrentQuestionIndex int                   `json:"current_question_index"`
	Participants         []ParticipantResponse `json:"participants,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
	StartedAt            *time.Time            `json:"started_at,omitempty"`
	FinishedAt           *time.Time            `json:"finished_at,omitempty"`
}

// PublicRoomResponse представляет комнату в списке лобби
type PublicRoomResponse struct {
	ID               uint                `json:"id"`
	Code             string              `json:"code"`
	Settings         entity.RoomSettings `json:"settings"`
	ParticipantCount int                 `json:"participant_count"`
	CreatedAt        time.Time           `json:"created_at"`
}

// NewParticipantResponse создает DTO для участника
func NewParticipantResponse(p *entity.Participant) ParticipantResponse {
	resp := ParticipantResponse{
		UserID:   p.UserID,
		Score:    p.Score,
		IsReady:  p.IsReady,
		IsActive: p.IsActive,
		JoinedAt: p.JoinedAt,
	}
	if p.User != nil {
		resp.Username = p.User.Username
		resp.AvatarURL = p.User.AvatarURL
	}
	return resp
}

// NewRoomResponse создает DTO для комнаты
func NewRoomResponse(room *entity.Room) *RoomResponse {
	resp := &RoomResponse{
		ID:                   room.ID,
		Code:                 room.Code,
		HostID:               room.HostID,
		Status:               room.Status,
		IsPublic:             room.IsPublic,
		Settings:             room.Settings,
		CurrentRound:         room.CurrentRound,
		CurrentQuestionIndex: room.CurrentQuestionIndex,
		CreatedAt:            room.CreatedAt,
		StartedAt:            room.StartedAt,
		FinishedAt:           room.FinishedAt,
	}
	for i := range room.Participants {
		resp.Participants = append(resp.Participants, NewParticipantResponse(&room.Participants[i]))
	}
	return resp
}

// NewPublicRoomListResponse создает DTO для списка лобби
func NewPublicRoomListResponse(rooms []service.PublicRoom) []PublicRoomResponse {
	result := make([]PublicRoomResponse, 0, len(rooms))
	for _, r := range rooms {
		result = append(result, PublicRoomResponse{
			ID:               r.ID,
			Code:             r.Code,
			Settings:         r.Settings,
			ParticipantCount: r.ParticipantCount,
			CreatedAt:        r.CreatedAt,
		})
	}
	return result
}
