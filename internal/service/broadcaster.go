package service

// Типы событий, рассылаемых клиентам комнаты
const (
	EventPlayerJoined     = "room:player_joined"
	EventPlayerReady      = "room:player_ready"
	EventPlayerLeft       = "room:player_left"
	EventGameStarted      = "game:started"
	EventRoundStarted     = "game:round_started"
	EventQuestionRevealed = "question:revealed"
	EventGameFinished     = "game:finished"
)

// EventBroadcaster определяет интерфейс для push-уведомлений клиентам комнаты.
// Реализуется websocket-хабом; сервисы не зависят от транспорта.
type EventBroadcaster interface {
	BroadcastToRoom(roomID uint, eventType string, data interface{}) error
}

// NoOpBroadcaster - заглушка для тестов и запуска без websocket-подсистемы
type NoOpBroadcaster struct{}

// BroadcastToRoom ничего не делает
func (NoOpBroadcaster) BroadcastToRoom(roomID uint, eventType string, data interface{}) error {
	return nil
}
