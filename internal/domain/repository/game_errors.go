package repository

import "errors"

// Доменные ошибки игрового цикла. Все они возвращаются вызывающему
// синхронно и не оставляют частичных изменений состояния.
var (
	// ErrRoomNotFound означает, что комната с указанным кодом или ID не существует.
	ErrRoomNotFound = errors.New("room not found")

	// ErrGameAlreadyStarted означает, что комната вышла из статуса waiting
	// и вход в нее больше невозможен.
	ErrGameAlreadyStarted = errors.New("game already started")

	// ErrRoomFull означает, что число участников достигло max_players.
	ErrRoomFull = errors.New("room is full")

	// ErrParticipantNotFound означает, что у пользователя нет записи участника в комнате.
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrDuplicateAnswer означает, что пользователь уже отвечал на этот вопрос
	// (определяется по unique constraint на (user_id, question_id)).
	ErrDuplicateAnswer = errors.New("answer already submitted")

	// ErrQuestionNotFound означает, что вопрос с указанным ID или позицией не существует.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrStaleQuestion означает, что вопрос больше не является текущим:
	// сервер отклоняет такие ответы независимо от клиентского таймера.
	ErrStaleQuestion = errors.New("question is no longer current")

	// ErrNotEnoughPlayers означает, что для старта игры недостаточно участников.
	ErrNotEnoughPlayers = errors.New("not enough players to start")

	// ErrPlayersNotReady означает, что не все участники отметились готовыми.
	ErrPlayersNotReady = errors.New("not all players are ready")

	// ErrNotHost означает, что действие доступно только хосту комнаты.
	ErrNotHost = errors.New("only the host can perform this action")
)
