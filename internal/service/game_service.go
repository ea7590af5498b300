package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/yourusername/trivia-rooms/internal/domain/entity"
	"github.com/yourusername/trivia-rooms/internal/domain/repository"
)

// AdvanceResult - итог продвижения игры вперед
type AdvanceResult struct {
	GameFinished  bool             `json:"game_finished"`
	Round         int              `json:"round,omitempty"`
	QuestionIndex int              `json:"question_index,omitempty"`
	Question      *entity.Question `json:"question,omitempty"`
}

// PlayerResult - итог игры для одного участника
type PlayerResult struct {
	UserID            uint    `json:"user_id"`
	Username          string  `json:"username"`
	AvatarURL         string  `json:"avatar_url,omitempty"`
	Score             int     `json:"score"`
	CorrectAnswers    int     `json:"correct_answers"`
	TotalAnswers      int     `json:"total_answers"`
	Accuracy          float64 `json:"accuracy"`
	AvgResponseTimeMs int64   `json:"avg_response_time_ms"`
	IsWinner          bool    `json:"is_winner"`
}

// GameResults - агрегированные результаты завершенной игры
type GameResults struct {
	RoomID         uint           `json:"room_id"`
	Status         string         `json:"status"`
	TotalQuestions int            `json:"total_questions"`
	FinishedAt     *time.Time     `json:"finished_at,omitempty"`
	Players        []PlayerResult `json:"players"`
}

// GameService - оркестратор игры: старт, продвижение по вопросам и
// раундам, завершение с фиксацией статистики. Все переходы выполняются
// под блокировкой комнаты, итоговые решения защищены условными
// обновлениями в БД.
type GameService struct {
	roomRepo        repository.RoomRepository
	participantRepo repository.ParticipantRepository
	userRepo        repository.UserRepository
	answerRepo      repository.AnswerRepository
	roomService     *RoomService
	questionService *QuestionService
	locker          *RoomLocker
	broadcaster     EventBroadcaster
}

// NewGameService создает новый игровой оркестратор
func NewGameService(
	roomRepo repository.RoomRepository,
	participantRepo repository.ParticipantRepository,
	userRepo repository.UserRepository,
	answerRepo repository.AnswerRepository,
	roomService *RoomService,
	questionService *QuestionService,
	locker *RoomLocker,
	broadcaster EventBroadcaster,
) *GameService {
	return &GameService{
		roomRepo:        roomRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
		answerRepo:      answerRepo,
		roomService:     roomService,
		questionService: questionService,
		locker:          locker,
		broadcaster:     broadcaster,
	}
}

// SetPlayerReady переключает готовность участника; если готовность
// замкнула условие авто-старта (все активные готовы, игроков не меньше
// двух), запускает первый раунд. Единая точка входа для хендлеров:
// авто-старт никогда не остается без сгенерированных вопросов.
func (s *GameService) SetPlayerReady(ctx context.Context, roomID, userID uint, isReady bool) (bool, error) {
	started, err := s.roomService.SetPlayerReady(roomID, userID, isReady)
	if err != nil {
		return false, err
	}

	if started {
		if err := s.beginRound(ctx, roomID, 1); err != nil {
			return true, err
		}
	}

	return started, nil
}

// StartGame запускает игру вручную по команде хоста. Требования те же,
// что и у авто-старта: минимум два активных игрока, все готовы.
func (s *GameService) StartGame(ctx context.Context, roomID, userID uint) error {
	err := s.locker.WithRoomLock(roomID, func() error {
		room, err := s.roomRepo.GetByID(roomID)
		if err != nil {
			return err
		}

		if room.HostID != userID {
			return fmt.Errorf("%w: user #%d is not the host of room #%d",
				repository.ErrNotHost, userID, roomID)
		}

		participants, err := s.participantRepo.GetActiveByRoom(roomID)
		if err != nil {
			return err
		}
		if len(participants) < entity.MinPlayers {
			return fmt.Errorf("%w: room #%d has %d active players",
				repository.ErrNotEnoughPlayers, roomID, len(participants))
		}
		for _, p := range participants {
			if !p.IsReady {
				return fmt.Errorf("%w: user #%d in room #%d",
					repository.ErrPlayersNotReady, p.UserID, roomID)
			}
		}

		return s.roomRepo.AtomicStart(roomID)
	})
	if err != nil {
		return err
	}

	return s.beginRound(ctx, roomID, 1)
}

// beginRound рассылает старт раунда, генерирует его вопросы и открывает
// первый из них. Вызывается после успешного перехода комнаты в новый
// раунд, поэтому не держит блокировку: генерация ходит во внешний API
// и может занимать секунды.
func (s *GameService) beginRound(ctx context.Context, roomID uint, round int) error {
	room, err := s.roomRepo.GetByID(roomID)
	if err != nil {
		return err
	}

	if round == 1 {
		if err := s.broadcaster.BroadcastToRoom(roomID, EventGameStarted, map[string]interface{}{
			"room_id": roomID,
		}); err != nil {
			log.Printf("[GameService] Ошибка рассылки старта игры в комнате #%d: %v", roomID, err)
		}
	}
	if err := s.broadcaster.BroadcastToRoom(roomID, EventRoundStarted, map[string]interface{}{
		"room_id": roomID,
		"round":   round,
	}); err != nil {
		log.Printf("[GameService] Ошибка рассылки старта раунда %d в комнате #%d: %v", round, roomID, err)
	}

	_, err = s.questionService.GenerateQuestions(
		ctx, roomID, round,
		room.Settings.Categories, room.Settings.Difficulty, room.Settings.QuestionsPerRound,
	)
	if err != nil {
		return err
	}

	_, err = s.questionService.RevealQuestion(roomID, 0)
	return err
}

// NextQuestion продвигает игру к следующему вопросу по команде хоста.
// Последний вопрос раунда переводит игру в следующий раунд; последний
// вопрос последнего раунда завершает игру.
func (s *GameService) NextQuestion(ctx context.Context, roomID, userID uint) (*AdvanceResult, error) {
	var (
		nextRound int
		result    *AdvanceResult
	)

	err := s.locker.WithRoomLock(roomID, func() error {
		room, err := s.roomRepo.GetByID(roomID)
		if err != nil {
			return err
		}

		if room.HostID != userID {
			return fmt.Errorf("%w: user #%d is not the host of room #%d",
				repository.ErrNotHost, userID, roomID)
		}
		if !room.IsInProgress() {
			return fmt.Errorf("%w: room #%d", repository.ErrGameAlreadyStarted, roomID)
		}

		nextIndex := room.CurrentQuestionIndex + 1
		if nextIndex < room.Settings.QuestionsPerRound {
			question, err := s.questionService.RevealQuestion(roomID, nextIndex)
			if err != nil {
				return err
			}
			result = &AdvanceResult{
				Round:         room.CurrentRound,
				QuestionIndex: nextIndex,
				Question:      question,
			}
			return nil
		}

		// Раунд исчерпан
		if room.CurrentRound+1 > room.Settings.Rounds {
			if err := s.finishGame(room); err != nil {
				return err
			}
			result = &AdvanceResult{GameFinished: true}
			return nil
		}

		nextRound = room.CurrentRound + 1
		return s.roomRepo.UpdateProgress(roomID, nextRound, 0)
	})
	if err != nil {
		return nil, err
	}
	if result != nil {
		return result, nil
	}

	// Новый раунд: генерация и показ вне блокировки
	if err := s.beginRound(ctx, roomID, nextRound); err != nil {
		return nil, err
	}

	question, err := s.questionService.GetCurrentQuestion(roomID)
	if err != nil {
		return nil, err
	}

	return &AdvanceResult{
		Round:         nextRound,
		QuestionIndex: 0,
		Question:      question,
	}, nil
}

// finishGame завершает игру: комната переходит в finished, участники
// ранжируются по счету, статистика каждого пользователя обновляется.
// Победитель - первый элемент стабильной сортировки по убыванию счета;
// при равенстве очков побеждает вступивший в комнату раньше.
func (s *GameService) finishGame(room *entity.Room) error {
	if err := s.roomRepo.AtomicFinish(room.ID); err != nil {
		return err
	}

	participants, err := s.participantRepo.GetByRoom(room.ID)
	if err != nil {
		return err
	}

	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].Score > participants[j].Score
	})

	standings := make([]map[string]interface{}, 0, len(participants))
	for i, p := range participants {
		won := i == 0
		if err := s.userRepo.ApplyGameResult(p.UserID, won, p.Score, room.Settings.Categories); err != nil {
			// Статистика вторична по отношению к завершению игры
			log.Printf("[GameService] Ошибка обновления статистики пользователя #%d: %v", p.UserID, err)
		}
		standings = append(standings, map[string]interface{}{
			"user_id":   p.UserID,
			"score":     p.Score,
			"is_winner": won,
		})
	}

	if err := s.broadcaster.BroadcastToRoom(room.ID, EventGameFinished, map[string]interface{}{
		"room_id":   room.ID,
		"standings": standings,
	}); err != nil {
		log.Printf("[GameService] Ошибка рассылки завершения игры в комнате #%d: %v", room.ID, err)
	}

	return nil
}

// FinishGame принудительно завершает игру по команде хоста
func (s *GameService) FinishGame(roomID, userID uint) error {
	return s.locker.WithRoomLock(roomID, func() error {
		room, err := s.roomRepo.GetByID(roomID)
		if err != nil {
			return err
		}
		if room.HostID != userID {
			return fmt.Errorf("%w: user #%d is not the host of room #%d",
				repository.ErrNotHost, userID, roomID)
		}
		return s.finishGame(room)
	})
}

// GetGameResults собирает итоги игры: место, точность и среднее время
// ответа каждого участника. Доступно и для идущей игры (промежуточный
// счет), и для завершенной.
func (s *GameService) GetGameResults(roomID uint) (*GameResults, error) {
	room, err := s.roomRepo.GetWithParticipants(roomID)
	if err != nil {
		return nil, err
	}

	answers, err := s.answerRepo.GetByRoom(roomID)
	if err != nil {
		return nil, err
	}

	type answerStats struct {
		total       int
		correct     int
		totalTimeMs int64
	}
	statsByUser := make(map[uint]*answerStats, len(room.Participants))
	for _, a := range answers {
		st, ok := statsByUser[a.UserID]
		if !ok {
			st = &answerStats{}
			statsByUser[a.UserID] = st
		}
		st.total++
		if a.IsCorrect {
			st.correct++
		}
		st.totalTimeMs += a.ResponseTimeMs
	}

	players := make([]PlayerResult, 0, len(room.Participants))
	for _, p := range room.Participants {
		result := PlayerResult{
			UserID: p.UserID,
			Score:  p.Score,
		}
		if p.User != nil {
			result.Username = p.User.Username
			result.AvatarURL = p.User.AvatarURL
		}
		if st := statsByUser[p.UserID]; st != nil && st.total > 0 {
			result.TotalAnswers = st.total
			result.CorrectAnswers = st.correct
			result.Accuracy = float64(st.correct) / float64(st.total) * 100
			result.AvgResponseTimeMs = st.totalTimeMs / int64(st.total)
		}
		players = append(players, result)
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Score > players[j].Score
	})
	if room.IsFinished() && len(players) > 0 {
		players[0].IsWinner = true
	}

	return &GameResults{
		RoomID:         room.ID,
		Status:         room.Status,
		TotalQuestions: room.TotalQuestions(),
		FinishedAt:     room.FinishedAt,
		Players:        players,
	}, nil
}
