package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/trivia-rooms/internal/service"
)

// GameHandler обрабатывает запросы игрового цикла: старт, вопросы,
// ответы, результаты
type GameHandler struct {
	gameService     *service.GameService
	questionService *service.QuestionService
	answerService   *service.AnswerService
}

// NewGameHandler создает новый игровой обработчик
func NewGameHandler(
	gameService *service.GameService,
	questionService *service.QuestionService,
	answerService *service.AnswerService,
) *GameHandler {
	return &GameHandler{
		gameService:     gameService,
		questionService: questionService,
		answerService:   answerService,
	}
}

// StartGame запускает игру вручную по команде хоста
func (h *GameHandler) StartGame(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)
	userID := c.MustGet("user_id").(uint)

	if err := h.gameService.StartGame(c.Request.Context(), roomID, userID); err != nil {
		handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game started"})
}

// NextQuestion продвигает игру к следующему вопросу (только хост)
func (h *GameHandler) NextQuestion(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)
	userID := c.MustGet("user_id").(uint)

	result, err := h.gameService.NextQuestion(c.Request.Context(), roomID, userID)
	if err != nil {
		handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// FinishGame принудительно завершает игру (только хост)
func (h *GameHandler) FinishGame(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)
	userID := c.MustGet("user_id").(uint)

	if err := h.gameService.FinishGame(roomID, userID); err != nil {
		handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game finished"})
}

// GetCurrentQuestion возвращает текущий вопрос без правильного ответа.
// Если игра не идет, возвращается question: null.
func (h *GameHandler) GetCurrentQuestion(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)

	question, err := h.questionService.GetCurrentQuestion(roomID)
	if err != nil {
		handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"question": question})
}

// SubmitAnswerRequest представляет запрос на отправку ответа
type SubmitAnswerRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
}

// SubmitAnswer принимает ответ участника на текущий вопрос
func (h *GameHandler) SubmitAnswer(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)
	userID := c.MustGet("user_id").(uint)

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.answerService.SubmitAnswer(roomID, userID, req.QuestionID, req.Answer)
	if err != nil {
		handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetQuestionResults возвращает вопрос со всеми ответами после резолюции
func (h *GameHandler) GetQuestionResults(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	results, err := h.answerService.GetQuestionResults(questionID)
	if err != nil {
		handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetGameResults возвращает итоги игры
func (h *GameHandler) GetGameResults(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)

	results, err := h.gameService.GetGameResults(roomID)
	if err != nil {
		handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// ExportGameResults выгружает итоги игры в Excel-файл.
// Используем StreamWriter для эффективной записи построчно.
func (h *GameHandler) ExportGameResults(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)

	results, err := h.gameService.GetGameResults(roomID)
	if err != nil {
		handleGameError(c, err)
		return
	}

	filename := fmt.Sprintf("game_results_room_%d_%s", roomID, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Результаты"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[GameHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Место", "Пользователь", "Очки", "Правильных", "Всего ответов", "Точность (%)", "Среднее время (мс)", "Победитель"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[GameHandler] Ошибка записи заголовков: %v", err)
	}

	for i, p := range results.Players {
		rowNum := i + 2
		cell := fmt.Sprintf("A%d", rowNum)

		winner := "Нет"
		if p.IsWinner {
			winner = "Да"
		}

		row := []interface{}{
			i + 1,
			p.Username,
			p.Score,
			p.CorrectAnswers,
			p.TotalAnswers,
			fmt.Sprintf("%.1f", p.Accuracy),
			p.AvgResponseTimeMs,
			winner,
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[GameHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[GameHandler] Ошибка завершения записи: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize Excel file"})
		return
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[GameHandler] Ошибка отправки файла: %v", err)
	}
}
