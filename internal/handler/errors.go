package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/trivia-rooms/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-rooms/internal/pkg/errors"
)

// handleGameError переводит доменные ошибки в HTTP-статусы.
// Незнакомая ошибка логируется и отдается как 500 без деталей.
func handleGameError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrRoomNotFound),
		errors.Is(err, repository.ErrQuestionNotFound),
		errors.Is(err, repository.ErrParticipantNotFound),
		errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, repository.ErrGameAlreadyStarted),
		errors.Is(err, repository.ErrRoomFull),
		errors.Is(err, repository.ErrDuplicateAnswer),
		errors.Is(err, repository.ErrStaleQuestion),
		errors.Is(err, repository.ErrNotEnoughPlayers),
		errors.Is(err, repository.ErrPlayersNotReady),
		errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, repository.ErrNotHost),
		errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	default:
		log.Printf("ERROR: Internal server error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
