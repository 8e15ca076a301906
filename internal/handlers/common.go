package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"secret-santa-backend/internal/services"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// respondError maps service errors onto HTTP statuses so the presentation
// layer can distinguish "fix your input" from "try again".
func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrParticipantNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrRoomLocked),
		errors.Is(err, services.ErrRoomRevealed),
		errors.Is(err, services.ErrCodeSpaceExhausted):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidBudget),
		errors.Is(err, services.ErrEmptyName):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInsufficientParticipants),
		errors.Is(err, services.ErrNotMatched):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrMatchingFailed),
		errors.Is(err, services.ErrAdviceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
