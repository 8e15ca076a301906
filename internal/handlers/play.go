package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"secret-santa-backend/internal/services"
)

type PlayHandler struct {
	roomService *services.RoomService
}

func NewPlayHandler(roomService *services.RoomService) *PlayHandler {
	return &PlayHandler{roomService: roomService}
}

type PlayJoinRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required,min=1,max=100"`
}

type UpdateProfileRequest struct {
	ParticipantID string  `json:"participant_id" binding:"required"`
	Color         *string `json:"color"`
	Occasion      *string `json:"occasion"`
	Feeling       *string `json:"feeling"`
}

// Join admits a new participant or, when the name already exists in the room,
// reconnects them to their original identity.
func (h *PlayHandler) Join(c *gin.Context) {
	var req PlayJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	room, participant, err := h.roomService.JoinRoom(req.Code, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room":        room,
		"participant": participant,
	})
}

func (h *PlayHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	participantID, err := uuid.Parse(req.ParticipantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid participant id"})
		return
	}

	participant, err := h.roomService.UpdateProfile(participantID, services.ProfileUpdate{
		Color:    req.Color,
		Occasion: req.Occasion,
		Feeling:  req.Feeling,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, participant)
}

// GetMyPairing returns the caller's receiver, or a null receiver before any
// draw has happened.
func (h *PlayHandler) GetMyPairing(c *gin.Context) {
	roomID, err := uuid.Parse(c.Query("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid room id"})
		return
	}
	participantID, err := uuid.Parse(c.Query("participant_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid participant id"})
		return
	}

	receiver, err := h.roomService.GetMyPairing(roomID, participantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receiver": receiver})
}
