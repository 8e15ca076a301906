package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"secret-santa-backend/internal/services"
)

type RoomHandler struct {
	roomService *services.RoomService
}

func NewRoomHandler(roomService *services.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

type CreateRoomRequest struct {
	HostName      string `json:"host_name" binding:"required,min=1,max=100"`
	BudgetMin     int    `json:"budget_min"`
	BudgetMax     int    `json:"budget_max"`
	AllowHandmade bool   `json:"allow_handmade"`
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	room, host, err := h.roomService.CreateRoom(req.HostName, req.BudgetMin, req.BudgetMax, req.AllowHandmade)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"room":        room,
		"participant": host,
	})
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid room id"})
		return
	}

	room, participants, err := h.roomService.GetRoomState(roomID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room":         room,
		"participants": participants,
	})
}

func (h *RoomHandler) LockRoom(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid room id"})
		return
	}

	if err := h.roomService.LockRoom(roomID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "room locked"})
}

func (h *RoomHandler) GeneratePairing(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid room id"})
		return
	}

	if err := h.roomService.GeneratePairing(roomID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "pairings generated"})
}

func (h *RoomHandler) GetAllPairings(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid room id"})
		return
	}

	pairs, err := h.roomService.GetAllPairings(roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pairs)
}

func (h *RoomHandler) RevealRoom(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid room id"})
		return
	}

	if err := h.roomService.RevealRoom(roomID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "room revealed"})
}
