package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"secret-santa-backend/internal/services"
)

type SuggestHandler struct {
	suggestionService *services.SuggestionService
}

func NewSuggestHandler(suggestionService *services.SuggestionService) *SuggestHandler {
	return &SuggestHandler{suggestionService: suggestionService}
}

func (h *SuggestHandler) Suggest(c *gin.Context) {
	var params services.SuggestionParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	suggestions, err := h.suggestionService.Suggest(params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
