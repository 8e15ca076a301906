package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrAdviceUnavailable means the advisor could not be reached or returned
// garbage. It is transient; callers may simply retry or go without.
var ErrAdviceUnavailable = errors.New("gift suggestions are temporarily unavailable")

const maxSuggestions = 3

// SuggestionService asks an OpenAI-compatible chat endpoint for gift ideas
// matching a participant's preferences and the room budget. It is strictly
// advisory: when unconfigured it serves canned fallback ideas, and its
// failures never block joining, profile updates or matching.
type SuggestionService struct {
	httpClient *http.Client
	apiKey     string
	apiURL     string
	model      string
}

func NewSuggestionService(apiKey, apiURL, model string) *SuggestionService {
	return &SuggestionService{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     apiKey,
		apiURL:     apiURL,
		model:      model,
	}
}

func (s *SuggestionService) IsAvailable() bool {
	return s.apiKey != ""
}

type GiftSuggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type SuggestionParams struct {
	Color     string `json:"color"`
	Occasion  string `json:"occasion"`
	Feeling   string `json:"feeling"`
	BudgetMin int    `json:"budget_min"`
	BudgetMax int    `json:"budget_max"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const suggestionPrompt = `You are a gift advisor for a Secret Santa exchange. The user will describe the recipient's preferences and the budget. You must respond with ONLY a valid JSON array (no markdown, no code fences, no explanations) in the following format:

[
  {"name": "Gift idea", "description": "One short sentence on why it fits"}
]

Rules:
- Suggest exactly 3 concrete, creative gift ideas within the budget
- Keep each description under 20 words
- Write in the same language as the user's message
- Return ONLY the JSON array, nothing else`

// Suggest returns up to three gift ideas for the given preferences.
func (s *SuggestionService) Suggest(params SuggestionParams) ([]GiftSuggestion, error) {
	if !s.IsAvailable() {
		return fallbackSuggestions(), nil
	}

	userPrompt := fmt.Sprintf(
		"Preferred colors: %s\nOccasion: %s\nVibe: %s\nBudget: $%d - $%d",
		params.Color, params.Occasion, params.Feeling, params.BudgetMin, params.BudgetMax,
	)
	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: suggestionPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", s.apiURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAdviceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAdviceUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrAdviceUnavailable, resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAdviceUnavailable, err)
	}
	if chatResp.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrAdviceUnavailable, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrAdviceUnavailable)
	}

	content := cleanJSONContent(chatResp.Choices[0].Message.Content)
	var suggestions []GiftSuggestion
	if err := json.Unmarshal([]byte(content), &suggestions); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON from advisor", ErrAdviceUnavailable)
	}
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions, nil
}

func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	}
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}

func fallbackSuggestions() []GiftSuggestion {
	return []GiftSuggestion{
		{Name: "Handmade card", Description: "A classic full of warmth and personal touch."},
		{Name: "Scented candle", Description: "A safe pick that suits almost any occasion."},
		{Name: "Cozy socks", Description: "Practical, seasonal and kind to any budget."},
	}
}
