package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"arena-service/config"
	"arena-service/internal/models"
	"arena-service/internal/question"

	"github.com/google/uuid"
)

// GeneratorClient asks an OpenAI-compatible completion API for a question
// set matching the room's configuration.
type GeneratorClient struct {
	httpClient *http.Client
	apiKey     string
	apiURL     string
	model      string
}

func NewGeneratorClient(cfg *config.GeneratorConfig) *GeneratorClient {
	return &GeneratorClient{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		apiKey:     cfg.APIKey,
		apiURL:     cfg.APIURL,
		model:      cfg.Model,
	}
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

const systemPrompt = `You are a question generator for a multiplayer learning arena. Respond with ONLY a valid JSON array (no markdown, no code fences, no explanations). Each element is a question object with a "type" field, one of: quiz, programming, type_answer, drag_order, drag_match, fill_blank, predict_output, slider_adjust.

Field reference per type:
- quiz: text, options (2-4 strings), correct_answer (one of options)
- programming: text, starter_code, tests (runnable test script), solution
- type_answer / predict_output: text, optional code_snippet, accepted_answers (list of acceptable strings)
- drag_order: text, items, correct_order (same strings in the right order)
- drag_match: text, left_items, right_items (right_items[i] matches left_items[i])
- fill_blank: text_with_blanks (use ___ for each blank), blank_answers (one per blank, in order)
- slider_adjust: text, sliders (label, min, max, target, tolerance)

Rules:
- Generate exactly the requested number of questions
- Match the requested category, difficulty, language and topic
- Make the questions factually accurate and varied
- Return ONLY the JSON array, nothing else`

// Generate requests a question set. The caller owns the context; a room
// cancelled mid-generation simply discards the result.
func (c *GeneratorClient) Generate(ctx context.Context, settings models.RoomSettings) ([]question.Question, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("question generation is not configured")
	}

	userPrompt := fmt.Sprintf(
		"Generate %d questions. Category: %s. Mode: %s. Difficulty: %s. Language: %s. Topic: %s. %s",
		settings.TotalQuestions, settings.Category, settings.ChallengeMode,
		settings.Difficulty, settings.Language, settings.Topic, settings.Description,
	)

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generator request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse generator response: %w", err)
	}
	if chatResp.Error != nil {
		return nil, fmt.Errorf("generator error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("generator returned no choices")
	}

	content := stripCodeFences(chatResp.Choices[0].Message.Content)

	var questions []question.Question
	if err := json.Unmarshal([]byte(content), &questions); err != nil {
		return nil, fmt.Errorf("generator returned invalid question JSON: %w", err)
	}

	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
	}
	return questions, nil
}

// stripCodeFences tolerates models that wrap the JSON in a markdown block
// despite the prompt.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
