package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"arena-service/internal/models"

	"github.com/gin-gonic/gin"
)

// ResultFetcher reads stored game results.
type ResultFetcher interface {
	GetByUser(ctx context.Context, userID string) ([]*models.GameResult, error)
}

// ResultHandler serves a player's game history over HTTP.
type ResultHandler struct {
	results ResultFetcher
}

func NewResultHandler(results ResultFetcher) *ResultHandler {
	return &ResultHandler{results: results}
}

// resultView flattens the stored row for clients: rank is null for a
// did-not-finish record.
type resultView struct {
	RoomCode       string    `json:"room_code"`
	Username       string    `json:"username"`
	AvatarURL      string    `json:"avatar_url"`
	Score          int       `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	Rank           *int64    `json:"rank"`
	DNF            bool      `json:"dnf"`
	CompletedAt    time.Time `json:"completed_at"`
}

// GetUserResults returns a user's recorded games, most recent first.
func (h *ResultHandler) GetUserResults(c *gin.Context) {
	userID := c.Param("userID")

	results, err := h.results.GetByUser(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Failed to load results for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load results"})
		return
	}

	views := make([]resultView, 0, len(results))
	for _, r := range results {
		v := resultView{
			RoomCode:       r.RoomCode,
			Username:       r.Username,
			AvatarURL:      r.AvatarURL,
			Score:          r.Score,
			CorrectAnswers: r.CorrectAnswers,
			TotalQuestions: r.TotalQuestions,
			DNF:            r.DNF,
			CompletedAt:    r.CompletedAt,
		}
		if r.Rank.Valid {
			rank := r.Rank.Int64
			v.Rank = &rank
		}
		views = append(views, v)
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"results": views,
	})
}
