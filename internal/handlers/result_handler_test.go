package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"arena-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	results []*models.GameResult
	err     error
	gotUser string
}

func (f *fakeFetcher) GetByUser(ctx context.Context, userID string) ([]*models.GameResult, error) {
	f.gotUser = userID
	return f.results, f.err
}

func newResultRouter(f *fakeFetcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/users/:userID/results", NewResultHandler(f).GetUserResults)
	return r
}

func TestGetUserResults(t *testing.T) {
	completed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{results: []*models.GameResult{
		{
			UserID:         "bob",
			RoomCode:       "ABC234",
			Username:       "Bob",
			Score:          250,
			CorrectAnswers: 2,
			TotalQuestions: 2,
			Rank:           sql.NullInt64{Int64: 1, Valid: true},
			CompletedAt:    completed,
		},
		{
			UserID:         "bob",
			RoomCode:       "XYZ789",
			Username:       "Bob",
			Score:          0,
			TotalQuestions: 5,
			DNF:            true,
			CompletedAt:    completed,
		},
	}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/bob/results", nil)
	newResultRouter(fetcher).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "bob", fetcher.gotUser)

	var body struct {
		UserID  string       `json:"user_id"`
		Results []resultView `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "bob", body.UserID)
	require.Len(t, body.Results, 2)

	require.NotNil(t, body.Results[0].Rank)
	require.EqualValues(t, 1, *body.Results[0].Rank)
	require.False(t, body.Results[0].DNF)

	require.Nil(t, body.Results[1].Rank)
	require.True(t, body.Results[1].DNF)
}

func TestGetUserResults_EmptyHistory(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/nobody/results", nil)
	newResultRouter(&fakeFetcher{}).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Results []resultView `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Empty(t, body.Results)
}

func TestGetUserResults_StoreError(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/bob/results", nil)
	newResultRouter(&fakeFetcher{err: errors.New("connection refused")}).ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}
