package repository

import (
	"context"
	"database/sql"

	"arena-service/internal/models"

	"github.com/google/uuid"
)

type ResultRepository struct {
	db *sql.DB
}

func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Create inserts one result record. The (user_id, room_code) conflict key
// absorbs replays, so a duplicate DNF signal writes nothing.
func (r *ResultRepository) Create(ctx context.Context, result *models.GameResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	query := `
		INSERT INTO game_results (id, user_id, room_code, username, avatar_url, score, correct_answers, total_questions, rank, dnf, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, room_code) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		result.ID,
		result.UserID,
		result.RoomCode,
		result.Username,
		result.AvatarURL,
		result.Score,
		result.CorrectAnswers,
		result.TotalQuestions,
		result.Rank,
		result.DNF,
		result.CompletedAt,
	)
	return err
}

// GetByUser returns a user's recorded results, most recent first.
func (r *ResultRepository) GetByUser(ctx context.Context, userID string) ([]*models.GameResult, error) {
	query := `
		SELECT id, user_id, room_code, username, avatar_url, score, correct_answers, total_questions, rank, dnf, completed_at
		FROM game_results
		WHERE user_id = $1
		ORDER BY completed_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.GameResult
	for rows.Next() {
		result := &models.GameResult{}
		err := rows.Scan(
			&result.ID,
			&result.UserID,
			&result.RoomCode,
			&result.Username,
			&result.AvatarURL,
			&result.Score,
			&result.CorrectAnswers,
			&result.TotalQuestions,
			&result.Rank,
			&result.DNF,
			&result.CompletedAt,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
