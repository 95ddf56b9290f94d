package arena

import (
	"context"
	"database/sql"
	"log"
	"time"

	"arena-service/internal/constants"
	"arena-service/internal/models"
)

// ResultStore is the durable results collaborator. The store keys records
// by (user, room), so a replayed write is a no-op.
type ResultStore interface {
	Create(ctx context.Context, result *models.GameResult) error
}

// ProfileService grants XP on the user-profile collaborator.
type ProfileService interface {
	AwardXP(ctx context.Context, userID string, xp int) error
}

// Recorder persists final standings and abandonment records and requests
// XP updates after a completed game.
type Recorder struct {
	store    ResultStore
	profiles ProfileService
}

func NewRecorder(store ResultStore, profiles ProfileService) *Recorder {
	return &Recorder{store: store, profiles: profiles}
}

const recordTimeout = 10 * time.Second

// RecordCompleted writes one completed result per player, then requests
// XP awards. The top rank gets a flat bonus; everyone with a positive
// score gets a scaled amount.
func (rec *Recorder) RecordCompleted(results []models.GameResult) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	for i := range results {
		if err := rec.store.Create(ctx, &results[i]); err != nil {
			log.Printf("Failed to persist result: user=%s, room=%s, err=%v",
				results[i].UserID, results[i].RoomCode, err)
		}
	}

	for _, res := range results {
		xp := 0
		if res.Score > 0 {
			xp = int(float64(res.Score) * constants.XPPerScore)
		}
		if res.Rank.Valid && res.Rank.Int64 == 1 {
			xp += constants.WinnerXPBonus
		}
		if xp == 0 {
			continue
		}
		if err := rec.profiles.AwardXP(ctx, res.UserID, xp); err != nil {
			log.Printf("Failed to award XP: user=%s, err=%v", res.UserID, err)
		}
	}
}

// RecordDNF writes a did-not-finish record with no rank. The caller
// guarantees at most one call per (user, room); the store's conflict key
// backstops it.
func (rec *Recorder) RecordDNF(result models.GameResult) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := rec.store.Create(ctx, &result); err != nil {
		log.Printf("Failed to persist DNF result: user=%s, room=%s, err=%v",
			result.UserID, result.RoomCode, err)
	}
}

func nullRank(rank int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(rank), Valid: true}
}
