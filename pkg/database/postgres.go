package database

import (
	"context"
	"database/sql"
	"fmt"

	"arena-service/config"

	_ "github.com/lib/pq"
)

type PostgresClient struct {
	db     *sql.DB
	config *config.DBConfig
}

func NewPostgresClient(cfg *config.DBConfig) (*PostgresClient, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{
		db:     db,
		config: cfg,
	}, nil
}

func (c *PostgresClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *PostgresClient) GetDB() *sql.DB {
	return c.db
}

func (c *PostgresClient) InitSchema(ctx context.Context) error {
	createGameResultsTable := `
		CREATE TABLE IF NOT EXISTS game_results (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			room_code VARCHAR(16) NOT NULL,
			username VARCHAR(255) NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL DEFAULT 0,
			correct_answers INTEGER NOT NULL DEFAULT 0,
			total_questions INTEGER NOT NULL DEFAULT 0,
			rank INTEGER,
			dnf BOOLEAN NOT NULL DEFAULT FALSE,
			completed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, room_code)
		);
		CREATE INDEX IF NOT EXISTS idx_game_results_user_id ON game_results(user_id);
		CREATE INDEX IF NOT EXISTS idx_game_results_room_code ON game_results(room_code);
	`

	if _, err := c.db.ExecContext(ctx, createGameResultsTable); err != nil {
		return fmt.Errorf("failed to create game_results table: %w", err)
	}

	return nil
}
