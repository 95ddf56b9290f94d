package models

import (
	"database/sql"
	"time"
)

// Identity is a verified user attached to a connection by the gateway.
type Identity struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	XP        int    `json:"xp"`
	Level     int    `json:"level"`
}

// Sender delivers one server event to a single connected participant.
// The websocket client implements it; tests substitute fakes.
type Sender interface {
	SendEvent(event string, payload any)
}

type Player struct {
	ID        string
	Conn      Sender
	Name      string
	AvatarURL string

	Score                int
	CurrentQuestionIndex int
	CorrectAnswers       int
	Finished             bool
	LastQuestionTime     time.Time
	FinishTime           time.Time
}

type Spectator struct {
	ID        string
	Conn      Sender
	Name      string
	AvatarURL string
}

type JoinRequest struct {
	ID        string
	Conn      Sender
	Name      string
	AvatarURL string
}

// GameResult is the durable record written once per (user, room).
type GameResult struct {
	ID             string
	UserID         string
	RoomCode       string
	Username       string
	AvatarURL      string
	Score          int
	CorrectAnswers int
	TotalQuestions int
	Rank           sql.NullInt64
	DNF            bool
	CompletedAt    time.Time
}

type LeaderboardEntry struct {
	Rank           int    `json:"rank"`
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	AvatarURL      string `json:"avatar_url"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correct_answers"`
	Finished       bool   `json:"finished"`
}

// RoomSettings is the host-configurable part of a room while it waits.
type RoomSettings struct {
	Category       string `json:"category"`
	ChallengeMode  string `json:"challenge_mode"`
	Difficulty     string `json:"difficulty"`
	Language       string `json:"language"`
	Topic          string `json:"topic"`
	Description    string `json:"description"`
	TotalQuestions int    `json:"total_questions"`
	TimerDuration  int    `json:"timer_duration"` // seconds
}

