package arena

import (
	"arena-service/internal/models"
	"arena-service/internal/question"
)

// Event names broadcast to room members. The websocket layer forwards
// them verbatim as message types.
const (
	EventPlayerJoined      = "playerJoined"
	EventPlayerLeft        = "playerLeft"
	EventSettingsUpdated   = "settingsUpdated"
	EventNewHost           = "newHost"
	EventGameStatus        = "gameStatus"
	EventGameStarted       = "gameStarted"
	EventNextQuestion      = "nextQuestion"
	EventAnswerResult      = "answerResult"
	EventLeaderboardUpdate = "leaderboardUpdate"
	EventTimerUpdate       = "timerUpdate"
	EventPlayerFinished    = "playerFinished"
	EventGameOver          = "gameOver"
	EventJoinRequest       = "joinRequest"
	EventJoinApproved      = "joinApproved"
	EventJoinDenied        = "joinDenied"
)

const (
	GameStatusGenerating = "generating"
	GameStatusReady      = "ready"
	GameStatusCancelled  = "cancelled"
	GameStatusError      = "error"
)

type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Score     int    `json:"score"`
	Finished  bool   `json:"finished"`
}

// RoomView is the client-safe snapshot of a room returned on acks and
// carried by roster broadcasts. Questions never appear here.
type RoomView struct {
	Code       string              `json:"code"`
	HostID     string              `json:"host_id"`
	Status     string              `json:"status"`
	Settings   models.RoomSettings `json:"settings"`
	Players    []PlayerView        `json:"players"`
	Spectators int                 `json:"spectators"`
	Pending    []PlayerView        `json:"pending_requests"`
}

type PlayerJoinedPayload struct {
	Player PlayerView `json:"player"`
	Room   RoomView   `json:"room"`
}

type PlayerLeftPayload struct {
	UserID string   `json:"user_id"`
	Room   RoomView `json:"room"`
}

type NewHostPayload struct {
	HostID string `json:"host_id"`
	Name   string `json:"name"`
}

type GameStatusPayload struct {
	Status         string `json:"status"`
	Message        string `json:"message,omitempty"`
	TotalQuestions int    `json:"total_questions,omitempty"`
}

type GameStartedPayload struct {
	TimerDuration  int   `json:"timer_duration"`
	TotalQuestions int   `json:"total_questions"`
	StartTime      int64 `json:"start_time"`
}

type NextQuestionPayload struct {
	Question       question.ClientView `json:"question"`
	QuestionIndex  int                 `json:"question_index"`
	TotalQuestions int                 `json:"total_questions"`
}

// AnswerResult goes only to the submitter. CorrectAnswer is the one place
// a canonical answer crosses the boundary, and only after the attempt.
type AnswerResult struct {
	Correct       bool  `json:"correct"`
	PointsEarned  int   `json:"points_earned"`
	TotalScore    int   `json:"total_score"`
	QuestionIndex int   `json:"question_index"`
	CorrectAnswer any   `json:"correct_answer"`
	TimeSpentMs   int64 `json:"time_spent_ms"`
}

type LeaderboardPayload struct {
	Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
}

type TimerUpdatePayload struct {
	RemainingSeconds int `json:"remaining_seconds"`
}

type PlayerFinishedPayload struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

type GameOverPayload struct {
	Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
}

type JoinRequestPayload struct {
	Requester PlayerView `json:"requester"`
}

type JoinDeniedPayload struct {
	Reason string `json:"reason"`
}
