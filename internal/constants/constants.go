package constants

import "time"

const (
	RoomStatusWaiting    = "waiting"
	RoomStatusGenerating = "generating"
	RoomStatusReady      = "ready"
	RoomStatusActive     = "active"
	RoomStatusFinished   = "finished"
)

const (
	// Room codes avoid characters that are easy to misread (I, O, 0, 1).
	RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	RoomCodeLength   = 6
)

const (
	MaxPlayersPerRoom = 20
	MaxQuestions      = 10
	MaxTimerSeconds   = 3600

	DefaultQuestions    = 5
	DefaultTimerSeconds = 300
)

const (
	// Grace window after a game finishes before the room is disposed,
	// so stragglers can still read the final leaderboard.
	DisposeGracePeriod = 60 * time.Second

	TimerTickInterval = 1 * time.Second
)

const (
	QuizBasePoints  = 100
	QuizMaxBonus    = 50
	QuizDecayWindow = 30 * time.Second

	ProgrammingBasePoints  = 200
	ProgrammingMaxBonus    = 100
	ProgrammingDecayWindow = 60 * time.Second
)

const (
	// XP awards requested from the user service after a game.
	WinnerXPBonus = 100
	XPPerScore    = 0.1
)
