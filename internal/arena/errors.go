package arena

import "errors"

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrNotHost        = errors.New("only the host can do that")
	ErrRoomFull       = errors.New("room is full")
	ErrAlreadyStarted = errors.New("game already in progress")
	ErrBadState       = errors.New("room is not in a valid state for that")
	ErrNoCategory     = errors.New("a category must be selected before starting")
	ErrGeneration     = errors.New("question generation failed")
)
