package websocket

import (
	"arena-service/internal/models"
	"arena-service/internal/question"
)

type MessageType string

const (
	// Client -> Server
	MessageTypeCreateRoom     MessageType = "createRoom"
	MessageTypeJoinRoom       MessageType = "joinRoom"
	MessageTypeRequestJoin    MessageType = "requestJoin"
	MessageTypeApproveJoin    MessageType = "approveJoin"
	MessageTypeDenyJoin       MessageType = "denyJoin"
	MessageTypeSpectateRoom   MessageType = "spectateRoom"
	MessageTypeUpdateSettings MessageType = "updateSettings"
	MessageTypeStartGame      MessageType = "startGame"
	MessageTypeLaunchGame     MessageType = "launchGame"
	MessageTypeCancelGame     MessageType = "cancelGame"
	MessageTypeSubmitAnswer   MessageType = "submitAnswer"
	MessageTypeLeaveRoom      MessageType = "leaveRoom"
	MessageTypePing           MessageType = "ping"

	// Server -> Client acks; room broadcasts reuse the arena event names.
	MessageTypeRoomCreated   MessageType = "roomCreated"
	MessageTypeRoomJoined    MessageType = "roomJoined"
	MessageTypeRoomSpectated MessageType = "roomSpectated"
	MessageTypeRoomLeft      MessageType = "roomLeft"
	MessageTypeError         MessageType = "error"
	MessageTypePong          MessageType = "pong"
)

type Message struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload,omitempty"`
}

type RoomCodePayload struct {
	RoomCode string `json:"room_code"`
}

type JoinDecisionPayload struct {
	RoomCode    string `json:"room_code"`
	RequesterID string `json:"requester_id"`
	Reason      string `json:"reason,omitempty"`
}

type UpdateSettingsPayload struct {
	RoomCode string              `json:"room_code"`
	Settings models.RoomSettings `json:"settings"`
}

type SubmitAnswerPayload struct {
	RoomCode      string          `json:"room_code"`
	QuestionIndex int             `json:"question_index"`
	Answer        question.Answer `json:"answer"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
