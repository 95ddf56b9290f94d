package websocket

import (
	"encoding/json"
	"fmt"
	"log"

	"arena-service/internal/arena"
)

type ClientMessage struct {
	Client  *Client
	Message Message
}

// Hub owns the connection set and routes client messages into the room
// engine. Room state itself lives in the arena registry; the hub only
// deals in connections.
type Hub struct {
	Register      chan *Client
	Unregister    chan *Client
	HandleMessage chan *ClientMessage

	registry *arena.Registry
}

func NewHub(registry *arena.Registry) *Hub {
	return &Hub{
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		HandleMessage: make(chan *ClientMessage),
		registry:      registry,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			log.Printf("Client connected: user=%s", client.Identity.ID)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case clientMsg := <-h.HandleMessage:
			h.handleClientMessage(clientMsg)
		}
	}
}

func (h *Hub) unregisterClient(client *Client) {
	if client.RoomCode != "" {
		if room, ok := h.registry.Get(client.RoomCode); ok {
			room.Disconnect(client.Identity.ID, client)
		}
	}
	close(client.Send)
	log.Printf("Client disconnected: user=%s", client.Identity.ID)
}

func (h *Hub) handleClientMessage(clientMsg *ClientMessage) {
	client := clientMsg.Client
	msg := clientMsg.Message

	switch msg.Type {
	case MessageTypeCreateRoom:
		h.handleCreateRoom(client)

	case MessageTypeJoinRoom:
		var p RoomCodePayload
		if !decode(client, msg.Payload, &p) {
			return
		}
		h.handleJoinRoom(client, p.RoomCode)

	case MessageTypeRequestJoin:
		var p RoomCodePayload
		if !decode(client, msg.Payload, &p) {
			return
		}
		h.handleRequestJoin(client, p.RoomCode)

	case MessageTypeApproveJoin:
		var p JoinDecisionPayload
		if !decode(client, msg.Payload, &p) {
			return
		}
		h.withRoom(client, p.RoomCode, func(room *arena.Room) error {
			return room.ApproveJoin(client.Identity.ID, p.RequesterID)
		})

	case MessageTypeDenyJoin:
		var p JoinDecisionPayload
		if !decode(client, msg.Payload, &p) {
			return
		}
		h.withRoom(client, p.RoomCode, func(room *arena.Room) error {
			return room.DenyJoin(client.Identity.ID, p.RequesterID, p.Reason)
		})

	case MessageTypeSpectateRoom:
		var p RoomCodePayload
		if !decode(client, msg.Payload, &p) {
			return
		}
		h.handleSpectate(client, p.RoomCode)

	case MessageTypeUpdateSettings:
		var p UpdateSettingsPayload
		if !decode(client, msg.Payload, &p) {
			return
		}
		h.withRoom(client, p.RoomCode, func(room *arena.Room) error {
			_, err := room.UpdateSettings(client.Identity.ID, p.Settings)
			return err
		})

	case MessageTypeStartGame:
		var p RoomCodePayload
		if !decode(client, msg.Payload, &p) {
			return
		}
		h.withRoom(client, p.RoomCode, func(room *arena.Room) error {
			return room.Start(client.Identity.ID)
		})

	case MessageTypeLaunchGame:
		var p RoomCodePayload
		if !decode(client, msg.Payload, &p) {
			return
		}
		h.withRoom(client, p.RoomCode, func(room *arena.Room) error {
			return room.Launch(client.Identity.ID)
		})

	case MessageTypeCancelGame:
		var p RoomCodePayload
		if !decode(client, msg.Payload, &p) {
			return
		}
		h.withRoom(client, p.RoomCode, func(room *arena.Room) error {
			return room.Cancel(client.Identity.ID)
		})

	case MessageTypeSubmitAnswer:
		var p SubmitAnswerPayload
		if !decode(client, msg.Payload, &p) {
			return
		}
		if room, ok := h.registry.Get(p.RoomCode); ok {
			room.SubmitAnswer(client.Identity.ID, p.QuestionIndex, p.Answer)
		}

	case MessageTypeLeaveRoom:
		var p RoomCodePayload
		if !decode(client, msg.Payload, &p) {
			return
		}
		if room, ok := h.registry.Get(p.RoomCode); ok {
			room.Leave(client.Identity.ID)
		}
		if client.RoomCode == p.RoomCode {
			client.RoomCode = ""
		}
		client.SendMessage(MessageTypeRoomLeft, RoomCodePayload{RoomCode: p.RoomCode})

	case MessageTypePing:
		client.SendMessage(MessageTypePong, nil)

	default:
		client.SendError(fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

func (h *Hub) handleCreateRoom(client *Client) {
	room := h.registry.Create(client.Identity, client)
	client.RoomCode = room.Code
	client.SendMessage(MessageTypeRoomCreated, room.View())
}

func (h *Hub) handleJoinRoom(client *Client, roomCode string) {
	room, ok := h.registry.Get(roomCode)
	if !ok {
		client.SendError(arena.ErrRoomNotFound.Error())
		return
	}
	view, err := room.Join(client.Identity, client)
	if err != nil {
		client.SendError(err.Error())
		return
	}
	client.RoomCode = roomCode
	client.SendMessage(MessageTypeRoomJoined, view)
}

// handleRequestJoin records the requester's room so a dropped socket is
// cleaned out of the pending list, or out of the roster once approved.
func (h *Hub) handleRequestJoin(client *Client, roomCode string) {
	room, ok := h.registry.Get(roomCode)
	if !ok {
		client.SendError(arena.ErrRoomNotFound.Error())
		return
	}
	if err := room.RequestJoin(client.Identity, client); err != nil {
		client.SendError(err.Error())
		return
	}
	client.RoomCode = roomCode
}

func (h *Hub) handleSpectate(client *Client, roomCode string) {
	room, ok := h.registry.Get(roomCode)
	if !ok {
		client.SendError(arena.ErrRoomNotFound.Error())
		return
	}
	view := room.Spectate(client.Identity, client)
	client.RoomCode = roomCode
	client.SendMessage(MessageTypeRoomSpectated, view)
}

// withRoom looks up the room and reports any operation error back on the
// caller's own channel only; broadcasts stay with legitimate transitions.
func (h *Hub) withRoom(client *Client, roomCode string, fn func(*arena.Room) error) {
	room, ok := h.registry.Get(roomCode)
	if !ok {
		client.SendError(arena.ErrRoomNotFound.Error())
		return
	}
	if err := fn(room); err != nil {
		client.SendError(err.Error())
	}
}

// decode re-marshals the loosely typed payload into its concrete shape.
func decode(client *Client, payload any, dst any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		client.SendError("Invalid payload")
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		client.SendError("Invalid payload")
		return false
	}
	return true
}
