package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"arena-service/internal/arena"
	"arena-service/internal/constants"
	"arena-service/internal/models"
	"arena-service/internal/question"

	"github.com/stretchr/testify/require"
)

type fakeGenerator struct{}

func (fakeGenerator) Generate(ctx context.Context, settings models.RoomSettings) ([]question.Question, error) {
	out := make([]question.Question, settings.TotalQuestions)
	for i := range out {
		out[i] = question.Question{
			ID:            fmt.Sprintf("q%d", i),
			Type:          question.TypeQuiz,
			Text:          "pick the first option",
			Options:       []string{"right", "wrong"},
			CorrectAnswer: "right",
		}
	}
	return out, nil
}

type fakeStore struct {
	mu      sync.Mutex
	results []models.GameResult
}

func (s *fakeStore) Create(ctx context.Context, result *models.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.results {
		if existing.UserID == result.UserID && existing.RoomCode == result.RoomCode {
			return nil // conflict key absorbs replays
		}
	}
	s.results = append(s.results, *result)
	return nil
}

func (s *fakeStore) all() []models.GameResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.GameResult, len(s.results))
	copy(out, s.results)
	return out
}

type fakeProfiles struct{}

func (fakeProfiles) AwardXP(ctx context.Context, userID string, xp int) error { return nil }

func newTestHub() (*Hub, *fakeStore) {
	store := &fakeStore{}
	registry := arena.NewRegistry(fakeGenerator{}, arena.NewRecorder(store, fakeProfiles{}))
	return NewHub(registry), store
}

func testClient(h *Hub, id string) *Client {
	return NewClient(h, nil, models.Identity{ID: id, Name: "name-" + id})
}

func send(h *Hub, c *Client, msgType MessageType, payload any) {
	h.handleClientMessage(&ClientMessage{
		Client:  c,
		Message: Message{Type: msgType, Payload: payload},
	})
}

// drain empties the client's send channel, decoding every queued message.
func drain(t *testing.T, c *Client) []Message {
	t.Helper()
	var out []Message
	for {
		select {
		case data, ok := <-c.Send:
			if !ok {
				return out
			}
			var m Message
			require.NoError(t, json.Unmarshal(data, &m))
			out = append(out, m)
		default:
			return out
		}
	}
}

func firstOfType(msgs []Message, msgType MessageType) (Message, bool) {
	for _, m := range msgs {
		if m.Type == msgType {
			return m, true
		}
	}
	return Message{}, false
}

func createRoom(t *testing.T, h *Hub, host *Client) string {
	t.Helper()
	send(h, host, MessageTypeCreateRoom, nil)
	ack, ok := firstOfType(drain(t, host), MessageTypeRoomCreated)
	require.True(t, ok, "expected roomCreated ack")
	code, _ := ack.Payload.(map[string]any)["code"].(string)
	require.NotEmpty(t, code)
	require.Equal(t, code, host.RoomCode)
	return code
}

func approvedPlayer(t *testing.T, h *Hub, host *Client, code, id string) *Client {
	t.Helper()
	c := testClient(h, id)
	send(h, c, MessageTypeRequestJoin, RoomCodePayload{RoomCode: code})
	send(h, host, MessageTypeApproveJoin, JoinDecisionPayload{RoomCode: code, RequesterID: id})
	return c
}

func TestHub_RequestJoinTracksRoomOnClient(t *testing.T) {
	h, _ := newTestHub()
	host := testClient(h, "host")
	code := createRoom(t, h, host)

	bob := testClient(h, "bob")
	send(h, bob, MessageTypeRequestJoin, RoomCodePayload{RoomCode: code})

	require.Equal(t, code, bob.RoomCode)

	room, ok := h.registry.Get(code)
	require.True(t, ok)
	require.Len(t, room.View().Pending, 1)
}

func TestHub_ApprovedPlayerDisconnectLeavesRoster(t *testing.T) {
	h, _ := newTestHub()
	host := testClient(h, "host")
	code := createRoom(t, h, host)
	bob := approvedPlayer(t, h, host, code, "bob")

	room, ok := h.registry.Get(code)
	require.True(t, ok)
	require.Len(t, room.View().Players, 2)

	h.unregisterClient(bob)

	view := room.View()
	require.Len(t, view.Players, 1)
	require.Equal(t, "host", view.Players[0].ID)

	// A broadcast after the disconnect must reach the host and nobody
	// else; the departed socket's channel is closed.
	drain(t, host)
	send(h, host, MessageTypeUpdateSettings, UpdateSettingsPayload{
		RoomCode: code,
		Settings: models.RoomSettings{Category: "go", TotalQuestions: 2, TimerDuration: 60},
	})
	_, ok = firstOfType(drain(t, host), MessageType(arena.EventSettingsUpdated))
	require.True(t, ok, "expected settingsUpdated broadcast")
}

func TestHub_PendingRequesterDisconnectClearsRequest(t *testing.T) {
	h, _ := newTestHub()
	host := testClient(h, "host")
	code := createRoom(t, h, host)

	bob := testClient(h, "bob")
	send(h, bob, MessageTypeRequestJoin, RoomCodePayload{RoomCode: code})

	room, ok := h.registry.Get(code)
	require.True(t, ok)
	require.Len(t, room.View().Pending, 1)

	h.unregisterClient(bob)
	require.Empty(t, room.View().Pending)

	// A late decision on the vanished requester errors back to the host
	// instead of touching the closed connection.
	drain(t, host)
	send(h, host, MessageTypeApproveJoin, JoinDecisionPayload{RoomCode: code, RequesterID: "bob"})
	_, ok = firstOfType(drain(t, host), MessageTypeError)
	require.True(t, ok, "expected error ack for vanished requester")
	require.Len(t, room.View().Players, 1)
}

func TestHub_ApprovedPlayerDisconnectDuringGameRecordsDNF(t *testing.T) {
	h, store := newTestHub()
	host := testClient(h, "host")
	code := createRoom(t, h, host)
	bob := approvedPlayer(t, h, host, code, "bob")

	send(h, host, MessageTypeUpdateSettings, UpdateSettingsPayload{
		RoomCode: code,
		Settings: models.RoomSettings{Category: "go", TotalQuestions: 2, TimerDuration: 60},
	})
	send(h, host, MessageTypeStartGame, RoomCodePayload{RoomCode: code})

	room, ok := h.registry.Get(code)
	require.True(t, ok)
	require.Eventually(t, func() bool {
		return room.Status() == constants.RoomStatusReady
	}, time.Second, 10*time.Millisecond)

	send(h, host, MessageTypeLaunchGame, RoomCodePayload{RoomCode: code})
	require.Equal(t, constants.RoomStatusActive, room.Status())

	h.unregisterClient(bob)

	require.Len(t, room.View().Players, 1)
	require.Eventually(t, func() bool {
		return len(store.all()) == 1
	}, time.Second, 10*time.Millisecond)

	rec := store.all()[0]
	require.Equal(t, "bob", rec.UserID)
	require.Equal(t, code, rec.RoomCode)
	require.True(t, rec.DNF)
	require.False(t, rec.Rank.Valid)
}

func TestHub_UnknownMessageTypeReturnsError(t *testing.T) {
	h, _ := newTestHub()
	c := testClient(h, "host")

	send(h, c, MessageType("bogus"), nil)

	msg, ok := firstOfType(drain(t, c), MessageTypeError)
	require.True(t, ok)
	payload, _ := msg.Payload.(map[string]any)
	require.Contains(t, payload["message"], "Unknown message type")
}

func TestHub_MalformedPayloadReturnsError(t *testing.T) {
	h, _ := newTestHub()
	c := testClient(h, "host")

	send(h, c, MessageTypeJoinRoom, "not an object")

	_, ok := firstOfType(drain(t, c), MessageTypeError)
	require.True(t, ok, "expected error ack for malformed payload")
}
