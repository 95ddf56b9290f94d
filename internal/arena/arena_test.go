package arena

import (
	"context"
	"sync"
	"testing"
	"time"

	"arena-service/internal/constants"
	"arena-service/internal/models"
	"arena-service/internal/question"

	"github.com/stretchr/testify/require"
)

type sentEvent struct {
	Event   string
	Payload any
}

type fakeSender struct {
	mu     sync.Mutex
	events []sentEvent
}

func (f *fakeSender) SendEvent(event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, sentEvent{Event: event, Payload: payload})
}

func (f *fakeSender) count(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

func (f *fakeSender) last(event string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i].Event == event {
			return f.events[i].Payload, true
		}
	}
	return nil, false
}

type fakeGenerator struct {
	mu        sync.Mutex
	questions []question.Question
	err       error
	block     chan struct{}
	calls     int
}

func (g *fakeGenerator) Generate(ctx context.Context, settings models.RoomSettings) ([]question.Question, error) {
	g.mu.Lock()
	g.calls++
	block := g.block
	g.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if g.err != nil {
		return nil, g.err
	}
	out := make([]question.Question, len(g.questions))
	copy(out, g.questions)
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

type fakeProfiles struct {
	mu     sync.Mutex
	awards map[string]int
}

func (p *fakeProfiles) AwardXP(ctx context.Context, userID string, xp int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.awards == nil {
		p.awards = make(map[string]int)
	}
	p.awards[userID] += xp
	return nil
}

func (p *fakeProfiles) awarded(userID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.awards[userID]
}

func identity(id string) models.Identity {
	return models.Identity{ID: id, Name: "name-" + id, AvatarURL: "https://cdn.example/" + id + ".png"}
}

func quizQuestions(n int) []question.Question {
	out := make([]question.Question, n)
	for i := range out {
		out[i] = question.Question{
			ID:            string(rune('a' + i)),
			Type:          question.TypeQuiz,
			Text:          "pick the first option",
			Options:       []string{"right", "wrong"},
			CorrectAnswer: "right",
		}
	}
	return out
}

type testEnv struct {
	registry *Registry
	gen      *fakeGenerator
	store    *fakeStore
	profiles *fakeProfiles
}

func newTestEnv(gen *fakeGenerator) *testEnv {
	store := &fakeStore{}
	profiles := &fakeProfiles{}
	return &testEnv{
		registry: NewRegistry(gen, NewRecorder(store, profiles)),
		gen:      gen,
		store:    store,
		profiles: profiles,
	}
}

// readyRoom builds a room with the given players, category set, questions
// generated and the room sitting in ready.
func readyRoom(t *testing.T, env *testEnv, playerIDs ...string) (*Room, map[string]*fakeSender) {
	t.Helper()

	senders := make(map[string]*fakeSender, len(playerIDs))
	host := playerIDs[0]
	senders[host] = &fakeSender{}
	room := env.registry.Create(identity(host), senders[host])

	for _, id := range playerIDs[1:] {
		senders[id] = &fakeSender{}
		_, err := room.Join(identity(id), senders[id])
		require.NoError(t, err)
	}

	_, err := room.UpdateSettings(host, models.RoomSettings{
		Category:       "general",
		TotalQuestions: len(env.gen.questions),
		TimerDuration:  120,
	})
	require.NoError(t, err)

	require.NoError(t, room.Start(host))
	require.Eventually(t, func() bool {
		return room.Status() == constants.RoomStatusReady
	}, 2*time.Second, 10*time.Millisecond)

	return room, senders
}

func activeRoom(t *testing.T, env *testEnv, playerIDs ...string) (*Room, map[string]*fakeSender) {
	t.Helper()
	room, senders := readyRoom(t, env, playerIDs...)
	require.NoError(t, room.Launch(playerIDs[0]))
	return room, senders
}

func quizAnswer(v string) question.Answer {
	return question.Answer{Value: v}
}
