package arena

import (
	"log"
	"sort"
	"sync"
	"time"

	"arena-service/internal/constants"
	"arena-service/internal/models"
	"arena-service/internal/question"
)

// Room is one live session. Every mutating operation takes r.mu, so
// roster changes, submissions, timer ticks and finalize are serialized
// per room while rooms stay independent of each other.
type Room struct {
	Code     string
	registry *Registry

	mu          sync.Mutex
	hostID      string
	status      string
	settings    models.RoomSettings
	players     []*models.Player
	spectators  []*models.Spectator
	pending     []*models.JoinRequest
	questions   []question.Question
	matchPerms  map[int][]int
	startTime   time.Time
	createdAt   time.Time
	genEpoch    int
	timerStop   chan struct{}
	dnfRecorded map[string]bool
}

func newRoom(code string, host models.Identity, conn models.Sender, reg *Registry) *Room {
	return &Room{
		Code:     code,
		registry: reg,
		hostID:   host.ID,
		status:   constants.RoomStatusWaiting,
		settings: models.RoomSettings{
			TotalQuestions: constants.DefaultQuestions,
			TimerDuration:  constants.DefaultTimerSeconds,
		},
		players: []*models.Player{{
			ID:        host.ID,
			Conn:      conn,
			Name:      host.Name,
			AvatarURL: host.AvatarURL,
		}},
		matchPerms:  make(map[int][]int),
		createdAt:   time.Now(),
		dnfRecorded: make(map[string]bool),
	}
}

// Join adds a player, or swaps the connection in place when the same
// identity is already present (reconnect, idempotent).
func (r *Room) Join(identity models.Identity, conn models.Sender) (RoomView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p := r.findPlayerLocked(identity.ID); p != nil {
		p.Conn = conn
		log.Printf("Player reconnected: room=%s, user=%s", r.Code, identity.ID)
		if r.status == constants.RoomStatusActive && !p.Finished {
			r.sendQuestionLocked(p)
		}
		return r.viewLocked(), nil
	}

	switch r.status {
	case constants.RoomStatusWaiting:
	case constants.RoomStatusFinished:
		// Late read of the final state during the grace window.
		return r.viewLocked(), nil
	default:
		return RoomView{}, ErrAlreadyStarted
	}

	if len(r.players) >= constants.MaxPlayersPerRoom {
		return RoomView{}, ErrRoomFull
	}

	p := &models.Player{
		ID:        identity.ID,
		Conn:      conn,
		Name:      identity.Name,
		AvatarURL: identity.AvatarURL,
	}
	r.players = append(r.players, p)

	r.broadcastLocked(EventPlayerJoined, PlayerJoinedPayload{
		Player: playerView(p),
		Room:   r.viewLocked(),
	})
	return r.viewLocked(), nil
}

// Leave removes a participant. Departure from an active game records a
// DNF exactly once; an empty room is disposed immediately.
func (r *Room) Leave(userID string) {
	r.remove(userID, nil)
}

// Disconnect is Leave for a dropped connection. A socket that was already
// replaced by a reconnect no longer owns the player and is ignored.
func (r *Room) Disconnect(userID string, conn models.Sender) {
	r.remove(userID, conn)
}

func (r *Room) remove(userID string, conn models.Sender) {
	r.mu.Lock()

	idx := -1
	for i, p := range r.players {
		if p.ID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.removeSpectatorLocked(userID, conn)
		r.removePendingLocked(userID, conn)
		r.mu.Unlock()
		return
	}

	p := r.players[idx]
	if conn != nil && p.Conn != conn {
		r.mu.Unlock()
		return
	}
	r.players = append(r.players[:idx], r.players[idx+1:]...)

	if r.status == constants.RoomStatusActive && !p.Finished && !r.dnfRecorded[userID] {
		r.dnfRecorded[userID] = true
		result := r.dnfResultLocked(p)
		go r.registry.recorder.RecordDNF(result)
	}

	if len(r.players) == 0 {
		r.stopTimerLocked()
		r.mu.Unlock()
		r.registry.remove(r.Code)
		return
	}

	if r.hostID == userID {
		next := r.players[0]
		r.hostID = next.ID
		log.Printf("Host reassigned: room=%s, host=%s", r.Code, next.ID)
		r.broadcastLocked(EventNewHost, NewHostPayload{HostID: next.ID, Name: next.Name})
	}

	r.broadcastLocked(EventPlayerLeft, PlayerLeftPayload{
		UserID: userID,
		Room:   r.viewLocked(),
	})

	// The departed player may have been the only one still answering.
	if r.status == constants.RoomStatusActive && r.allFinishedLocked() {
		r.finalizeLocked()
	}
	r.mu.Unlock()
}

// Spectate registers a view-only participant. Spectators receive every
// room broadcast but never appear on the leaderboard.
func (r *Room) Spectate(identity models.Identity, conn models.Sender) RoomView {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.spectators {
		if s.ID == identity.ID {
			s.Conn = conn
			return r.viewLocked()
		}
	}
	r.spectators = append(r.spectators, &models.Spectator{
		ID:        identity.ID,
		Conn:      conn,
		Name:      identity.Name,
		AvatarURL: identity.AvatarURL,
	})
	return r.viewLocked()
}

// RequestJoin queues a join attempt for host approval. Duplicate requests
// by the same identity collapse to a connection update.
func (r *Room) RequestJoin(identity models.Identity, conn models.Sender) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findPlayerLocked(identity.ID) != nil {
		return nil
	}
	if r.status != constants.RoomStatusWaiting {
		return ErrAlreadyStarted
	}

	for _, req := range r.pending {
		if req.ID == identity.ID {
			req.Conn = conn
			return nil
		}
	}
	req := &models.JoinRequest{
		ID:        identity.ID,
		Conn:      conn,
		Name:      identity.Name,
		AvatarURL: identity.AvatarURL,
	}
	r.pending = append(r.pending, req)

	if host := r.findPlayerLocked(r.hostID); host != nil {
		host.Conn.SendEvent(EventJoinRequest, JoinRequestPayload{
			Requester: PlayerView{ID: req.ID, Name: req.Name, AvatarURL: req.AvatarURL},
		})
	}
	return nil
}

// ApproveJoin moves a pending request into the roster. Host only.
func (r *Room) ApproveJoin(callerID, requesterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if callerID != r.hostID {
		return ErrNotHost
	}
	req := r.takePendingLocked(requesterID)
	if req == nil {
		return ErrRoomNotFound
	}
	if len(r.players) >= constants.MaxPlayersPerRoom {
		return ErrRoomFull
	}

	p := &models.Player{
		ID:        req.ID,
		Conn:      req.Conn,
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	}
	r.players = append(r.players, p)

	req.Conn.SendEvent(EventJoinApproved, r.viewLocked())
	r.broadcastLocked(EventPlayerJoined, PlayerJoinedPayload{
		Player: playerView(p),
		Room:   r.viewLocked(),
	})
	return nil
}

// DenyJoin drops a pending request and tells the requester why. Host only.
func (r *Room) DenyJoin(callerID, requesterID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if callerID != r.hostID {
		return ErrNotHost
	}
	req := r.takePendingLocked(requesterID)
	if req == nil {
		return ErrRoomNotFound
	}
	if reason == "" {
		reason = "The host declined your request"
	}
	req.Conn.SendEvent(EventJoinDenied, JoinDeniedPayload{Reason: reason})
	return nil
}

// UpdateSettings applies host configuration while the room is waiting.
// Numeric fields are clamped to platform maxima rather than rejected.
func (r *Room) UpdateSettings(callerID string, s models.RoomSettings) (RoomView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if callerID != r.hostID {
		return RoomView{}, ErrNotHost
	}
	if r.status != constants.RoomStatusWaiting {
		return RoomView{}, ErrBadState
	}

	if s.TotalQuestions < 1 {
		s.TotalQuestions = 1
	}
	if s.TotalQuestions > constants.MaxQuestions {
		s.TotalQuestions = constants.MaxQuestions
	}
	if s.TimerDuration < 1 {
		s.TimerDuration = 1
	}
	if s.TimerDuration > constants.MaxTimerSeconds {
		s.TimerDuration = constants.MaxTimerSeconds
	}
	r.settings = s

	r.broadcastLocked(EventSettingsUpdated, r.viewLocked())
	return r.viewLocked(), nil
}

func (r *Room) View() RoomView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewLocked()
}

func (r *Room) Status() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Room) findPlayerLocked(id string) *models.Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// conn == nil removes unconditionally; otherwise only the connection
// that still owns the entry may remove it.
func (r *Room) removeSpectatorLocked(id string, conn models.Sender) {
	for i, s := range r.spectators {
		if s.ID == id && (conn == nil || s.Conn == conn) {
			r.spectators = append(r.spectators[:i], r.spectators[i+1:]...)
			return
		}
	}
}

func (r *Room) removePendingLocked(id string, conn models.Sender) {
	for i, req := range r.pending {
		if req.ID == id && (conn == nil || req.Conn == conn) {
			r.pending = append(r.pending[:i], r.pending[i+1:]...)
			return
		}
	}
}

func (r *Room) takePendingLocked(id string) *models.JoinRequest {
	for i, req := range r.pending {
		if req.ID == id {
			r.pending = append(r.pending[:i], r.pending[i+1:]...)
			return req
		}
	}
	return nil
}

func (r *Room) allFinishedLocked() bool {
	for _, p := range r.players {
		if !p.Finished {
			return false
		}
	}
	return len(r.players) > 0
}

// broadcastLocked fans an event out to players and spectators. Senders
// are buffered and never block, so holding the lock here is safe.
func (r *Room) broadcastLocked(event string, payload any) {
	for _, p := range r.players {
		p.Conn.SendEvent(event, payload)
	}
	for _, s := range r.spectators {
		s.Conn.SendEvent(event, payload)
	}
}

// leaderboardLocked sorts descending by score; the sort is stable so ties
// keep their roster order.
func (r *Room) leaderboardLocked() []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(r.players))
	for _, p := range r.players {
		entries = append(entries, models.LeaderboardEntry{
			UserID:         p.ID,
			Name:           p.Name,
			AvatarURL:      p.AvatarURL,
			Score:          p.Score,
			CorrectAnswers: p.CorrectAnswers,
			Finished:       p.Finished,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func (r *Room) viewLocked() RoomView {
	view := RoomView{
		Code:       r.Code,
		HostID:     r.hostID,
		Status:     r.status,
		Settings:   r.settings,
		Spectators: len(r.spectators),
		Players:    make([]PlayerView, 0, len(r.players)),
		Pending:    make([]PlayerView, 0, len(r.pending)),
	}
	for _, p := range r.players {
		view.Players = append(view.Players, playerView(p))
	}
	for _, req := range r.pending {
		view.Pending = append(view.Pending, PlayerView{ID: req.ID, Name: req.Name, AvatarURL: req.AvatarURL})
	}
	return view
}

func playerView(p *models.Player) PlayerView {
	return PlayerView{
		ID:        p.ID,
		Name:      p.Name,
		AvatarURL: p.AvatarURL,
		Score:     p.Score,
		Finished:  p.Finished,
	}
}

func (r *Room) dnfResultLocked(p *models.Player) models.GameResult {
	return models.GameResult{
		UserID:         p.ID,
		RoomCode:       r.Code,
		Username:       p.Name,
		AvatarURL:      p.AvatarURL,
		Score:          p.Score,
		CorrectAnswers: p.CorrectAnswers,
		TotalQuestions: len(r.questions),
		DNF:            true,
		CompletedAt:    time.Now(),
	}
}
