package arena

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"arena-service/internal/constants"
	"arena-service/internal/models"
)

// Registry owns every live room. It is constructed explicitly and injected
// wherever rooms are needed; there is no package-level state.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	rngMu sync.Mutex
	rng   *rand.Rand

	generator Generator
	recorder  *Recorder
}

func NewRegistry(generator Generator, recorder *Recorder) *Registry {
	return &Registry{
		rooms:     make(map[string]*Room),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		generator: generator,
		recorder:  recorder,
	}
}

// Create makes a new room with the creator as sole player and host.
func (reg *Registry) Create(identity models.Identity, conn models.Sender) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	code := reg.newCodeLocked()
	room := newRoom(code, identity, conn, reg)
	reg.rooms[code] = room

	log.Printf("Room created: code=%s, host=%s", code, identity.ID)
	return room
}

func (reg *Registry) Get(code string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[code]
	return room, ok
}

func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

func (reg *Registry) remove(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.rooms[code]; ok {
		delete(reg.rooms, code)
		log.Printf("Room disposed: code=%s", code)
	}
}

// disposeAfter removes a finished room once the grace window has passed,
// leaving time for stragglers to read the final leaderboard.
func (reg *Registry) disposeAfter(code string, d time.Duration) {
	time.AfterFunc(d, func() { reg.remove(code) })
}

// newCodeLocked samples the room-code alphabet until it finds a code not
// held by any live room. Caller must hold reg.mu.
func (reg *Registry) newCodeLocked() string {
	reg.rngMu.Lock()
	defer reg.rngMu.Unlock()

	buf := make([]byte, constants.RoomCodeLength)
	for {
		for i := range buf {
			buf[i] = constants.RoomCodeAlphabet[reg.rng.Intn(len(constants.RoomCodeAlphabet))]
		}
		code := string(buf)
		if _, taken := reg.rooms[code]; !taken {
			return code
		}
	}
}

// perm draws a permutation from the registry's seeded source, used for
// drag_match right-column shuffles.
func (reg *Registry) perm(n int) []int {
	reg.rngMu.Lock()
	defer reg.rngMu.Unlock()
	return reg.rng.Perm(n)
}
