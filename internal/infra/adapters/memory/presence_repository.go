package memory

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pixelcast/backend/internal/application/constant"
)

// PresenceRepository tracks which identities are present in which rooms.
// Entries live only in memory; absence from the map means "not present".
type PresenceRepository interface {
	Join(room, identity string)
	Leave(room, identity string)

	// ListActive evicts every entry (in all rooms) not refreshed within
	// the TTL, then returns the remaining participants of room.
	ListActive(room string) []string
}

type presenceRepository struct {
	// rooms хранит map[room]map[identity]last_seen
	rooms map[string]map[string]time.Time
	ttl   time.Duration
	now   func() time.Time

	mu sync.Mutex
}

func NewPresenceRepository(ttl time.Duration) PresenceRepository {
	return &presenceRepository{
		rooms: make(map[string]map[string]time.Time),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (r *presenceRepository) Join(room, identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room]; !ok {
		r.rooms[room] = make(map[string]time.Time)
	}

	r.rooms[room][identity] = r.now()
}

func (r *presenceRepository) Leave(room, identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	participants, ok := r.rooms[room]
	if !ok {
		return
	}

	delete(participants, identity)

	if len(participants) == 0 {
		delete(r.rooms, room)
	}
}

func (r *presenceRepository) ListActive(room string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictStale()

	participants := make([]string, 0, len(r.rooms[room]))
	for identity := range r.rooms[room] {
		participants = append(participants, identity)
	}

	return participants
}

func (r *presenceRepository) evictStale() {
	cutoff := r.now().Add(-r.ttl)

	for room, participants := range r.rooms {
		for identity, lastSeen := range participants {
			if lastSeen.Before(cutoff) {
				delete(participants, identity)

				slog.Debug(
					"evicted stale participant",
					slog.String(constant.Identity, identity),
					slog.String(constant.RoomName, room),
				)
			}
		}

		if len(participants) == 0 {
			delete(r.rooms, room)
		}
	}
}
