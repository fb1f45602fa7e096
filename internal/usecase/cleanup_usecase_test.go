package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelcast/backend/internal/domain/models"
)

// fakeRoomStore implements the room repository in memory with the same
// idle semantics as the SQL implementation.
type fakeRoomStore struct {
	rooms map[string]*models.Room // by stream key

	getAllErr error
	updateErr error
	deleteErr error

	now func() time.Time
}

func newFakeRoomStore(now func() time.Time) *fakeRoomStore {
	return &fakeRoomStore{
		rooms: make(map[string]*models.Room),
		now:   now,
	}
}

func (f *fakeRoomStore) add(streamKey string) *models.Room {
	room := &models.Room{
		ID:        uuid.New(),
		Name:      "Room " + streamKey,
		StreamKey: streamKey,
		RoomType:  models.RoomTypeRTMP,
		RoomURL:   "/room/" + streamKey,
		CreatedAt: f.now(),
	}
	f.rooms[streamKey] = room

	return room
}

func (f *fakeRoomStore) Create(_ context.Context, room *models.Room) error {
	f.rooms[room.StreamKey] = room
	return nil
}

func (f *fakeRoomStore) GetByID(_ context.Context, id uuid.UUID) (*models.Room, error) {
	for _, room := range f.rooms {
		if room.ID == id {
			return room, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeRoomStore) GetByStreamKey(_ context.Context, streamKey string) (*models.Room, error) {
	room, ok := f.rooms[streamKey]
	if !ok {
		return nil, errors.New("not found")
	}
	return room, nil
}

func (f *fakeRoomStore) GetByURL(_ context.Context, roomURL string) (*models.Room, error) {
	for _, room := range f.rooms {
		if room.RoomURL == roomURL {
			return room, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeRoomStore) GetAll(_ context.Context) ([]*models.Room, error) {
	if f.getAllErr != nil {
		return nil, f.getAllErr
	}

	out := make([]*models.Room, 0, len(f.rooms))
	for _, room := range f.rooms {
		out = append(out, room)
	}
	return out, nil
}

func (f *fakeRoomStore) Delete(_ context.Context, id uuid.UUID) error {
	for key, room := range f.rooms {
		if room.ID == id {
			delete(f.rooms, key)
			return nil
		}
	}
	return nil
}

func (f *fakeRoomStore) Count(_ context.Context) (int, error) {
	return len(f.rooms), nil
}

func (f *fakeRoomStore) UpdateIdleStates(_ context.Context, idleKeys, activeKeys []string) error {
	if f.updateErr != nil {
		return f.updateErr
	}

	now := f.now()

	for _, key := range idleKeys {
		room, ok := f.rooms[key]
		if ok && room.IdleSince == nil {
			stamped := now
			room.IdleSince = &stamped
		}
	}

	for _, key := range activeKeys {
		room, ok := f.rooms[key]
		if ok && room.IdleSince != nil {
			room.IdleSince = nil
		}
	}

	return nil
}

func (f *fakeRoomStore) DeleteIdle(_ context.Context, timeout time.Duration) ([]*models.Room, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}

	cutoff := f.now().Add(-timeout)

	var deleted []*models.Room
	for key, room := range f.rooms {
		if room.IdleSince != nil && room.IdleSince.Before(cutoff) {
			deleted = append(deleted, room)
			delete(f.rooms, key)
		}
	}

	return deleted, nil
}

type staticFetcher struct {
	streams []models.StreamSnapshot
}

func (s *staticFetcher) FetchStreams(context.Context) []models.StreamSnapshot {
	return s.streams
}

func newTestCleanup(store *fakeRoomStore, fetcher StreamFetcher, now func() time.Time) *cleanupUsecase {
	u := NewCleanupUsecase(store, fetcher, time.Minute, 15*time.Minute, 0).(*cleanupUsecase)
	u.now = now

	return u
}

func TestCleanupUsecase_MarksDeadStreamsIdle(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return base }

	store := newFakeRoomStore(now)
	live := store.add("key-live")
	dead := store.add("key-dead")

	fetcher := &staticFetcher{streams: []models.StreamSnapshot{
		{App: "live", Name: "key-live", Clients: 2, Publish: models.PublishState{Active: true}},
	}}

	u := newTestCleanup(store, fetcher, now)
	require.NoError(t, u.reconcile(context.Background()))

	assert.Nil(t, live.IdleSince)
	require.NotNil(t, dead.IdleSince)
	assert.Equal(t, base, *dead.IdleSince)
}

func TestCleanupUsecase_IdleTimestampIsNotBumped(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := base
	now := func() time.Time { return current }

	store := newFakeRoomStore(now)
	room := store.add("key-dead")

	u := newTestCleanup(store, &staticFetcher{}, now)

	require.NoError(t, u.reconcile(context.Background()))
	require.NotNil(t, room.IdleSince)
	first := *room.IdleSince

	// A later cycle sees the same idle room; the original timestamp stays.
	current = base.Add(10 * time.Minute)
	require.NoError(t, u.reconcile(context.Background()))

	require.NotNil(t, room.IdleSince)
	assert.Equal(t, first, *room.IdleSince)
}

func TestCleanupUsecase_ActivityClearsIdle(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return base }

	store := newFakeRoomStore(now)
	room := store.add("key-a")
	idleSince := base.Add(-5 * time.Minute)
	room.IdleSince = &idleSince

	fetcher := &staticFetcher{streams: []models.StreamSnapshot{
		{App: "live", Name: "key-a", Clients: 1, Publish: models.PublishState{Active: true}},
	}}

	u := newTestCleanup(store, fetcher, now)
	require.NoError(t, u.reconcile(context.Background()))

	assert.Nil(t, room.IdleSince)
}

func TestCleanupUsecase_ZeroClientsCountsAsIdle(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return base }

	store := newFakeRoomStore(now)
	room := store.add("key-a")

	// Publisher is live but nobody watches and threshold is 0.
	fetcher := &staticFetcher{streams: []models.StreamSnapshot{
		{App: "live", Name: "key-a", Clients: 0, Publish: models.PublishState{Active: true}},
	}}

	u := newTestCleanup(store, fetcher, now)
	require.NoError(t, u.reconcile(context.Background()))

	assert.NotNil(t, room.IdleSince)
}

func TestCleanupUsecase_ReclaimsOnlyPastTimeout(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return base }

	store := newFakeRoomStore(now)

	recent := store.add("key-recent")
	recentIdle := base.Add(-14 * time.Minute)
	recent.IdleSince = &recentIdle

	expired := store.add("key-expired")
	expiredIdle := base.Add(-15*time.Minute - time.Second)
	expired.IdleSince = &expiredIdle

	u := newTestCleanup(store, &staticFetcher{}, now)
	require.NoError(t, u.reconcile(context.Background()))

	_, ok := store.rooms["key-expired"]
	assert.False(t, ok)

	_, ok = store.rooms["key-recent"]
	assert.True(t, ok)
}

func TestCleanupUsecase_CycleErrorIsRecordedNotFatal(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return base }

	store := newFakeRoomStore(now)
	store.add("key-a")
	store.getAllErr = errors.New("connection refused")

	u := newTestCleanup(store, &staticFetcher{}, now)
	u.runCycle(context.Background())

	status := u.Status()
	require.NotNil(t, status.LastRun)
	assert.Nil(t, status.LastSuccess)
	assert.Contains(t, status.LastError, "connection refused")
}

func TestCleanupUsecase_ManualOnlyDeletes(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return base }

	store := newFakeRoomStore(now)

	kept := store.add("key-live")
	expired := store.add("key-expired")
	expiredIdle := base.Add(-20 * time.Minute)
	expired.IdleSince = &expiredIdle

	u := newTestCleanup(store, &staticFetcher{}, now)

	result, err := u.Manual(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.CleanedCount)
	assert.Equal(t, 1, result.RemainingRooms)
	require.Len(t, result.CleanedRooms, 1)
	assert.Equal(t, "key-expired", result.CleanedRooms[0].StreamKey)

	// Manual never reclassifies: the live room is untouched.
	assert.Nil(t, kept.IdleSince)
}

func TestCleanupUsecase_StatusReportsConfiguration(t *testing.T) {
	store := newFakeRoomStore(time.Now)

	u := newTestCleanup(store, &staticFetcher{}, time.Now)

	status := u.Status()
	assert.False(t, status.Running)
	assert.Equal(t, 1.0, status.IntervalMinutes)
	assert.Equal(t, 15.0, status.IdleTimeoutMinutes)
}
