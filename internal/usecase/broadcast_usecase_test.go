package usecase

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelcast/backend/internal/domain/events"
	"github.com/pixelcast/backend/internal/domain/models"
)

// recordingSink captures every frame and can be switched to failing mode.
type recordingSink struct {
	frames [][]byte
	fail   bool

	mu sync.Mutex
}

func (s *recordingSink) Send(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		return errors.New("connection closed")
	}

	s.frames = append(s.frames, frame)

	return nil
}

func (s *recordingSink) events(t *testing.T) []events.Event {
	t.Helper()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]events.Event, 0, len(s.frames))
	for _, frame := range s.frames {
		var ev events.Event
		require.NoError(t, json.Unmarshal(frame, &ev))
		out = append(out, ev)
	}

	return out
}

func (s *recordingSink) setFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fail = fail
}

func TestBroadcastUsecase_SubscribeSendsConnected(t *testing.T) {
	hub := NewBroadcastUsecase(time.Minute)
	sink := &recordingSink{}

	sub, err := hub.Subscribe("live", sink)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "live", sub.Room)

	evs := sink.events(t)
	require.Len(t, evs, 1)
	assert.Equal(t, events.TypeConnected, evs[0].Type)
	assert.Equal(t, "live", evs[0].RoomName)
	assert.Equal(t, sub.ID, evs[0].ClientID)
}

func TestBroadcastUsecase_LateSubscriberGetsCurrentStreams(t *testing.T) {
	hub := NewBroadcastUsecase(time.Minute)

	streams := []models.StreamSnapshot{snapshot("live", "alice", 2, true)}
	hub.Publish("live", events.NewStreamsUpdate("live", streams))

	sink := &recordingSink{}
	_, err := hub.Subscribe("live", sink)
	require.NoError(t, err)

	evs := sink.events(t)
	require.Len(t, evs, 2)
	assert.Equal(t, events.TypeConnected, evs[0].Type)
	assert.Equal(t, events.TypeStreamsUpdate, evs[1].Type)
	require.NotNil(t, evs[1].Streams)
	require.Len(t, *evs[1].Streams, 1)
	assert.Equal(t, "alice", (*evs[1].Streams)[0].Name)
}

func TestBroadcastUsecase_SubscribeFailsOnDeadSink(t *testing.T) {
	hub := NewBroadcastUsecase(time.Minute)
	sink := &recordingSink{fail: true}

	sub, err := hub.Subscribe("live", sink)
	require.Error(t, err)
	assert.Nil(t, sub)
}

func TestBroadcastUsecase_PublishIsolatesRooms(t *testing.T) {
	hub := NewBroadcastUsecase(time.Minute)

	liveSink := &recordingSink{}
	otherSink := &recordingSink{}

	_, err := hub.Subscribe("live", liveSink)
	require.NoError(t, err)
	_, err = hub.Subscribe("other", otherSink)
	require.NoError(t, err)

	hub.Publish("live", events.NewStreamsUpdate("live", []models.StreamSnapshot{
		snapshot("live", "alice", 0, true),
	}))

	assert.Len(t, liveSink.events(t), 2)
	assert.Len(t, otherSink.events(t), 1) // connected only
}

func TestBroadcastUsecase_FailedWriteDropsSubscriber(t *testing.T) {
	hub := NewBroadcastUsecase(time.Minute)
	sink := &recordingSink{}

	_, err := hub.Subscribe("live", sink)
	require.NoError(t, err)

	sink.setFail(true)
	hub.Publish("live", events.NewStreamsUpdate("live", nil))

	// Subscriber was removed; nothing new arrives after recovery.
	sink.setFail(false)
	hub.Publish("live", events.NewStreamsUpdate("live", nil))

	assert.Len(t, sink.events(t), 1)
}

func TestBroadcastUsecase_UnsubscribeIsIdempotent(t *testing.T) {
	hub := NewBroadcastUsecase(time.Minute)
	sink := &recordingSink{}

	sub, err := hub.Subscribe("live", sink)
	require.NoError(t, err)

	hub.Unsubscribe(sub.ID)
	hub.Unsubscribe(sub.ID)
	hub.Unsubscribe("never-existed")

	hub.Publish("live", events.NewStreamsUpdate("live", nil))

	assert.Len(t, sink.events(t), 1)
}

func TestBroadcastUsecase_SweepReapsDeadSinks(t *testing.T) {
	hub := NewBroadcastUsecase(time.Minute).(*broadcastUsecase)

	alive := &recordingSink{}
	dead := &recordingSink{}

	_, err := hub.Subscribe("live", alive)
	require.NoError(t, err)
	_, err = hub.Subscribe("live", dead)
	require.NoError(t, err)

	dead.setFail(true)
	hub.sweep()

	evs := alive.events(t)
	require.Len(t, evs, 2)
	assert.Equal(t, events.TypeHeartbeat, evs[1].Type)

	hub.mu.Lock()
	assert.Len(t, hub.subs, 1)
	hub.mu.Unlock()
}

func TestBroadcastUsecase_EmptyStreamsUpdateKeepsField(t *testing.T) {
	frame, err := json.Marshal(events.NewStreamsUpdate("live", nil))
	require.NoError(t, err)

	assert.Contains(t, string(frame), `"streams":[]`)

	heartbeat, err := json.Marshal(events.NewHeartbeat())
	require.NoError(t, err)

	assert.NotContains(t, string(heartbeat), "streams")
}
