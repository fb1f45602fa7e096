package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pixelcast/backend/internal/application/constant"
	"github.com/pixelcast/backend/internal/application/metric"
	"github.com/pixelcast/backend/internal/domain/events"
	"github.com/pixelcast/backend/internal/domain/models"
)

// Sink accepts one serialized event frame or fails. Transport specifics
// (SSE framing, WebSocket message types) live behind this interface so the
// hub never sees them.
type Sink interface {
	Send(frame []byte) error
}

// Subscription is one open push channel belonging to a room.
type Subscription struct {
	ID   string
	Room string
	sink Sink
}

type BroadcastUsecase interface {
	Subscribe(room string, sink Sink) (*Subscription, error)
	Unsubscribe(id string)
	Publish(room string, event events.Event)

	// Run sweeps all sinks with a heartbeat frame on a fixed cadence
	// until ctx is cancelled. Connection death is not always observable
	// synchronously; the sweep is what reaps silently dead sinks.
	Run(ctx context.Context)
}

type broadcastUsecase struct {
	subs  map[string]*Subscription            // by subscription id
	rooms map[string]map[string]*Subscription // room -> id -> subscription

	// current holds the last streams_update payload per room so late
	// subscribers are not blind to state established before they joined.
	current map[string][]models.StreamSnapshot

	heartbeatInterval time.Duration

	mu sync.Mutex
}

func NewBroadcastUsecase(heartbeatInterval time.Duration) BroadcastUsecase {
	return &broadcastUsecase{
		subs:              make(map[string]*Subscription),
		rooms:             make(map[string]map[string]*Subscription),
		current:           make(map[string][]models.StreamSnapshot),
		heartbeatInterval: heartbeatInterval,
	}
}

func (b *broadcastUsecase) Subscribe(room string, sink Sink) (*Subscription, error) {
	sub := &Subscription{
		ID:   fmt.Sprintf("%s-%d-%s", room, time.Now().UnixMilli(), uuid.NewString()[:8]),
		Room: room,
		sink: sink,
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := send(sink, events.NewConnected(room, sub.ID)); err != nil {
		return nil, fmt.Errorf("send connected event: %w", err)
	}

	if streams, ok := b.current[room]; ok && len(streams) > 0 {
		if err := send(sink, events.NewStreamsUpdate(room, streams)); err != nil {
			return nil, fmt.Errorf("send current streams: %w", err)
		}
	}

	b.subs[sub.ID] = sub

	if _, ok := b.rooms[room]; !ok {
		b.rooms[room] = make(map[string]*Subscription)
	}
	b.rooms[room][sub.ID] = sub

	metric.IncrementActiveSubscriptions()

	slog.Info(
		"push subscriber connected",
		slog.String(constant.SubscriptionID, sub.ID),
		slog.String(constant.RoomName, room),
	)

	return sub, nil
}

func (b *broadcastUsecase) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.removeLocked(id)
}

func (b *broadcastUsecase) Publish(room string, event events.Event) {
	frame, err := json.Marshal(event)
	if err != nil {
		slog.Error("marshal event", slog.Any(constant.Error, err))
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if event.Type == events.TypeStreamsUpdate && event.Streams != nil {
		b.current[room] = *event.Streams
	}

	for id, sub := range b.rooms[room] {
		if err := sub.sink.Send(frame); err != nil {
			slog.Warn(
				"push write failed, dropping subscriber",
				slog.String(constant.SubscriptionID, id),
				slog.Any(constant.Error, err),
			)
			b.removeLocked(id)
		}
	}
}

func (b *broadcastUsecase) Run(ctx context.Context) {
	ticker := time.NewTicker(b.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.sweep()
		}
	}
}

func (b *broadcastUsecase) sweep() {
	frame, err := json.Marshal(events.NewHeartbeat())
	if err != nil {
		slog.Error("marshal heartbeat", slog.Any(constant.Error, err))
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subs {
		if err := sub.sink.Send(frame); err != nil {
			slog.Info(
				"removing dead push subscriber",
				slog.String(constant.SubscriptionID, id),
			)
			b.removeLocked(id)
		}
	}
}

// removeLocked deletes a subscription from both indexes. Callers hold b.mu.
// Removing an unknown id is a no-op, which makes Unsubscribe idempotent.
func (b *broadcastUsecase) removeLocked(id string) {
	sub, ok := b.subs[id]
	if !ok {
		return
	}

	delete(b.subs, id)
	delete(b.rooms[sub.Room], id)

	if len(b.rooms[sub.Room]) == 0 {
		delete(b.rooms, sub.Room)
	}

	metric.DecrementActiveSubscriptions()
}

func send(sink Sink, event events.Event) error {
	frame, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return sink.Send(frame)
}
