package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/pixelcast/backend/internal/application/constant"
	"github.com/pixelcast/backend/internal/application/metric"
	"github.com/pixelcast/backend/internal/domain/events"
	"github.com/pixelcast/backend/internal/domain/models"
)

// StreamFetcher reads the current stream state from the media server.
// Implementations degrade to an empty result on upstream failure.
type StreamFetcher interface {
	FetchStreams(ctx context.Context) []models.StreamSnapshot
}

// PollerUsecase drives the poll-diff-broadcast cycle: it periodically asks
// SRS for the live stream set, lets the differ reduce it to actual changes
// and publishes one streams_update per changed room.
type PollerUsecase struct {
	fetcher  StreamFetcher
	differ   *StateDiffer
	hub      BroadcastUsecase
	interval time.Duration
}

func NewPollerUsecase(
	fetcher StreamFetcher,
	differ *StateDiffer,
	hub BroadcastUsecase,
	interval time.Duration,
) *PollerUsecase {
	return &PollerUsecase{
		fetcher:  fetcher,
		differ:   differ,
		hub:      hub,
		interval: interval,
	}
}

// Run polls once immediately, then on every tick until ctx is cancelled.
func (p *PollerUsecase) Run(ctx context.Context) {
	p.pollOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

func (p *PollerUsecase) pollOnce(ctx context.Context) {
	metric.IncrementPollCycles()

	snapshots := p.fetcher.FetchStreams(ctx)

	deltas := p.differ.Diff(snapshots)
	if len(deltas) == 0 {
		return
	}

	metric.AddStreamDeltas(len(deltas))

	byRoom := make(map[string][]models.StreamSnapshot)
	for _, s := range snapshots {
		byRoom[s.App] = append(byRoom[s.App], s)
	}

	changedRooms := make(map[string]struct{}, len(deltas))
	for _, d := range deltas {
		changedRooms[d.Room] = struct{}{}
	}

	for room := range changedRooms {
		// byRoom[room] is nil when the room's last stream ended; the
		// update then carries an empty list.
		p.hub.Publish(room, events.NewStreamsUpdate(room, byRoom[room]))

		slog.Debug("broadcast stream update", slog.String(constant.RoomName, room))
	}
}
