package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pixelcast/backend/internal/application/constant"
	"github.com/pixelcast/backend/internal/application/metric"
	"github.com/pixelcast/backend/internal/domain/models"
	"github.com/pixelcast/backend/internal/infra/adapters/postgres/repository"
)

// CleanupStatus is the observable state of the cleanup scheduler.
type CleanupStatus struct {
	Running            bool       `json:"running"`
	IntervalMinutes    float64    `json:"intervalMinutes"`
	IdleTimeoutMinutes float64    `json:"idleTimeoutMinutes"`
	LastRun            *time.Time `json:"lastRun"`
	LastSuccess        *time.Time `json:"lastSuccess"`
	LastError          string     `json:"lastError,omitempty"`
}

// ManualCleanupResult reports one operator-triggered reclamation pass.
type ManualCleanupResult struct {
	CleanedCount   int
	RemainingRooms int
	CleanedRooms   []*models.Room
}

type CleanupUsecase interface {
	// Run executes one cycle immediately, then on every tick until ctx
	// is cancelled. Cycle errors are recorded, never propagated.
	Run(ctx context.Context)

	// Manual performs only the delete pass plus a fresh room count,
	// without reclassifying idle state.
	Manual(ctx context.Context) (*ManualCleanupResult, error)

	Status() CleanupStatus
}

type cleanupUsecase struct {
	rooms   repository.RoomRepository
	fetcher StreamFetcher

	interval        time.Duration
	idleTimeout     time.Duration
	clientThreshold int

	running     bool
	lastRun     *time.Time
	lastSuccess *time.Time
	lastError   string
	now         func() time.Time

	mu sync.Mutex
}

func NewCleanupUsecase(
	rooms repository.RoomRepository,
	fetcher StreamFetcher,
	interval time.Duration,
	idleTimeout time.Duration,
	clientThreshold int,
) CleanupUsecase {
	return &cleanupUsecase{
		rooms:           rooms,
		fetcher:         fetcher,
		interval:        interval,
		idleTimeout:     idleTimeout,
		clientThreshold: clientThreshold,
		now:             time.Now,
	}
}

func (u *cleanupUsecase) Run(ctx context.Context) {
	u.setRunning(true)
	defer u.setRunning(false)

	slog.Info("cleanup scheduler started", slog.Duration("interval", u.interval))

	u.runCycle(ctx)

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("cleanup scheduler stopped")
			return
		case <-ticker.C:
			u.runCycle(ctx)
		}
	}
}

func (u *cleanupUsecase) runCycle(ctx context.Context) {
	started := u.now()

	u.mu.Lock()
	u.lastRun = &started
	u.mu.Unlock()

	if err := u.reconcile(ctx); err != nil {
		slog.Error("cleanup cycle failed", slog.Any(constant.Error, err))

		u.mu.Lock()
		u.lastError = err.Error()
		u.mu.Unlock()

		return
	}

	finished := u.now()

	u.mu.Lock()
	u.lastSuccess = &finished
	u.mu.Unlock()
}

// reconcile reclassifies every room as active or idle against the current
// SRS snapshot, then reclaims rooms idle past the timeout.
func (u *cleanupUsecase) reconcile(ctx context.Context) error {
	allRooms, err := u.rooms.GetAll(ctx)
	if err != nil {
		return err
	}

	if len(allRooms) == 0 {
		slog.Debug("no rooms to check")
		return nil
	}

	streams := u.fetcher.FetchStreams(ctx)

	byName := make(map[string]models.StreamSnapshot, len(streams))
	for _, s := range streams {
		byName[s.Name] = s
	}

	var idleKeys, activeKeys []string

	for _, room := range allRooms {
		stream, live := byName[room.StreamKey]
		if !live || stream.Clients <= u.clientThreshold {
			idleKeys = append(idleKeys, room.StreamKey)
		} else {
			activeKeys = append(activeKeys, room.StreamKey)
		}
	}

	if err := u.rooms.UpdateIdleStates(ctx, idleKeys, activeKeys); err != nil {
		return err
	}

	slog.Info(
		"room idle states updated",
		slog.Int("idle", len(idleKeys)),
		slog.Int("active", len(activeKeys)),
	)

	cleaned, err := u.rooms.DeleteIdle(ctx, u.idleTimeout)
	if err != nil {
		return err
	}

	if len(cleaned) > 0 {
		metric.AddRoomsCleaned(len(cleaned))

		for _, room := range cleaned {
			slog.Info(
				"idle room reclaimed",
				slog.String(constant.RoomName, room.Name),
				slog.String(constant.StreamKey, room.StreamKey),
			)
		}
	}

	return nil
}

func (u *cleanupUsecase) Manual(ctx context.Context) (*ManualCleanupResult, error) {
	slog.Info("manual cleanup triggered")

	cleaned, err := u.rooms.DeleteIdle(ctx, u.idleTimeout)
	if err != nil {
		return nil, err
	}

	remaining, err := u.rooms.Count(ctx)
	if err != nil {
		return nil, err
	}

	if len(cleaned) > 0 {
		metric.AddRoomsCleaned(len(cleaned))
	}

	return &ManualCleanupResult{
		CleanedCount:   len(cleaned),
		RemainingRooms: remaining,
		CleanedRooms:   cleaned,
	}, nil
}

func (u *cleanupUsecase) Status() CleanupStatus {
	u.mu.Lock()
	defer u.mu.Unlock()

	return CleanupStatus{
		Running:            u.running,
		IntervalMinutes:    u.interval.Minutes(),
		IdleTimeoutMinutes: u.idleTimeout.Minutes(),
		LastRun:            u.lastRun,
		LastSuccess:        u.lastSuccess,
		LastError:          u.lastError,
	}
}

func (u *cleanupUsecase) setRunning(running bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.running = running
}
