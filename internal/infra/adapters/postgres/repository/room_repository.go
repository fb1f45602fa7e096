package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pixelcast/backend/internal/domain/models"
)

var ErrRoomNotFound = errors.New("room not found")

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	GetByStreamKey(ctx context.Context, streamKey string) (*models.Room, error)
	GetByURL(ctx context.Context, roomURL string) (*models.Room, error)
	GetAll(ctx context.Context) ([]*models.Room, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)

	// UpdateIdleStates applies both idle transitions in one transaction:
	// rooms in idleKeys get idle_since stamped only if it is currently
	// NULL, rooms in activeKeys get it cleared only if it is set. Rooms
	// already in the right state are untouched.
	UpdateIdleStates(ctx context.Context, idleKeys, activeKeys []string) error

	// DeleteIdle removes rooms idle for longer than timeout and returns
	// the deleted rows.
	DeleteIdle(ctx context.Context, timeout time.Duration) ([]*models.Room, error)
}

type roomRepo struct {
	db *sqlx.DB
}

func NewRoomRepo(db *sqlx.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *models.Room) error {
	_, err := r.db.ExecContext(
		ctx,
		"INSERT INTO rooms (id, name, stream_key, room_type, room_url, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		room.ID,
		room.Name,
		room.StreamKey,
		room.RoomType,
		room.RoomURL,
		room.CreatedAt,
	)

	return err
}

func (r *roomRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room

	err := r.db.GetContext(ctx, &room, "SELECT * FROM rooms WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *roomRepo) GetByStreamKey(ctx context.Context, streamKey string) (*models.Room, error) {
	var room models.Room

	err := r.db.GetContext(ctx, &room, "SELECT * FROM rooms WHERE stream_key = $1", streamKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *roomRepo) GetByURL(ctx context.Context, roomURL string) (*models.Room, error) {
	var room models.Room

	err := r.db.GetContext(ctx, &room, "SELECT * FROM rooms WHERE room_url = $1", roomURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *roomRepo) GetAll(ctx context.Context) ([]*models.Room, error) {
	var rooms []*models.Room

	err := r.db.SelectContext(ctx, &rooms, "SELECT * FROM rooms ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}

	return rooms, nil
}

func (r *roomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = $1", id)

	return err
}

func (r *roomRepo) Count(ctx context.Context) (int, error) {
	var count int

	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM rooms")
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *roomRepo) UpdateIdleStates(ctx context.Context, idleKeys, activeKeys []string) error {
	if len(idleKeys) == 0 && len(activeKeys) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now()

	if len(idleKeys) > 0 {
		query, args, err := sqlx.In(
			"UPDATE rooms SET idle_since = ? WHERE stream_key IN (?) AND idle_since IS NULL",
			now,
			idleKeys,
		)
		if err != nil {
			return fmt.Errorf("build idle update: %w", err)
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("mark rooms idle: %w", err)
		}
	}

	if len(activeKeys) > 0 {
		query, args, err := sqlx.In(
			"UPDATE rooms SET idle_since = NULL WHERE stream_key IN (?) AND idle_since IS NOT NULL",
			activeKeys,
		)
		if err != nil {
			return fmt.Errorf("build active update: %w", err)
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("mark rooms active: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit idle states: %w", err)
	}

	return nil
}

func (r *roomRepo) DeleteIdle(ctx context.Context, timeout time.Duration) ([]*models.Room, error) {
	cutoff := time.Now().Add(-timeout)

	var rooms []*models.Room

	err := r.db.SelectContext(
		ctx,
		&rooms,
		"DELETE FROM rooms WHERE idle_since IS NOT NULL AND idle_since < $1 RETURNING *",
		cutoff,
	)
	if err != nil {
		return nil, err
	}

	return rooms, nil
}
