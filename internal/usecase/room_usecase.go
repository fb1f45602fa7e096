package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pixelcast/backend/internal/domain/models"
	"github.com/pixelcast/backend/internal/infra/adapters/postgres/repository"
)

var ErrInvalidRoomType = errors.New("room type must be 'rtmp' or 'webrtc'")

type RoomUsecase interface {
	CreateRoom(ctx context.Context, roomType models.RoomType) (*models.Room, error)
	GetRooms(ctx context.Context) ([]*models.Room, error)
	GetRoomByStreamKey(ctx context.Context, streamKey string) (*models.Room, error)

	// ValidateRoomURL resolves a room by its URL path. Absolute URLs are
	// reduced to their path first.
	ValidateRoomURL(ctx context.Context, roomURL string) (*models.Room, error)
}

type roomUsecase struct {
	roomRepo repository.RoomRepository
}

func NewRoomUsecase(roomRepo repository.RoomRepository) RoomUsecase {
	return &roomUsecase{roomRepo: roomRepo}
}

func (u *roomUsecase) CreateRoom(ctx context.Context, roomType models.RoomType) (*models.Room, error) {
	if !roomType.Valid() {
		return nil, ErrInvalidRoomType
	}

	room := models.NewRoom(roomType)

	if err := u.roomRepo.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	return room, nil
}

func (u *roomUsecase) GetRooms(ctx context.Context) ([]*models.Room, error) {
	return u.roomRepo.GetAll(ctx)
}

func (u *roomUsecase) GetRoomByStreamKey(ctx context.Context, streamKey string) (*models.Room, error) {
	if streamKey == "" {
		return nil, ErrMissingParameter
	}

	return u.roomRepo.GetByStreamKey(ctx, streamKey)
}

func (u *roomUsecase) ValidateRoomURL(ctx context.Context, roomURL string) (*models.Room, error) {
	if roomURL == "" {
		return nil, ErrMissingParameter
	}

	path := roomURL
	if strings.HasPrefix(roomURL, "http") {
		parsed, err := url.Parse(roomURL)
		if err != nil {
			return nil, fmt.Errorf("parse room url: %w", err)
		}
		path = parsed.Path
	}

	return u.roomRepo.GetByURL(ctx, path)
}
