package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelcast/backend/internal/domain/models"
)

func TestRoomUsecase_CreateRoom(t *testing.T) {
	store := newFakeRoomStore(time.Now)
	u := NewRoomUsecase(store)

	room, err := u.CreateRoom(context.Background(), models.RoomTypeRTMP)
	require.NoError(t, err)

	assert.NotEmpty(t, room.StreamKey)
	assert.Equal(t, models.RoomTypeRTMP, room.RoomType)
	assert.Equal(t, "/room/"+room.StreamKey, room.RoomURL)
	assert.Contains(t, store.rooms, room.StreamKey)
}

func TestRoomUsecase_CreateRoomRejectsUnknownType(t *testing.T) {
	u := NewRoomUsecase(newFakeRoomStore(time.Now))

	_, err := u.CreateRoom(context.Background(), models.RoomType("hls"))
	assert.ErrorIs(t, err, ErrInvalidRoomType)
}

func TestRoomUsecase_GetRoomByStreamKeyRequiresKey(t *testing.T) {
	u := NewRoomUsecase(newFakeRoomStore(time.Now))

	_, err := u.GetRoomByStreamKey(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingParameter)
}

func TestRoomUsecase_ValidateRoomURLAcceptsPathAndAbsolute(t *testing.T) {
	store := newFakeRoomStore(time.Now)
	created := store.add("key-1")

	u := NewRoomUsecase(store)

	byPath, err := u.ValidateRoomURL(context.Background(), "/room/key-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPath.ID)

	byAbsolute, err := u.ValidateRoomURL(context.Background(), "https://example.com/room/key-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byAbsolute.ID)
}

func TestRoomUsecase_ValidateRoomURLRequiresURL(t *testing.T) {
	u := NewRoomUsecase(newFakeRoomStore(time.Now))

	_, err := u.ValidateRoomURL(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingParameter)
}
