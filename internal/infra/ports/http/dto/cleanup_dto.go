package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/pixelcast/backend/internal/domain/models"
	"github.com/pixelcast/backend/internal/usecase"
)

type CleanupRoomInfo struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	AgeHours  int       `json:"ageHours"`
}

func NewCleanupRoomInfo(room *models.Room) CleanupRoomInfo {
	return CleanupRoomInfo{
		ID:        room.ID,
		Name:      room.Name,
		Type:      string(room.RoomType),
		CreatedAt: room.CreatedAt,
		AgeHours:  int(time.Since(room.CreatedAt).Hours()),
	}
}

type CleanupStatusResponse struct {
	Success          bool                  `json:"success"`
	Cleanup          usecase.CleanupStatus `json:"cleanup"`
	CurrentRoomCount int                   `json:"currentRoomCount"`
	Rooms            []CleanupRoomInfo     `json:"rooms"`
}

type CleanedRoom struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ManualCleanupResponse struct {
	Success        bool          `json:"success"`
	Message        string        `json:"message"`
	CleanedCount   int           `json:"cleanedCount"`
	RemainingRooms int           `json:"remainingRooms"`
	CleanedRooms   []CleanedRoom `json:"cleanedRooms"`
}
