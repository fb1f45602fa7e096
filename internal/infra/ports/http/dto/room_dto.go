package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/pixelcast/backend/internal/domain/models"
)

type CreateRoomRequest struct {
	Type string `json:"type"`
}

type RoomResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	StreamKey string    `json:"streamKey"`
	Type      string    `json:"type"`
	RoomURL   string    `json:"roomUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewRoomResponseFromModel prefixes the stored relative room URL with the
// frontend base URL.
func NewRoomResponseFromModel(room *models.Room, frontendBaseURL string) RoomResponse {
	return RoomResponse{
		ID:        room.ID,
		Name:      room.Name,
		StreamKey: room.StreamKey,
		Type:      string(room.RoomType),
		RoomURL:   frontendBaseURL + room.RoomURL,
		CreatedAt: room.CreatedAt,
	}
}

type CreateRoomResponse struct {
	Success bool         `json:"success"`
	Room    RoomResponse `json:"room"`
}

type ListRoomsResponse struct {
	Success bool           `json:"success"`
	Rooms   []RoomResponse `json:"rooms"`
}

type GetRoomResponse struct {
	Success bool         `json:"success"`
	Room    RoomResponse `json:"room"`
}

type ValidateRoomResponse struct {
	Success bool          `json:"success"`
	Exists  bool          `json:"exists"`
	Room    *RoomResponse `json:"room,omitempty"`
	Error   string        `json:"error,omitempty"`
}
