package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type RoomType string

const (
	RoomTypeRTMP   RoomType = "rtmp"
	RoomTypeWebRTC RoomType = "webrtc"
)

func (t RoomType) Valid() bool {
	return t == RoomTypeRTMP || t == RoomTypeWebRTC
}

// Room is a persisted room record. The stream key is unique and correlates
// the room with live SRS streams. IdleSince is nil while the room is known
// active; the cleanup job is the only writer of idle transitions.
type Room struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	StreamKey string     `json:"stream_key" db:"stream_key"`
	RoomType  RoomType   `json:"room_type" db:"room_type"`
	RoomURL   string     `json:"room_url" db:"room_url"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	IdleSince *time.Time `json:"idle_since,omitempty" db:"idle_since"`
}

// NewRoom builds a room with a generated stream key and the unified
// /room/{stream_key} URL shared by both room types.
func NewRoom(roomType RoomType) *Room {
	streamKey := uuid.NewString()

	return &Room{
		ID:        uuid.New(),
		Name:      fmt.Sprintf("%s Room %s", strings.ToUpper(string(roomType)), streamKey[:8]),
		StreamKey: streamKey,
		RoomType:  roomType,
		RoomURL:   "/room/" + streamKey,
		CreatedAt: time.Now(),
	}
}
