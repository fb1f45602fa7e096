package events

import "github.com/pixelcast/backend/internal/domain/models"

const (
	TypeConnected     = "connected"
	TypeStreamsUpdate = "streams_update"
	TypeHeartbeat     = "heartbeat"
)

// Event is one frame pushed to subscribers. Streams is a pointer so that a
// streams_update for a room whose streams all ended still serializes as an
// empty array instead of dropping the field.
type Event struct {
	Type     string                   `json:"type"`
	RoomName string                   `json:"roomName,omitempty"`
	Streams  *[]models.StreamSnapshot `json:"streams,omitempty"`
	ClientID string                   `json:"clientId,omitempty"`
}

func NewConnected(roomName, clientID string) Event {
	return Event{
		Type:     TypeConnected,
		RoomName: roomName,
		ClientID: clientID,
	}
}

func NewStreamsUpdate(roomName string, streams []models.StreamSnapshot) Event {
	if streams == nil {
		streams = []models.StreamSnapshot{}
	}

	return Event{
		Type:     TypeStreamsUpdate,
		RoomName: roomName,
		Streams:  &streams,
	}
}

func NewHeartbeat() Event {
	return Event{Type: TypeHeartbeat}
}
