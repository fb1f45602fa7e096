package constant

// Shared slog attribute keys.
const (
	Error          = "error"
	RoomName       = "room_name"
	StreamKey      = "stream_key"
	StreamName     = "stream_name"
	ClientID       = "client_id"
	SubscriptionID = "subscription_id"
	Identity       = "identity"
)
