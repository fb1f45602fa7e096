package dto

import "github.com/pion/webrtc/v4"

// TokenResponse describes everything a client needs to enter a room:
// signalling endpoints, the HLS playback URL and ICE servers.
type TokenResponse struct {
	RoomName   string             `json:"roomName"`
	Identity   string             `json:"identity"`
	Name       string             `json:"name"`
	StreamKey  string             `json:"streamKey"`
	Timestamp  string             `json:"timestamp"`
	WhipURL    string             `json:"whipUrl"`
	WhepURL    string             `json:"whepUrl"`
	HlsURL     string             `json:"hlsUrl"`
	IceServers []webrtc.ICEServer `json:"iceServers"`
}
