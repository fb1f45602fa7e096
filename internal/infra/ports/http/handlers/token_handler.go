package handlers

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pion/webrtc/v4"

	"github.com/pixelcast/backend/internal/application/config"
	"github.com/pixelcast/backend/internal/infra/ports/http/dto"
)

type TokenHandler struct {
	cfg *config.Config
}

func NewTokenHandler(cfg *config.Config) *TokenHandler {
	return &TokenHandler{cfg: cfg}
}

// Generate issues a room access descriptor. Missing room or identity
// parameters are filled with generated guest values.
func (h *TokenHandler) Generate(c echo.Context) error {
	roomName := c.QueryParam("roomName")
	if roomName == "" {
		roomName = uuid.NewString()
	}

	identity := c.QueryParam("identity")
	if identity == "" {
		identity = "Guest-" + uuid.NewString()[:8]
	}

	name := c.QueryParam("name")
	if name == "" {
		name = "Guest"
	}

	query := url.Values{"app": {roomName}, "stream": {identity}}.Encode()

	return c.JSON(http.StatusOK, dto.TokenResponse{
		RoomName:   roomName,
		Identity:   identity,
		Name:       name,
		StreamKey:  roomName + "/" + identity,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		WhipURL:    "/api/srs-proxy/whip?" + query,
		WhepURL:    "/api/srs-proxy/whep?" + query,
		HlsURL:     fmt.Sprintf("%s/%s/%s.m3u8", h.cfg.SRS.HTTPURL(), roomName, identity),
		IceServers: h.iceServers(),
	})
}

// iceServers returns the configured STUN servers plus, when coturn is
// configured, ephemeral TURN credentials derived from the shared secret
// (coturn static-auth-secret scheme: username = expiry unix time,
// password = base64(HMAC-SHA1(secret, username))).
func (h *TokenHandler) iceServers() []webrtc.ICEServer {
	servers := append([]webrtc.ICEServer{}, h.cfg.StunServers...)

	if h.cfg.Coturn.Host == "" {
		return servers
	}

	username := fmt.Sprintf("%d", time.Now().Add(time.Hour).Unix())

	mac := hmac.New(sha1.New, []byte(h.cfg.Coturn.Secret))
	mac.Write([]byte(username))
	password := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	servers = append(servers, webrtc.ICEServer{
		URLs: []string{
			fmt.Sprintf("turn:%s?transport=udp", h.cfg.Coturn.Host),
			fmt.Sprintf("turn:%s?transport=tcp", h.cfg.Coturn.Host),
		},
		Username:   username,
		Credential: password,
	})

	return servers
}
