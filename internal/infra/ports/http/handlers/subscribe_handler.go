package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/pixelcast/backend/internal/application/constant"
	"github.com/pixelcast/backend/internal/usecase"
)

// SubscribeHandler opens long-lived push connections and registers them
// with the broadcast hub. Two transports carry the same event frames:
// server-sent events and WebSocket.
type SubscribeHandler struct {
	hub      usecase.BroadcastUsecase
	upgrader *websocket.Upgrader
}

func NewSubscribeHandler(hub usecase.BroadcastUsecase) *SubscribeHandler {
	return &SubscribeHandler{
		hub: hub,
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// CORS is enforced by middleware; the hub itself is
				// origin-agnostic.
				return true
			},
		},
	}
}

// sseSink frames events as `data: <json>\n\n` and flushes after every
// write. A failed write means the connection is gone.
type sseSink struct {
	resp *echo.Response

	mu sync.Mutex
}

func (s *sseSink) Send(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.resp, "data: %s\n\n", frame); err != nil {
		return err
	}

	s.resp.Flush()

	return nil
}

func (h *SubscribeHandler) SSE(c echo.Context) error {
	room := c.QueryParam("room")
	if room == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "room name is required"})
	}

	header := c.Response().Header()
	header.Set(echo.HeaderContentType, "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	sub, err := h.hub.Subscribe(room, &sseSink{resp: c.Response()})
	if err != nil {
		slog.Error("SSE subscribe", slog.Any(constant.Error, err))
		return nil
	}
	defer h.hub.Unsubscribe(sub.ID)

	// Block until the client goes away; all writes happen on hub
	// goroutines through the sink.
	<-c.Request().Context().Done()

	slog.Info(
		"SSE subscriber disconnected",
		slog.String(constant.SubscriptionID, sub.ID),
		slog.String(constant.RoomName, room),
	)

	return nil
}

// wsSink serializes concurrent hub writes onto one WebSocket connection.
type wsSink struct {
	conn *websocket.Conn

	mu sync.Mutex
}

func (s *wsSink) Send(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.conn.WriteMessage(websocket.TextMessage, frame)
}

func (h *SubscribeHandler) WS(c echo.Context) error {
	room := c.QueryParam("room")
	if room == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "room name is required"})
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error("WebSocket upgrade error", slog.Any(constant.Error, err))
		return err
	}
	defer conn.Close()

	sub, err := h.hub.Subscribe(room, &wsSink{conn: conn})
	if err != nil {
		slog.Error("WebSocket subscribe", slog.Any(constant.Error, err))
		return nil
	}
	defer h.hub.Unsubscribe(sub.ID)

	// Subscribers are read-only; the read loop only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	slog.Info(
		"WebSocket subscriber disconnected",
		slog.String(constant.SubscriptionID, sub.ID),
		slog.String(constant.RoomName, room),
	)

	return nil
}
