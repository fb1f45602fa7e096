package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pixelcast/backend/internal/application/constant"
	"github.com/pixelcast/backend/internal/usecase"
)

// ProxyHandler forwards signalling exchanges to SRS: WHIP/WHEP SDP
// offer/answer, the live stream list, stream stop and the monitor summary.
type ProxyHandler struct {
	signalUsecase usecase.SignalUsecase
}

func NewProxyHandler(signalUsecase usecase.SignalUsecase) *ProxyHandler {
	return &ProxyHandler{signalUsecase: signalUsecase}
}

func (h *ProxyHandler) WHIP(c echo.Context) error {
	return h.exchange(c, h.signalUsecase.Publish)
}

func (h *ProxyHandler) WHEP(c echo.Context) error {
	return h.exchange(c, h.signalUsecase.Play)
}

func (h *ProxyHandler) exchange(
	c echo.Context,
	do func(ctx context.Context, app, stream, sdpOffer string) (string, error),
) error {
	app := c.QueryParam("app")
	stream := c.QueryParam("stream")

	if app == "" || stream == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing app or stream parameter"})
	}

	offer, err := io.ReadAll(c.Request().Body)
	if err != nil || len(offer) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing SDP offer in request body"})
	}

	answer, err := do(c.Request().Context(), app, stream, string(offer))
	if err != nil {
		slog.Error(
			"SDP exchange failed",
			slog.String("app", app),
			slog.String(constant.StreamName, stream),
			slog.Any(constant.Error, err),
		)

		return c.JSON(http.StatusBadGateway, map[string]string{"error": "SRS server error: " + err.Error()})
	}

	return c.Blob(http.StatusOK, "application/sdp", []byte(answer))
}

func (h *ProxyHandler) GetStreams(c echo.Context) error {
	streams := h.signalUsecase.Streams(c.Request().Context())

	return c.JSON(http.StatusOK, map[string]any{"streams": streams})
}

func (h *ProxyHandler) StopStream(c echo.Context) error {
	streamID := c.QueryParam("stream")

	err := h.signalUsecase.StopStream(c.Request().Context(), streamID)
	if errors.Is(err, usecase.ErrMissingParameter) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "stream ID is required"})
	}
	if err != nil {
		slog.Error("stop stream", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to stop stream"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "stream " + streamID + " stop requested",
	})
}

func (h *ProxyHandler) Monitor(c echo.Context) error {
	summary, err := h.signalUsecase.Monitor(c.Request().Context())
	if err != nil {
		slog.Error("SRS monitor", slog.Any(constant.Error, err))
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "failed to fetch SRS summary"})
	}

	return c.JSONBlob(http.StatusOK, summary)
}
