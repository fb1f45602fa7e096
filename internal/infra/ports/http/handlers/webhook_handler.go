package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pixelcast/backend/internal/application/constant"
	"github.com/pixelcast/backend/internal/infra/ports/http/dto"
)

// WebhookHandler ingests SRS event callbacks. The events are logged for
// operators but carry no state: stream state comes from polling, not from
// hooks.
type WebhookHandler struct{}

func NewWebhookHandler() *WebhookHandler {
	return &WebhookHandler{}
}

func (h *WebhookHandler) Connect(c echo.Context) error {
	return h.handle(c, "SRS client connected", true)
}

func (h *WebhookHandler) Close(c echo.Context) error {
	return h.handle(c, "SRS client closed", false)
}

func (h *WebhookHandler) Publish(c echo.Context) error {
	return h.handle(c, "SRS stream published", true)
}

func (h *WebhookHandler) Unpublish(c echo.Context) error {
	return h.handle(c, "SRS stream unpublished", false)
}

func (h *WebhookHandler) Play(c echo.Context) error {
	return h.handle(c, "SRS viewer joined", true)
}

// handle logs the webhook and acknowledges it. rejectable marks hooks
// where a malformed payload should veto the action; close/unpublish are
// acknowledged unconditionally since the action already happened.
func (h *WebhookHandler) handle(c echo.Context, message string, rejectable bool) error {
	var body dto.WebhookBody
	if err := c.Bind(&body); err != nil {
		slog.Error("decode SRS webhook", slog.Any(constant.Error, err))

		if rejectable {
			return c.JSON(http.StatusBadRequest, dto.WebhookRejected("invalid payload"))
		}

		return c.JSON(http.StatusOK, dto.WebhookOK())
	}

	slog.Info(
		message,
		slog.String("action", body.Action),
		slog.String(constant.ClientID, body.ClientID),
		slog.String("ip", body.IP),
		slog.String("vhost", body.Vhost),
		slog.String("app", body.App),
		slog.String(constant.StreamName, body.Stream),
	)

	return c.JSON(http.StatusOK, dto.WebhookOK())
}
