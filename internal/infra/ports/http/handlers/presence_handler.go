package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pixelcast/backend/internal/application/constant"
	"github.com/pixelcast/backend/internal/infra/ports/http/dto"
	"github.com/pixelcast/backend/internal/usecase"
)

type PresenceHandler struct {
	presenceUsecase usecase.PresenceUsecase
}

func NewPresenceHandler(presenceUsecase usecase.PresenceUsecase) *PresenceHandler {
	return &PresenceHandler{presenceUsecase: presenceUsecase}
}

// Update handles join/leave signals. Parameters come from the query string
// or the JSON body; the query wins when both are set.
func (h *PresenceHandler) Update(c echo.Context) error {
	var req dto.PresenceUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	if room := c.QueryParam("room"); room != "" {
		req.Room = room
	}
	if identity := c.QueryParam("identity"); identity != "" {
		req.Identity = identity
	}
	if action := c.QueryParam("action"); action != "" {
		req.Action = action
	}

	err := h.presenceUsecase.Update(req.Room, req.Identity, req.Action)
	if errors.Is(err, usecase.ErrMissingParameter) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing room or identity parameter"})
	}
	if err != nil {
		slog.Error("presence update", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (h *PresenceHandler) Get(c echo.Context) error {
	room := c.QueryParam("room")

	participants, err := h.presenceUsecase.List(room)
	if errors.Is(err, usecase.ErrMissingParameter) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing room parameter"})
	}
	if err != nil {
		slog.Error("get presence", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}

	return c.JSON(http.StatusOK, dto.PresenceResponse{
		Room:         room,
		Participants: participants,
		Count:        len(participants),
	})
}
