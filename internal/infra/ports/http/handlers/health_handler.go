package handlers

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	"github.com/pixelcast/backend/internal/infra/adapters/postgres/repository"
)

type HealthHandler struct {
	db       *sqlx.DB
	roomRepo repository.RoomRepository
}

func NewHealthHandler(db *sqlx.DB, roomRepo repository.RoomRepository) *HealthHandler {
	return &HealthHandler{db: db, roomRepo: roomRepo}
}

func (h *HealthHandler) Check(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.db.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{
			"status": "unhealthy",
			"error":  "database unreachable",
		})
	}

	count, err := h.roomRepo.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{
			"status": "unhealthy",
			"error":  "room store unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":    "ok",
		"rooms":     count,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
