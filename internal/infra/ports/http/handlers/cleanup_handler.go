package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pixelcast/backend/internal/application/constant"
	"github.com/pixelcast/backend/internal/infra/ports/http/dto"
	"github.com/pixelcast/backend/internal/usecase"
)

type CleanupHandler struct {
	cleanupUsecase usecase.CleanupUsecase
	roomUsecase    usecase.RoomUsecase
}

func NewCleanupHandler(cleanupUsecase usecase.CleanupUsecase, roomUsecase usecase.RoomUsecase) *CleanupHandler {
	return &CleanupHandler{cleanupUsecase: cleanupUsecase, roomUsecase: roomUsecase}
}

func (h *CleanupHandler) Status(c echo.Context) error {
	rooms, err := h.roomUsecase.GetRooms(c.Request().Context())
	if err != nil {
		slog.Error("get rooms for cleanup status", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get cleanup status"})
	}

	resp := dto.CleanupStatusResponse{
		Success:          true,
		Cleanup:          h.cleanupUsecase.Status(),
		CurrentRoomCount: len(rooms),
		Rooms:            make([]dto.CleanupRoomInfo, 0, len(rooms)),
	}

	for _, room := range rooms {
		resp.Rooms = append(resp.Rooms, dto.NewCleanupRoomInfo(room))
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *CleanupHandler) Manual(c echo.Context) error {
	result, err := h.cleanupUsecase.Manual(c.Request().Context())
	if err != nil {
		slog.Error("manual cleanup", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "manual cleanup failed"})
	}

	resp := dto.ManualCleanupResponse{
		Success:        true,
		Message:        "manual cleanup completed",
		CleanedCount:   result.CleanedCount,
		RemainingRooms: result.RemainingRooms,
		CleanedRooms:   make([]dto.CleanedRoom, 0, len(result.CleanedRooms)),
	}

	for _, room := range result.CleanedRooms {
		resp.CleanedRooms = append(resp.CleanedRooms, dto.CleanedRoom{ID: room.ID, Name: room.Name})
	}

	return c.JSON(http.StatusOK, resp)
}
