package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pixelcast/backend/internal/application/config"
	"github.com/pixelcast/backend/internal/application/constant"
	"github.com/pixelcast/backend/internal/domain/models"
	"github.com/pixelcast/backend/internal/infra/adapters/postgres/repository"
	"github.com/pixelcast/backend/internal/infra/ports/http/dto"
	"github.com/pixelcast/backend/internal/usecase"
)

type RoomHandler struct {
	cfg         *config.Config
	roomUsecase usecase.RoomUsecase
}

func NewRoomHandler(cfg *config.Config, roomUsecase usecase.RoomUsecase) *RoomHandler {
	return &RoomHandler{cfg: cfg, roomUsecase: roomUsecase}
}

func (h *RoomHandler) CreateRoom(c echo.Context) error {
	req := dto.CreateRoomRequest{Type: string(models.RoomTypeRTMP)}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	room, err := h.roomUsecase.CreateRoom(c.Request().Context(), models.RoomType(req.Type))
	if errors.Is(err, usecase.ErrInvalidRoomType) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err != nil {
		slog.Error("create room", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create room"})
	}

	slog.Info(
		"room created",
		slog.String(constant.RoomName, room.Name),
		slog.String(constant.StreamKey, room.StreamKey),
	)

	return c.JSON(http.StatusOK, dto.CreateRoomResponse{
		Success: true,
		Room:    dto.NewRoomResponseFromModel(room, h.cfg.FrontendBaseURL),
	})
}

func (h *RoomHandler) GetRooms(c echo.Context) error {
	rooms, err := h.roomUsecase.GetRooms(c.Request().Context())
	if err != nil {
		slog.Error("get rooms", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get rooms"})
	}

	resp := dto.ListRoomsResponse{
		Success: true,
		Rooms:   make([]dto.RoomResponse, 0, len(rooms)),
	}

	for _, room := range rooms {
		resp.Rooms = append(resp.Rooms, dto.NewRoomResponseFromModel(room, h.cfg.FrontendBaseURL))
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *RoomHandler) GetRoomByStreamKey(c echo.Context) error {
	room, err := h.roomUsecase.GetRoomByStreamKey(c.Request().Context(), c.QueryParam("streamKey"))
	if errors.Is(err, usecase.ErrMissingParameter) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "stream key is required"})
	}
	if errors.Is(err, repository.ErrRoomNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "room not found"})
	}
	if err != nil {
		slog.Error("get room by stream key", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get room"})
	}

	return c.JSON(http.StatusOK, dto.GetRoomResponse{
		Success: true,
		Room:    dto.NewRoomResponseFromModel(room, h.cfg.FrontendBaseURL),
	})
}

func (h *RoomHandler) ValidateRoomURL(c echo.Context) error {
	room, err := h.roomUsecase.ValidateRoomURL(c.Request().Context(), c.QueryParam("roomUrl"))
	if errors.Is(err, usecase.ErrMissingParameter) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "room URL is required"})
	}
	if errors.Is(err, repository.ErrRoomNotFound) {
		return c.JSON(http.StatusNotFound, dto.ValidateRoomResponse{
			Success: false,
			Exists:  false,
			Error:   "room not found",
		})
	}
	if err != nil {
		slog.Error("validate room url", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, dto.ValidateRoomResponse{
			Success: false,
			Exists:  false,
			Error:   "internal server error",
		})
	}

	roomResp := dto.NewRoomResponseFromModel(room, h.cfg.FrontendBaseURL)

	return c.JSON(http.StatusOK, dto.ValidateRoomResponse{
		Success: true,
		Exists:  true,
		Room:    &roomResp,
	})
}
