package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/pixelcast/backend/internal/application/config"
	"github.com/pixelcast/backend/internal/infra/ports/http/handlers"
	"github.com/pixelcast/backend/internal/infra/ports/http/middleware"
)

func New(
	cfg *config.Config,
	webhookHandler *handlers.WebhookHandler,
	proxyHandler *handlers.ProxyHandler,
	subscribeHandler *handlers.SubscribeHandler,
	presenceHandler *handlers.PresenceHandler,
	tokenHandler *handlers.TokenHandler,
	roomHandler *handlers.RoomHandler,
	cleanupHandler *handlers.CleanupHandler,
	healthHandler *handlers.HealthHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.SlogLogger())
	e.Use(middleware.PrometheusMiddleware())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-Prefer-Low-Latency"},
	}))

	e.GET("/health", healthHandler.Check)

	api := e.Group("/api")
	{
		// SRS HTTP callbacks
		srsGroup := api.Group("/srs")
		{
			srsGroup.POST("/connect", webhookHandler.Connect)
			srsGroup.POST("/close", webhookHandler.Close)
			srsGroup.POST("/publish", webhookHandler.Publish)
			srsGroup.POST("/unpublish", webhookHandler.Unpublish)
			srsGroup.POST("/play", webhookHandler.Play)
		}

		proxyGroup := api.Group("/srs-proxy")
		{
			proxyGroup.POST("/whip", proxyHandler.WHIP)
			proxyGroup.POST("/whep", proxyHandler.WHEP)

			proxyGroup.GET("/streams", proxyHandler.GetStreams)
			proxyGroup.POST("/streams/stop", proxyHandler.StopStream)
			proxyGroup.GET("/streams/sse", subscribeHandler.SSE)
			proxyGroup.GET("/streams/ws", subscribeHandler.WS)

			proxyGroup.GET("/monitor", proxyHandler.Monitor)

			proxyGroup.POST("/presence", presenceHandler.Update)
			proxyGroup.GET("/presence", presenceHandler.Get)
		}

		api.POST("/token", tokenHandler.Generate)

		roomGroup := api.Group("/rooms")
		{
			roomGroup.POST("", roomHandler.CreateRoom)
			roomGroup.GET("", roomHandler.GetRooms)
			roomGroup.GET("/by-stream-key", roomHandler.GetRoomByStreamKey)
			roomGroup.GET("/validate", roomHandler.ValidateRoomURL)
		}

		cleanupGroup := api.Group("/cleanup")
		{
			cleanupGroup.GET("/status", cleanupHandler.Status)
			cleanupGroup.POST("/manual", cleanupHandler.Manual)
		}
	}

	return e
}
