package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zamontech/yaqinbot/internal/config"
	"github.com/zamontech/yaqinbot/internal/handler"
	middlewarepkg "github.com/zamontech/yaqinbot/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the server.
type Handlers struct {
	Webhook *handler.WebhookHandler
}

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	if handlers.Webhook != nil {
		e.POST("/webhook", handlers.Webhook.Receive, middlewarepkg.WebhookRateLimiter(cfg.RateLimitWebhook))
	}
}
