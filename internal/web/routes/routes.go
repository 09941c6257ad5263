package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// WebhookPath is exempted from the request-timeout middleware; the pipeline
// carries its own deadline.
const WebhookPath = "/webhook/github/"

func CreateRoutes(e *echo.Echo, webhook *WebhookController) {
	e.POST(WebhookPath, webhook.HandleWebhook)
	e.GET("/healthz/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
