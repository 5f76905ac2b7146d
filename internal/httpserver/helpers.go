package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_client/internal/gateway"
)

// gatewayError maps a failed backend call to a facade response, keeping
// the backend's status and message when there was a response at all.
func gatewayError(c echo.Context, l *slog.Logger, event string, err error) error {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		l.Warn(event, "status", apiErr.Status, "error", err)
		return c.JSON(apiErr.Status, echo.Map{"error": apiErr.Message})
	}
	l.Error(event, "status", 502, "error", err)
	return c.JSON(http.StatusBadGateway, echo.Map{"error": "backend unavailable"})
}

func paramID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
