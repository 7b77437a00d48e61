package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"paygate/internal/payments"
)

type HealthHandler struct {
	monitor *payments.AcquirerMonitor
}

// NewHealthHandler builds the liveness handler. The monitor is optional;
// without one the response only reports the gateway itself.
func NewHealthHandler(monitor *payments.AcquirerMonitor) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

func (h *HealthHandler) Handle(c echo.Context) error {
	resp := map[string]string{"status": "ok"}
	if h.monitor != nil {
		if h.monitor.Up() {
			resp["acquirer"] = "up"
		} else {
			resp["acquirer"] = "down"
		}
	}
	return c.JSON(http.StatusOK, resp)
}
