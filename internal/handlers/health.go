package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// BrokerHealth reports liveness of the broker connection.
type BrokerHealth interface {
	IsHealthy() bool
}

type HealthHandler struct {
	Broker BrokerHealth
}

func NewHealthHandler(broker BrokerHealth) *HealthHandler {
	return &HealthHandler{Broker: broker}
}

// HealthCheck handles GET /health. The service is degraded, not down, when
// the broker connection is absent; no queue-depth inspection is performed.
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	rabbitStatus := "unhealthy"
	status := "degraded"
	if h.Broker != nil && h.Broker.IsHealthy() {
		rabbitStatus = "healthy"
		status = "healthy"
	}

	return c.JSON(fiber.Map{
		"service":  "alert-publisher",
		"status":   status,
		"rabbitmq": rabbitStatus,
	})
}
