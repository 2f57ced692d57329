package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/storewatch/alert-pipeline/internal/domain/entity"
	"github.com/storewatch/alert-pipeline/internal/domain/port"
	"github.com/storewatch/alert-pipeline/internal/infra/metrics"
	"github.com/storewatch/alert-pipeline/internal/infra/rabbitmq"
)

// AlertHandler accepts alert payloads and hands them to the durable queue.
type AlertHandler struct {
	Publisher port.AlertPublisher
	Logger    *zap.Logger
}

func NewAlertHandler(publisher port.AlertPublisher, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{Publisher: publisher, Logger: logger}
}

// PublishAlert handles POST /alert. "queued" means the broker accepted the
// publish, not that the message is already persisted.
func (h *AlertHandler) PublishAlert(c *fiber.Ctx) error {
	var alert entity.Alert
	if err := c.BodyParser(&alert); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid alert payload",
		})
	}

	if err := alert.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := h.Publisher.Publish(c.Context(), alert); err != nil {
		switch {
		case errors.Is(err, rabbitmq.ErrChannelUnavailable):
			h.Logger.Error("publish rejected, channel unavailable", zap.String("uid", alert.UID))
			metrics.AlertsPublishedTotal.WithLabelValues("unavailable").Inc()
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "message queue channel is not available",
			})
		case errors.Is(err, amqp.ErrClosed):
			h.Logger.Error("publish failed, broker connection closed", zap.String("uid", alert.UID), zap.Error(err))
			metrics.AlertsPublishedTotal.WithLabelValues("unavailable").Inc()
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "failed to connect to message queue",
			})
		default:
			h.Logger.Error("unexpected error publishing alert", zap.String("uid", alert.UID), zap.Error(err))
			metrics.AlertsPublishedTotal.WithLabelValues("error").Inc()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to publish alert",
			})
		}
	}

	h.Logger.Info("alert published",
		zap.String("uid", alert.UID),
		zap.String("store", alert.Store),
	)
	metrics.AlertsPublishedTotal.WithLabelValues("queued").Inc()

	return c.JSON(fiber.Map{
		"status":   "queued",
		"alert_id": alert.UID,
		"message":  "Alert successfully queued for processing",
	})
}
