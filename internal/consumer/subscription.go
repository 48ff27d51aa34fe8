package consumer

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/wagslane/go-rabbitmq"

	"github.com/Nazarious-ucu/listings-footer/internal/metrics"
	"github.com/Nazarious-ucu/listings-footer/pkg/messaging"
)

type emailSender interface {
	SendConfirmation(email, token string) error
}

// Consumer processes RabbitMQ deliveries and emits logs & metrics.
type Consumer struct {
	emailSender emailSender
	logger      zerolog.Logger
	m           *metrics.Metrics
}

func NewConsumer(emailSender emailSender, logger zerolog.Logger, m *metrics.Metrics) *Consumer {
	logger = logger.With().Str("component", "Consumer").Logger()
	return &Consumer{
		emailSender: emailSender,
		logger:      logger,
		m:           m,
	}
}

// ReceiveSubscription handles NewSubscriberEvent messages.
func (c *Consumer) ReceiveSubscription(d rabbitmq.Delivery) rabbitmq.Action {
	const eventType = messaging.SubscribeRoutingKey

	c.logger.Debug().
		Str("payload", string(d.Body)).
		Msg("received subscriber event")

	var evt messaging.NewSubscriberEvent
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		c.logger.Error().
			Err(err).
			Str("event", eventType).
			Msg("unmarshal error")
		c.m.ConsumerMessagesTotal.WithLabelValues(eventType, "unmarshal_error").Inc()
		return rabbitmq.NackDiscard
	}

	if err := c.emailSender.SendConfirmation(evt.Email, evt.Token); err != nil {
		c.logger.Error().
			Err(err).
			Str("email", evt.Email).
			Msg("failed to send confirmation email")
		c.m.ConsumerMessagesTotal.WithLabelValues(eventType, "send_error").Inc()
		// the queue has no dead-letter exchange, so a requeue would loop
		return rabbitmq.NackDiscard
	}

	c.logger.Info().
		Str("email", evt.Email).
		Msg("confirmation email sent")
	c.m.ConsumerMessagesTotal.WithLabelValues(eventType, "ok").Inc()
	return rabbitmq.Ack
}
