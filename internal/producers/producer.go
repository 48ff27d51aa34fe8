package producers

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/wagslane/go-rabbitmq"

	"github.com/Nazarious-ucu/listings-footer/pkg/messaging"
)

type publisher interface {
	PublishWithContext(
		ctx context.Context,
		data []byte,
		routingKeys []string,
		optionFuncs ...func(*rabbitmq.PublishOptions),
	) error
}

type publishRecorder interface {
	RecordRabbitPublish(routingKey string, err error)
}

type Producer struct {
	prod publisher
	log  zerolog.Logger
	m    publishRecorder
}

func NewProducer(prod publisher, logger zerolog.Logger, m publishRecorder) *Producer {
	return &Producer{
		prod: prod,
		log:  logger.With().Str("component", "Producer").Logger(),
		m:    m,
	}
}

func (p *Producer) Publish(ctx context.Context, routingKey string, body []byte) error {
	err := p.prod.PublishWithContext(
		ctx,
		body,
		[]string{routingKey},
		rabbitmq.WithPublishOptionsContentType("application/json"),
		rabbitmq.WithPublishOptionsMandatory,
		rabbitmq.WithPublishOptionsPersistentDelivery,
		rabbitmq.WithPublishOptionsExchange(messaging.ExchangeName),
	)
	p.m.RecordRabbitPublish(routingKey, err)
	if err != nil {
		p.log.Error().Err(err).Ctx(ctx).Str("routing_key", routingKey).Msg("failed to publish message")
		return err
	}
	p.log.Debug().Ctx(ctx).Str("routing_key", routingKey).Msg("message published")
	return nil
}

// SendConfirmation queues a NewSubscriberEvent for the consume command.
func (p *Producer) SendConfirmation(ctx context.Context, email, token string) error {
	body, err := json.Marshal(messaging.NewSubscriberEvent{
		Email: email,
		Token: token,
	})
	if err != nil {
		p.log.Error().Err(err).Msg("failed to marshal subscriber event")
		return err
	}

	return p.Publish(ctx, messaging.SubscribeRoutingKey, body)
}
