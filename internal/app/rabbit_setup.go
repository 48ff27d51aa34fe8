package app

import (
	"github.com/wagslane/go-rabbitmq"

	"github.com/Nazarious-ucu/listings-footer/pkg/messaging"
)

func (a *App) setupConn() (*rabbitmq.Conn, error) {
	conn, err := rabbitmq.NewConn(
		a.cfg.RabbitMQ.Address(),
		rabbitmq.WithConnectionOptionsLogging,
	)
	if err != nil {
		a.l.Error().Err(err).Msg("Failed to connect to RabbitMQ")
		return nil, err
	}

	a.l.Info().Msg("Connected to RabbitMQ successfully")
	return conn, nil
}

// Create a new publisher for subscriber events
func (a *App) setupPublisher(conn *rabbitmq.Conn) (*rabbitmq.Publisher, error) {
	publisher, err := rabbitmq.NewPublisher(
		conn,
		rabbitmq.WithPublisherOptionsExchangeName(messaging.ExchangeName),
		rabbitmq.WithPublisherOptionsExchangeDeclare,
		rabbitmq.WithPublisherOptionsLogging,
		rabbitmq.WithPublisherOptionsExchangeDurable,
	)
	if err != nil {
		return nil, err
	}

	publisher.NotifyReturn(func(r rabbitmq.Return) {
		a.l.Warn().
			Str("routing_key", r.RoutingKey).
			Uint16("reply_code", r.ReplyCode).
			Msg("message returned from server")
	})

	return publisher, nil
}

// Create a new consumer for subscriber events
func (a *App) setupSubscribeConsumer(conn *rabbitmq.Conn) (*rabbitmq.Consumer, error) {
	return rabbitmq.NewConsumer(
		conn,
		messaging.SubscribeQueueName,
		rabbitmq.WithConsumerOptionsExchangeName(messaging.ExchangeName),
		rabbitmq.WithConsumerOptionsExchangeDeclare,
		rabbitmq.WithConsumerOptionsExchangeDurable,
		rabbitmq.WithConsumerOptionsRoutingKey(messaging.SubscribeRoutingKey),
		rabbitmq.WithConsumerOptionsQueueDurable,
	)
}
