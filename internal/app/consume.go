package app

import (
	"context"
	"errors"

	"github.com/Nazarious-ucu/listings-footer/internal/consumer"
	"github.com/Nazarious-ucu/listings-footer/internal/content"
	"github.com/Nazarious-ucu/listings-footer/internal/metrics"
)

var ErrRabbitDisabled = errors.New("RABBITMQ_HOST is not set")

// Consume sends confirmation emails for queued subscriber events until ctx is
// cancelled.
func (a *App) Consume(ctx context.Context) error {
	if !a.cfg.RabbitMQ.Enabled() {
		return ErrRabbitDisabled
	}

	footerContent, err := content.Load(a.cfg.ContentPath)
	if err != nil {
		return err
	}
	emailSvc, err := a.emailService(footerContent.Brand.Name)
	if err != nil {
		return err
	}

	conn, err := a.setupConn()
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			a.l.Error().Err(err).Msg("RabbitMQ close error")
		}
	}()

	subscribeConsumer, err := a.setupSubscribeConsumer(conn)
	if err != nil {
		a.l.Error().Err(err).Msg("Failed to setup subscribe consumer")
		return err
	}

	handler := consumer.NewConsumer(emailSvc, a.l, metrics.NewMetrics(metricsNamespace))

	errCh := make(chan error, 1)
	go func() {
		a.l.Info().Msg("Subscribe consumer running")
		errCh <- subscribeConsumer.Run(handler.ReceiveSubscription)
	}()

	select {
	case <-ctx.Done():
		a.l.Info().Msg("Shutdown signal received")
		subscribeConsumer.Close()
		return nil
	case err := <-errCh:
		subscribeConsumer.Close()
		return err
	}
}
