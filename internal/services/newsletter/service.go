package newsletter

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/listings-footer/internal/metrics"
	"github.com/Nazarious-ucu/listings-footer/internal/models"
)

const bytesNum = 16

// validate applies the same rules gin uses for models.NewsletterSubData.
var validate = validator.New()

type SubscriberRepository interface {
	Create(ctx context.Context, email, token string) error
	Confirm(ctx context.Context, token string) (bool, error)
	Unsubscribe(ctx context.Context, token string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// ConfirmationSender delivers the confirmation link, either directly or
// through the message broker.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, email, token string) error
}

type syncEmailer interface {
	SendConfirmation(email, token string) error
}

type directSender struct {
	emailer syncEmailer
}

// Direct adapts a synchronous emailer to ConfirmationSender.
func Direct(emailer syncEmailer) ConfirmationSender {
	return directSender{emailer: emailer}
}

func (d directSender) SendConfirmation(_ context.Context, email, token string) error {
	return d.emailer.SendConfirmation(email, token)
}

type Service struct {
	repo   SubscriberRepository
	sender ConfirmationSender
	log    zerolog.Logger
	m      *metrics.Metrics
}

func NewService(repo SubscriberRepository, sender ConfirmationSender, logger zerolog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:   repo,
		sender: sender,
		log:    logger.With().Str("component", "NewsletterService").Logger(),
		m:      m,
	}
}

func (s *Service) Subscribe(ctx context.Context, email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		s.m.BusinessErrors.WithLabelValues("invalid_email", "warning").Inc()
		return fmt.Errorf("%w: %q", models.ErrInvalidEmail, email)
	}

	token, err := newToken()
	if err != nil {
		return err
	}

	if err := s.repo.Create(ctx, email, token); err != nil {
		return err
	}
	s.m.SubscribersCreated.Inc()

	if err := s.sender.SendConfirmation(ctx, email, token); err != nil {
		s.log.Error().Err(err).Ctx(ctx).Str("email", email).Msg("failed to dispatch confirmation")
		return fmt.Errorf("send confirmation: %w", err)
	}
	return nil
}

// Capture is the widget-facing entry point. An address that is already
// subscribed counts as captured.
func (s *Service) Capture(ctx context.Context, email string) error {
	err := s.Subscribe(ctx, email)
	if errors.Is(err, models.ErrSubscriberExists) {
		s.log.Debug().Ctx(ctx).Str("email", email).Msg("address already captured")
		return nil
	}
	return err
}

func (s *Service) Confirm(ctx context.Context, token string) (bool, error) {
	ok, err := s.repo.Confirm(ctx, token)
	if ok {
		s.m.SubscribersConfirmed.Inc()
	}
	return ok, err
}

func (s *Service) Unsubscribe(ctx context.Context, token string) (bool, error) {
	ok, err := s.repo.Unsubscribe(ctx, token)
	if ok {
		s.m.SubscribersCanceled.Inc()
	}
	return ok, err
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func newToken() (string, error) {
	tokenBytes := make([]byte, bytesNum)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(tokenBytes), nil
}
