package emailer

import (
	"net/smtp"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/listings-footer/internal/config"
)

// SMTPService wraps smtp.SendMail with structured logging.
type SMTPService struct {
	user     string
	host     string
	port     string
	password string
	From     string
	logger   zerolog.Logger
}

func NewSMTPService(cfg config.Email, logger zerolog.Logger) *SMTPService {
	logger = logger.With().Str("component", "SMTPService").Logger()
	return &SMTPService{
		user:     cfg.User,
		host:     cfg.Host,
		port:     cfg.Port,
		password: cfg.Password,
		From:     cfg.From,
		logger:   logger,
	}
}

func (e *SMTPService) Send(to, subject, additionalHeaders, body string) error {
	start := time.Now()
	e.logger.Debug().
		Str("to", to).
		Str("subject", subject).
		Msg("sending email")

	auth := smtp.PlainAuth("", e.user, e.password, e.host)
	msg := "From: " + e.From + "\n" +
		"To: " + to + "\n" +
		"Subject: " + subject + "\n" +
		additionalHeaders + "\n\n" +
		body
	addr := e.host + ":" + e.port

	err := smtp.SendMail(addr, auth, e.From, []string{to}, []byte(msg))
	duration := time.Since(start)

	if err != nil {
		e.logger.Error().
			Err(err).
			Str("to", to).
			Str("subject", subject).
			Dur("duration", duration).
			Msg("email send failed")
		return err
	}

	e.logger.Info().
		Str("to", to).
		Str("subject", subject).
		Dur("duration", duration).
		Msg("email sent successfully")
	return nil
}

// LogService stands in for SMTP when no mail server is configured.
type LogService struct {
	logger zerolog.Logger
}

func NewLogService(logger zerolog.Logger) *LogService {
	return &LogService{logger: logger.With().Str("component", "LogEmailer").Logger()}
}

func (e *LogService) Send(to, subject, _, body string) error {
	e.logger.Info().
		Str("to", to).
		Str("subject", subject).
		Int("body_bytes", len(body)).
		Msg("smtp disabled, email logged only")
	return nil
}
