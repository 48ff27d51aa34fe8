package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	CaptureLocal  = "local"
	CaptureRemote = "remote"
	CaptureNone   = "none"
)

type Server struct {
	Host        string `envconfig:"FOOTER_SERVER_HOST" default:"localhost"`
	HTTPPort    string `envconfig:"FOOTER_SERVER_HTTP_PORT" default:"8080"`
	ReadTimeout int    `envconfig:"FOOTER_SERVER_TIMEOUT" default:"10"`
	BaseURL     string `envconfig:"FOOTER_BASE_URL" default:"http://localhost:8080"`
}

type Db struct {
	Dialect string `envconfig:"DB_DIALECT" default:"sqlite"`
	Source  string `envconfig:"DB_NAME" default:"newsletter.db"`
}

type Email struct {
	User     string `envconfig:"EMAIL_USER"`
	Host     string `envconfig:"EMAIL_HOST"`
	Port     string `envconfig:"EMAIL_PORT" default:"587"`
	Password string `envconfig:"EMAIL_PASSWORD"`
	From     string `envconfig:"EMAIL_FROM" default:"info@kenyahomes.co.ke"`
}

type RabbitMQ struct {
	Host string `envconfig:"RABBITMQ_HOST"`
	Port string `envconfig:"RABBITMQ_PORT" default:"5672"`
	User string `envconfig:"RABBITMQ_USER" default:"guest"`
	Pass string `envconfig:"RABBITMQ_PASSWORD" default:"guest"`
}

type Redis struct {
	Addr     string        `envconfig:"REDIS_ADDR"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	TTL      time.Duration `envconfig:"REDIS_FOOTER_TTL" default:"10m"`
}

type Newsletter struct {
	RevertDelay time.Duration `envconfig:"NEWSLETTER_REVERT_DELAY" default:"3s"`
	// RestartTimer cancels a pending revert when a new submission lands.
	RestartTimer bool          `envconfig:"NEWSLETTER_RESTART_TIMER" default:"true"`
	Capture      string        `envconfig:"NEWSLETTER_CAPTURE" default:"local"`
	CaptureURL   string        `envconfig:"CAPTURE_URL"`
	IdleTTL      time.Duration `envconfig:"WIDGET_IDLE_TTL" default:"30m"`
	SweepSpec    string        `envconfig:"WIDGET_SWEEP_SPEC" default:"@every 1m"`
	RateLimit    float64       `envconfig:"NEWSLETTER_RATE_LIMIT" default:"1"`
	RateBurst    int           `envconfig:"NEWSLETTER_RATE_BURST" default:"5"`
}

type Config struct {
	ContentPath     string `envconfig:"FOOTER_CONTENT_PATH"`
	LogsPath        string `envconfig:"LOGS_PATH" default:"logs/footer.log"`
	OutboundLogPath string `envconfig:"OUTBOUND_LOGS_PATH" default:"logs/outbound.log"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`

	Server     Server
	DB         Db
	Email      Email
	RabbitMQ   RabbitMQ
	Redis      Redis
	Newsletter Newsletter
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Newsletter.Capture {
	case CaptureLocal, CaptureNone:
	case CaptureRemote:
		if c.Newsletter.CaptureURL == "" {
			return fmt.Errorf("CAPTURE_URL is required when NEWSLETTER_CAPTURE=%s", CaptureRemote)
		}
	default:
		return fmt.Errorf("unknown NEWSLETTER_CAPTURE %q", c.Newsletter.Capture)
	}
	if c.Newsletter.RevertDelay <= 0 {
		return fmt.Errorf("NEWSLETTER_REVERT_DELAY must be positive, got %s", c.Newsletter.RevertDelay)
	}
	return nil
}

func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + c.Server.HTTPPort
}

// SMTPEnabled reports whether enough SMTP settings are present to send mail.
func (e *Email) SMTPEnabled() bool {
	return e.Host != "" && e.Port != "" && e.From != ""
}

func (r *RabbitMQ) Enabled() bool {
	return r.Host != ""
}

func (r *RabbitMQ) Address() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", r.User, r.Pass, r.Host, r.Port)
}
