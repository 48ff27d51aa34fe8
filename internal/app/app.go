package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	swaggerfiles "github.com/swaggo/files"
	swagger "github.com/swaggo/gin-swagger"
	"github.com/wagslane/go-rabbitmq"
	"go.uber.org/zap"

	_ "github.com/Nazarious-ucu/listings-footer/docs"
	"github.com/Nazarious-ucu/listings-footer/internal/cache"
	"github.com/Nazarious-ucu/listings-footer/internal/config"
	"github.com/Nazarious-ucu/listings-footer/internal/content"
	"github.com/Nazarious-ucu/listings-footer/internal/emailer"
	"github.com/Nazarious-ucu/listings-footer/internal/handlers/footer"
	"github.com/Nazarious-ucu/listings-footer/internal/handlers/middleware"
	newsletterHandler "github.com/Nazarious-ucu/listings-footer/internal/handlers/newsletter"
	"github.com/Nazarious-ucu/listings-footer/internal/handlers/session"
	"github.com/Nazarious-ucu/listings-footer/internal/handlers/subscription"
	"github.com/Nazarious-ucu/listings-footer/internal/metrics"
	"github.com/Nazarious-ucu/listings-footer/internal/models"
	"github.com/Nazarious-ucu/listings-footer/internal/producers"
	"github.com/Nazarious-ucu/listings-footer/internal/render"
	"github.com/Nazarious-ucu/listings-footer/internal/repository/sqlite"
	"github.com/Nazarious-ucu/listings-footer/internal/services/capture"
	"github.com/Nazarious-ucu/listings-footer/internal/services/email"
	"github.com/Nazarious-ucu/listings-footer/internal/services/logger"
	"github.com/Nazarious-ucu/listings-footer/internal/services/newsletter"
	"github.com/Nazarious-ucu/listings-footer/internal/widget"
	pkglogger "github.com/Nazarious-ucu/listings-footer/pkg/logger"
)

const (
	timeoutDuration = 5 * time.Second

	metricsNamespace = "footer_service"
	breakerName      = "newsletter-capture"
)

type footerStatic interface {
	Static(ctx context.Context, c models.Content) (template.HTML, error)
}

type ServiceContainer struct {
	Content           models.Content
	Renderer          *render.Renderer
	Static            footerStatic
	Registry          *widget.Registry
	Sweeper           *widget.Sweeper
	Limiter           *middleware.RateLimiter
	NewsletterService *newsletter.Service

	Router *gin.Engine
	Srv    *http.Server
	Db     *sql.DB
	M      *metrics.Metrics

	redis      *redis.Client
	rabbitConn *rabbitmq.Conn
	publisher  *rabbitmq.Publisher
	fileLogger *zap.Logger
}

type App struct {
	cfg config.Config
	l   zerolog.Logger
}

func New(cfg config.Config, logger zerolog.Logger) *App {
	return &App{cfg: cfg, l: logger}
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Start(ctx context.Context) error {
	srvContainer, err := a.Init(ctx)
	if err != nil {
		return err
	}
	a.RegisterRoutes(srvContainer)

	if err := srvContainer.Sweeper.Start(); err != nil {
		a.cleanup(srvContainer)
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.l.Info().Str("http_addr", a.cfg.ServerAddress()).Msg("HTTP server listening")
		if err := srvContainer.Srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		a.l.Info().Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			a.l.Error().Err(err).Msg("HTTP server error")
			_ = a.Stop(srvContainer)
			return err
		}
	}
	return a.Stop(srvContainer)
}

func (a *App) Stop(srvContainer *ServiceContainer) error {
	a.l.Info().Msg("Stopping application")

	ctx, cancel := context.WithTimeout(context.Background(), timeoutDuration)
	defer cancel()
	if err := srvContainer.Srv.Shutdown(ctx); err != nil {
		a.l.Error().Err(err).Msg("HTTP shutdown error")
	} else {
		a.l.Info().Msg("HTTP server stopped")
	}

	srvContainer.Sweeper.Stop()
	srvContainer.Registry.Close()
	a.l.Info().Msg("Newsletter widgets torn down")

	a.cleanup(srvContainer)
	a.l.Info().Msg("Application shutdown complete")
	return nil
}

func (a *App) cleanup(srvContainer *ServiceContainer) {
	if srvContainer.publisher != nil {
		srvContainer.publisher.Close()
	}
	if srvContainer.rabbitConn != nil {
		if err := srvContainer.rabbitConn.Close(); err != nil {
			a.l.Error().Err(err).Msg("RabbitMQ close error")
		}
	}
	if srvContainer.redis != nil {
		if err := srvContainer.redis.Close(); err != nil {
			a.l.Error().Err(err).Msg("Redis close error")
		}
	}
	if srvContainer.fileLogger != nil {
		_ = srvContainer.fileLogger.Sync()
	}
	if err := srvContainer.Db.Close(); err != nil {
		a.l.Error().Err(err).Msg("Database close error")
	} else {
		a.l.Info().Msg("Database closed")
	}
}

// Init builds every collaborator. Optional infrastructure (Redis, RabbitMQ,
// SMTP) is skipped when it is not configured.
func (a *App) Init(ctx context.Context) (*ServiceContainer, error) {
	a.l.Info().Interface("server", a.cfg.Server).Msg("Initializing application")

	sc := &ServiceContainer{}

	footerContent, err := content.Load(a.cfg.ContentPath)
	if err != nil {
		return nil, err
	}
	sc.Content = footerContent

	initCtx, cancel := context.WithTimeout(ctx, timeoutDuration)
	defer cancel()

	db, err := sqlite.CreateSqliteDb(initCtx, a.cfg.DB.Dialect, a.cfg.DB.Source)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := sqlite.Migrate(initCtx, db, a.l); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	sc.Db = db

	sc.M = metrics.NewMetrics(metricsNamespace)
	sc.M.RegisterDB(db, a.cfg.DB.Source)

	sc.Renderer, err = render.New()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	sc.Static = a.setupStatic(initCtx, sc)

	sender, err := a.setupSender(sc)
	if err != nil {
		a.cleanup(sc)
		return nil, err
	}

	repo := sqlite.NewSubscriberRepository(db, a.l, sc.M)
	sc.NewsletterService = newsletter.NewService(repo, sender, a.l, sc.M)

	capturer, err := a.setupCapturer(sc)
	if err != nil {
		a.cleanup(sc)
		return nil, err
	}

	sc.Registry = widget.NewRegistry(a.widgetFactory(capturer, sc.M), a.cfg.Newsletter.IdleTTL)
	sc.Limiter = middleware.NewRateLimiter(a.cfg.Newsletter.RateLimit, a.cfg.Newsletter.RateBurst)
	sc.Sweeper = widget.NewSweeper(sc.Registry, a.cfg.Newsletter.SweepSpec, a.l,
		sweepHooks{m: sc.M, limiter: sc.Limiter})

	sc.Router = gin.New()
	sc.Srv = &http.Server{
		Addr:              a.cfg.ServerAddress(),
		Handler:           sc.Router,
		ReadHeaderTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
		ReadTimeout:       time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}
	a.l.Info().Str("http_addr", a.cfg.ServerAddress()).Msg("HTTP server configured")

	return sc, nil
}

func (a *App) RegisterRoutes(sc *ServiceContainer) {
	router := sc.Router
	router.Use(gin.Recovery(), sc.M.HTTPMiddleware())

	footerH := footer.NewHandler(sc.Content, sc.Static, sc.Renderer, sc.Registry, a.l)
	widgetH := newsletterHandler.NewHandler(sc.Registry, sc.M, a.l)
	subH := subscription.NewHandler(sc.NewsletterService, a.l)
	limited := sc.Limiter.Middleware()

	pages := router.Group("/", session.Middleware())
	{
		pages.GET("/", footerH.Page)
		pages.GET("/footer", footerH.Fragment)
		pages.POST("/newsletter", limited, widgetH.FormSubmit)
	}

	api := router.Group("/api")
	{
		api.GET("/footer", footerH.Content)

		widgetAPI := api.Group("/newsletter", session.Middleware())
		widgetAPI.GET("", widgetH.Get)
		widgetAPI.PUT("/email", widgetH.UpdateEmail)
		widgetAPI.POST("/submit", limited, widgetH.Submit)
		widgetAPI.DELETE("", widgetH.Delete)

		api.POST("/subscribe", limited, subH.Subscribe)
		api.GET("/confirm/:token", subH.Confirm)
		api.GET("/unsubscribe/:token", subH.Unsubscribe)
	}

	router.GET("/metrics", gin.WrapH(sc.M.Handler()))
	router.GET("/swagger/*any", swagger.WrapHandler(swaggerfiles.Handler))
}

func (a *App) widgetFactory(capturer widget.Capturer, m *metrics.Metrics) func() *widget.Widget {
	opts := []widget.Option{
		widget.WithRevertDelay(a.cfg.Newsletter.RevertDelay),
		widget.WithObserver(func(t widget.Transition) {
			m.ObserveTransition(t.From.String(), t.To.String())
		}),
	}
	if !a.cfg.Newsletter.RestartTimer {
		opts = append(opts, widget.WithTimerPolicy(widget.OverlapTimers))
	}
	if capturer != nil {
		opts = append(opts, widget.WithCapturer(capturer))
	}
	return func() *widget.Widget {
		return widget.New(opts...)
	}
}

func (a *App) setupStatic(ctx context.Context, sc *ServiceContainer) footerStatic {
	if a.cfg.Redis.Addr == "" {
		return sc.Renderer
	}
	client, err := cache.NewClient(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
	if err != nil {
		a.l.Warn().Err(err).Str("addr", a.cfg.Redis.Addr).Msg("Redis unavailable, footer cache disabled")
		return sc.Renderer
	}
	sc.redis = client

	store := cache.NewMetricsDecorator[string](
		cache.NewRedisClient[string](client, a.l, a.cfg.Redis.TTL),
		sc.M,
	)
	a.l.Info().Str("addr", a.cfg.Redis.Addr).Msg("Footer cache enabled")
	return render.NewCached(sc.Renderer, store, a.l)
}

func (a *App) setupSender(sc *ServiceContainer) (newsletter.ConfirmationSender, error) {
	if a.cfg.RabbitMQ.Enabled() {
		conn, err := a.setupConn()
		if err != nil {
			return nil, err
		}
		sc.rabbitConn = conn

		publisher, err := a.setupPublisher(conn)
		if err != nil {
			return nil, err
		}
		sc.publisher = publisher
		return producers.NewProducer(publisher, a.l, sc.M), nil
	}

	emailSvc, err := a.emailService(sc.Content.Brand.Name)
	if err != nil {
		return nil, err
	}
	return newsletter.Direct(emailSvc), nil
}

func (a *App) emailService(brand string) (*email.Service, error) {
	var mailer email.Emailer
	if a.cfg.Email.SMTPEnabled() {
		mailer = emailer.NewSMTPService(a.cfg.Email, a.l)
	} else {
		a.l.Warn().Msg("SMTP is not configured, confirmation emails are only logged")
		mailer = emailer.NewLogService(a.l)
	}
	return email.NewService(mailer, a.cfg.Server.BaseURL, brand)
}

func (a *App) setupCapturer(sc *ServiceContainer) (widget.Capturer, error) {
	switch a.cfg.Newsletter.Capture {
	case config.CaptureNone:
		return nil, nil
	case config.CaptureRemote:
		fileLogger, err := pkglogger.NewFileLogger(a.cfg.OutboundLogPath)
		if err != nil {
			return nil, fmt.Errorf("outbound logger: %w", err)
		}
		sc.fileLogger = fileLogger

		httpLogClient := &http.Client{
			Transport: logger.NewRoundTripper(fileLogger),
			Timeout:   timeoutDuration,
		}
		client := capture.NewClient(a.cfg.Newsletter.CaptureURL, httpLogClient, a.l)
		return capture.NewBreakerClient(breakerName, client), nil
	default:
		return sc.NewsletterService, nil
	}
}

type sweepHooks struct {
	m       *metrics.Metrics
	limiter *middleware.RateLimiter
}

func (h sweepHooks) ObserveSweep(removed, remaining int) {
	h.m.ObserveSweep(removed, remaining)
	h.limiter.Reset()
}
