package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/listings-footer/internal/config"
	"github.com/Nazarious-ucu/listings-footer/internal/metrics"
	"github.com/Nazarious-ucu/listings-footer/internal/render"
	"github.com/Nazarious-ucu/listings-footer/internal/widget"
)

func testConfig(t *testing.T, capture string) config.Config {
	t.Helper()
	return config.Config{
		Server: config.Server{Host: "127.0.0.1", HTTPPort: "0", ReadTimeout: 5, BaseURL: "http://localhost:8080"},
		DB:     config.Db{Dialect: "sqlite", Source: filepath.Join(t.TempDir(), "footer.db")},
		Newsletter: config.Newsletter{
			RevertDelay:  time.Hour,
			RestartTimer: true,
			Capture:      capture,
			IdleTTL:      time.Hour,
			SweepSpec:    "@every 1m",
			RateLimit:    100,
			RateBurst:    100,
		},
		OutboundLogPath: filepath.Join(t.TempDir(), "outbound.log"),
	}
}

func initApp(t *testing.T, cfg config.Config) (*App, *ServiceContainer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	a := New(cfg, zerolog.Nop())
	sc, err := a.Init(context.Background())
	require.NoError(t, err)
	a.RegisterRoutes(sc)
	t.Cleanup(func() {
		sc.Registry.Close()
		a.cleanup(sc)
	})
	return a, sc
}

func TestInit_LocalCaptureEndToEnd(t *testing.T) {
	_, sc := initApp(t, testConfig(t, config.CaptureLocal))

	req := httptest.NewRequest(http.MethodPost, "/newsletter", strings.NewReader("email=jane@example.com"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	sc.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusSeeOther, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req = httptest.NewRequest(http.MethodGet, "/footer", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	sc.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), widget.LabelSubscribed)

	n, err := sc.NewsletterService.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n, "the local capturer stores the address")
}

func TestInit_LocalCaptureRejectsMalformedAddress(t *testing.T) {
	_, sc := initApp(t, testConfig(t, config.CaptureLocal))

	req := httptest.NewRequest(http.MethodPut, "/api/newsletter/email", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	sc.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req = httptest.NewRequest(http.MethodPost, "/api/newsletter/submit", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	sc.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"A valid email is required"}`, w.Body.String())

	n, err := sc.NewsletterService.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n, "nothing is stored")
}

func TestInit_NoCapture(t *testing.T) {
	_, sc := initApp(t, testConfig(t, config.CaptureNone))

	req := httptest.NewRequest(http.MethodPut, "/api/newsletter/email", strings.NewReader(`{"email":"jane@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	sc.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/newsletter/submit", nil)
	req.AddCookie(w.Result().Cookies()[0])
	w = httptest.NewRecorder()
	sc.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	n, err := sc.NewsletterService.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInit_RoutesServeMetricsAndContent(t *testing.T) {
	_, sc := initApp(t, testConfig(t, config.CaptureNone))

	for _, path := range []string{"/", "/api/footer", "/metrics"} {
		w := httptest.NewRecorder()
		sc.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestInit_UnreachableRedisFallsBackToRenderer(t *testing.T) {
	cfg := testConfig(t, config.CaptureNone)
	cfg.Redis.Addr = "127.0.0.1:1"

	_, sc := initApp(t, cfg)

	_, ok := sc.Static.(*render.Renderer)
	assert.True(t, ok)
}

func TestInit_BadContentPath(t *testing.T) {
	cfg := testConfig(t, config.CaptureNone)
	cfg.ContentPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(cfg, zerolog.Nop()).Init(context.Background())
	assert.Error(t, err)
}

func TestWidgetFactory_TimerPolicy(t *testing.T) {
	cases := []struct {
		name        string
		restart     bool
		wantPending int
	}{
		{"restart", true, 1},
		{"overlap", false, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(t, config.CaptureNone)
			cfg.Newsletter.RestartTimer = tc.restart
			a := New(cfg, zerolog.Nop())

			w := a.widgetFactory(nil, metrics.NewMetrics("test"))()
			t.Cleanup(w.Close)
			for i := 0; i < 2; i++ {
				w.UpdateEmail("jane@example.com")
				require.NoError(t, w.Submit(context.Background()))
			}
			assert.Equal(t, tc.wantPending, w.Pending())
		})
	}
}
