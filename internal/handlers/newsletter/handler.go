package newsletter

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/listings-footer/internal/handlers/session"
	"github.com/Nazarious-ucu/listings-footer/internal/models"
	"github.com/Nazarious-ucu/listings-footer/internal/widget"
)

const (
	timeoutDuration = 10 * time.Second

	resultOK           = "ok"
	resultEmpty        = "empty"
	resultClosed       = "closed"
	resultInvalidEmail = "invalid_email"
	resultCaptureError = "capture_error"
)

type widgets interface {
	Get(sessionID string) *widget.Widget
	Remove(sessionID string) bool
}

type submissionObserver interface {
	ObserveSubmission(result string)
}

// Handler exposes the session's subscription widget over a form endpoint and
// a JSON API.
type Handler struct {
	widgets  widgets
	observer submissionObserver
	log      zerolog.Logger
}

func NewHandler(widgets widgets, observer submissionObserver, logger zerolog.Logger) *Handler {
	return &Handler{
		widgets:  widgets,
		observer: observer,
		log:      logger.With().Str("component", "NewsletterHandler").Logger(),
	}
}

// FormSubmit
// @Summary Submit the newsletter form
// @Description Stores the typed address in the session widget and submits it, then redirects back.
// @Tags newsletter
// @Accept application/x-www-form-urlencoded
// @Param email formData string false "Email address"
// @Success 303
// @Router /newsletter [post]
func (h *Handler) FormSubmit(c *gin.Context) {
	var data models.WidgetEmailData
	if err := c.ShouldBind(&data); err != nil {
		h.log.Debug().Err(err).Msg("failed to bind form data")
	}

	w := h.widgets.Get(session.ID(c))
	w.UpdateEmail(data.Email)
	// an empty or failed submission leaves the form as it was
	_ = h.submit(c, w)

	c.Redirect(http.StatusSeeOther, redirectTarget(c))
}

// Get
// @Summary Newsletter widget state
// @Tags newsletter
// @Produce json
// @Success 200 {object} widget.Snapshot
// @Router /api/newsletter [get]
func (h *Handler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.widgets.Get(session.ID(c)).Snapshot())
}

// UpdateEmail
// @Summary Update the typed address
// @Description Replaces the widget's input buffer. No validation happens here.
// @Tags newsletter
// @Accept json
// @Produce json
// @Param body body models.WidgetEmailData true "Typed address"
// @Success 200 {object} widget.Snapshot
// @Failure 400
// @Router /api/newsletter/email [put]
func (h *Handler) UpdateEmail(c *gin.Context) {
	var data models.WidgetEmailData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	w := h.widgets.Get(session.ID(c))
	w.UpdateEmail(data.Email)
	c.JSON(http.StatusOK, w.Snapshot())
}

// Submit
// @Summary Submit the typed address
// @Description Confirms the buffered address. The widget shows "Subscribed!" and reverts to idle after the revert delay.
// @Tags newsletter
// @Produce json
// @Success 200 {object} widget.Snapshot
// @Failure 400
// @Failure 409
// @Failure 502
// @Router /api/newsletter/submit [post]
func (h *Handler) Submit(c *gin.Context) {
	w := h.widgets.Get(session.ID(c))

	err := h.submit(c, w)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, w.Snapshot())
	case errors.Is(err, widget.ErrEmptyEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": widget.ErrEmptyEmail.Error()})
	case errors.Is(err, models.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
	case errors.Is(err, widget.ErrClosed):
		c.JSON(http.StatusConflict, gin.H{"error": "Session widget was closed"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to capture email"})
	}
}

// Delete
// @Summary Tear down the session widget
// @Description Cancels any pending revert and forgets the widget.
// @Tags newsletter
// @Success 204
// @Router /api/newsletter [delete]
func (h *Handler) Delete(c *gin.Context) {
	h.widgets.Remove(session.ID(c))
	c.Status(http.StatusNoContent)
}

func (h *Handler) submit(c *gin.Context, w *widget.Widget) error {
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	err := w.Submit(ctx)
	result := resultOK
	switch {
	case err == nil:
		h.log.Info().Ctx(ctx).Int("pending_reverts", w.Pending()).Msg("newsletter submission confirmed")
	case errors.Is(err, widget.ErrEmptyEmail):
		result = resultEmpty
	case errors.Is(err, models.ErrInvalidEmail):
		result = resultInvalidEmail
		h.log.Debug().Ctx(ctx).Msg("rejected malformed address")
	case errors.Is(err, widget.ErrClosed):
		result = resultClosed
		h.log.Warn().Ctx(ctx).Msg("submission on closed widget")
	default:
		result = resultCaptureError
		h.log.Error().Err(err).Ctx(ctx).Msg("newsletter capture failed")
	}
	h.observer.ObserveSubmission(result)
	return err
}

// redirectTarget sends the browser back to the page it came from when that
// page is on this host.
func redirectTarget(c *gin.Context) string {
	ref := c.Request.Referer()
	if ref == "" {
		return "/"
	}
	u, err := c.Request.URL.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != c.Request.Host) {
		return "/"
	}
	return u.RequestURI() + "#newsletter"
}
