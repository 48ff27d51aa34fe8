package footer

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/listings-footer/internal/handlers/session"
	"github.com/Nazarious-ucu/listings-footer/internal/models"
	"github.com/Nazarious-ucu/listings-footer/internal/render"
	"github.com/Nazarious-ucu/listings-footer/internal/widget"
)

const htmlContentType = "text/html; charset=utf-8"

type staticRenderer interface {
	Static(ctx context.Context, c models.Content) (template.HTML, error)
}

type viewRenderer interface {
	RenderFooter(w io.Writer, v render.View) error
	RenderPage(w io.Writer, v render.View) error
}

type widgets interface {
	Get(sessionID string) *widget.Widget
}

type Handler struct {
	content models.Content
	static  staticRenderer
	views   viewRenderer
	widgets widgets
	log     zerolog.Logger
}

func NewHandler(
	content models.Content,
	static staticRenderer,
	views viewRenderer,
	widgets widgets,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		content: content,
		static:  static,
		views:   views,
		widgets: widgets,
		log:     logger.With().Str("component", "FooterHandler").Logger(),
	}
}

// Page
// @Summary Demo page with the footer
// @Tags footer
// @Produce html
// @Success 200
// @Failure 500
// @Router / [get]
func (h *Handler) Page(c *gin.Context) {
	h.render(c, h.views.RenderPage)
}

// Fragment
// @Summary Footer HTML fragment
// @Description Renders the footer bound to the caller's newsletter widget.
// @Tags footer
// @Produce html
// @Success 200
// @Failure 500
// @Router /footer [get]
func (h *Handler) Fragment(c *gin.Context) {
	h.render(c, h.views.RenderFooter)
}

// Content
// @Summary Footer content
// @Description Returns the configured footer content.
// @Tags footer
// @Produce json
// @Success 200 {object} models.Content
// @Router /api/footer [get]
func (h *Handler) Content(c *gin.Context) {
	c.JSON(http.StatusOK, h.content)
}

func (h *Handler) render(c *gin.Context, fn func(io.Writer, render.View) error) {
	static, err := h.static.Static(c.Request.Context(), h.content)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to render static footer")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	view := render.View{
		Content:    h.content,
		Newsletter: h.widgets.Get(session.ID(c)).Snapshot(),
		Static:     static,
	}

	var buf bytes.Buffer
	if err := fn(&buf, view); err != nil {
		h.log.Error().Err(err).Msg("failed to render footer")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}
