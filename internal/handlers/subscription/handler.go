package subscription

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/listings-footer/internal/models"
)

const timeoutDuration = 10 * time.Second

type subscriber interface {
	Subscribe(ctx context.Context, email string) error
	Confirm(ctx context.Context, token string) (bool, error)
	Unsubscribe(ctx context.Context, token string) (bool, error)
}

type Handler struct {
	Service subscriber
	log     zerolog.Logger
}

func NewHandler(svc subscriber, logger zerolog.Logger) *Handler {
	return &Handler{
		Service: svc,
		log:     logger.With().Str("component", "SubscriptionHandler").Logger(),
	}
}

// Subscribe
// @Summary Subscribe to the newsletter
// @Description Registers an email address and sends a confirmation link.
// @Tags subscription
// @Accept json
// @Accept application/x-www-form-urlencoded
// @Param email formData string true "Email address to subscribe"
// @Success 200
// @Failure 400
// @Failure 500
// @Router /api/subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	var data models.NewsletterSubData
	if err := c.ShouldBind(&data); err != nil {
		h.log.Debug().Err(err).Msg("failed to bind subscribe data")
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	err := h.Service.Subscribe(ctx, data.Email)
	if err != nil {
		if errors.Is(err, models.ErrSubscriberExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already subscribed"})
			return
		}
		h.log.Error().Err(err).Str("email", data.Email).Msg("failed to subscribe")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscribed successfully"})
}

// Confirm
// @Summary Confirm subscription
// @Description Confirms the subscription using the token sent in email.
// @Tags subscription
// @Param token path string true "Confirmation token"
// @Success 200
// @Failure 400
// @Failure 500
// @Router /api/confirm/{token} [get]
func (h *Handler) Confirm(c *gin.Context) {
	h.byToken(c, h.Service.Confirm, "confirm")
}

// Unsubscribe
// @Summary Unsubscribe
// @Description Stops newsletter delivery for the token's address.
// @Tags subscription
// @Param token path string true "Unsubscribe token"
// @Success 200
// @Failure 400
// @Failure 500
// @Router /api/unsubscribe/{token} [get]
func (h *Handler) Unsubscribe(c *gin.Context) {
	h.byToken(c, h.Service.Unsubscribe, "unsubscribe")
}

func (h *Handler) byToken(
	c *gin.Context,
	fn func(ctx context.Context, token string) (bool, error),
	op string,
) {
	token := c.Param("token")

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	ok, err := fn(ctx, token)
	if err != nil {
		h.log.Error().Err(err).Str("op", op).Msg("token operation failed")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if !ok {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	c.Status(http.StatusOK)
}
