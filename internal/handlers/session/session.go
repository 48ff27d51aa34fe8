// Package session assigns every browser a stable id so it gets its own
// newsletter widget.
package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CookieName = "footer_session"
	contextKey = "session_id"

	maxAge = 30 * 24 * 60 * 60
)

// Middleware reads the session cookie, issuing a fresh one when it is
// missing or malformed.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(CookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CookieName, id, maxAge, "/", "", false, true)
		}
		c.Set(contextKey, id)
		c.Next()
	}
}

// ID returns the session id set by Middleware, or "" outside it.
func ID(c *gin.Context) string {
	return c.GetString(contextKey)
}
