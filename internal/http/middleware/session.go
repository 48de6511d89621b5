package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/crewscheduler/backend/internal/auth"
	"github.com/crewscheduler/backend/internal/models"
)

const (
	SessionCookie = "crew_session"
	userKey       = "session_user"
)

// Session resolves the caller from a Bearer token or the session cookie.
// Requests without a valid token continue anonymously.
func Session(cfg auth.TokenConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(SessionCookie)
		}
		if token != "" {
			if claims, err := auth.Parse(cfg, token); err == nil {
				c.Set(userKey, claims.User())
			}
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return models.User{}, false
	}
	u, ok := v.(models.User)
	return u, ok
}

func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in required")
			return
		}
		c.Next()
	}
}

// RequireAdmin admits admin sessions, or any caller presenting adminKey in
// X-Admin-Key when a key is configured.
func RequireAdmin(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u, ok := CurrentUser(c); ok && u.Role == "admin" {
			c.Next()
			return
		}
		key := c.GetHeader("X-Admin-Key")
		if adminKey != "" && subtle.ConstantTimeCompare([]byte(key), []byte(adminKey)) == 1 {
			c.Next()
			return
		}
		abort(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
	}
}

func bearerToken(h string) string {
	const prefix = "bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
