package middlewares

import (
	"log/slog"
	"net/http"
	"strings"

	"civiceye-be/i18n"
	"civiceye-be/models"
	authUtils "civiceye-be/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by GovernmentGate.
const (
	OfficerIDKey = "officer_id"
	RoleKey      = "role"
)

// AuthCookie is the cookie login sets alongside the bearer token.
const AuthCookie = "auth_token"

// GovernmentGate rejects requests without a valid officer token.
func GovernmentGate(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := authUtils.ParseToken(tokenString, jwtSecret)
		if err != nil {
			slog.Debug("token validation failed", "err", err)
			abortUnauthorized(c)
			return
		}
		if !models.ValidRole(claims.Role) {
			abortUnauthorized(c)
			return
		}

		c.Set(OfficerIDKey, claims.Subject)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// RoleFrom returns the role GovernmentGate stored, or "".
func RoleFrom(c *gin.Context) string {
	return c.GetString(RoleKey)
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	if cookie, err := c.Cookie(AuthCookie); err == nil {
		return cookie
	}
	return ""
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": i18n.T(LangFrom(c), i18n.MsgUnauthorized)})
}
