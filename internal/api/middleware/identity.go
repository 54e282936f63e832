package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/aqall/publisher/internal/api/models"
	"github.com/aqall/publisher/internal/auth"
)

const ownerKey = "owner_id"

// UserIDHeader carries the owner id when no JWT secret is configured.
const UserIDHeader = "X-User-ID"

// RequireOwner identifies the caller and stores the owner id in the context.
//
// With a configured verifier the caller must send `Authorization: Bearer
// <jwt>` and the token subject is the owner. Without one the X-User-ID
// header is trusted, which is only suitable for local development.
func RequireOwner(v *auth.Verifier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v == nil || !v.Enabled() {
			owner := strings.TrimSpace(c.GetHeader(UserIDHeader))
			if owner == "" {
				unauthorized(c, "missing "+UserIDHeader+" header")
				return
			}
			c.Set(ownerKey, owner)
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "missing authorization header")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := v.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			if logger != nil {
				logger.Debug("rejected token", "err", err, "client_ip", c.ClientIP())
			}
			if errors.Is(err, jwt.ErrTokenExpired) {
				unauthorized(c, "token expired")
			} else {
				unauthorized(c, "invalid token")
			}
			return
		}

		c.Set(ownerKey, claims.Subject)
		c.Next()
	}
}

// OwnerID returns the owner set by RequireOwner.
func OwnerID(c *gin.Context) string {
	return c.GetString(ownerKey)
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:   "Unauthorized",
		Message: message,
		Code:    models.CodeUnauthorized,
	})
}
