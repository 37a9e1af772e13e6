package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/edifyminds/edify-backend/internal/response"
	"github.com/edifyminds/edify-backend/internal/service"
)

// ctxClaimsKey is the Gin context key RequireAuth stores claims under.
const ctxClaimsKey = "claims"

// RequireAuth validates a JWT from the Authorization header and rejects
// tokens of users whose access has been revoked.
func RequireAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := authService.ValidateToken(tokenStr)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenExpired)
				return
			}
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		if err := authService.CheckRevoked(c.Request.Context(), claims.UserID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRevoked)
			return
		}

		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}

// GetClaims retrieves the JWT claims RequireAuth stored on the context,
// or nil when the request never passed through it.
func GetClaims(c *gin.Context) *service.Claims {
	if val, ok := c.Get(ctxClaimsKey); ok {
		if claims, ok := val.(*service.Claims); ok {
			return claims
		}
	}
	return nil
}

func extractToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if scheme, token, found := strings.Cut(h, " "); found && strings.EqualFold(scheme, "Bearer") {
			return token
		}
	}

	// Fallback for EventSource (SSE) and WebSocket clients, which cannot
	// send headers.
	return c.Query("token")
}
