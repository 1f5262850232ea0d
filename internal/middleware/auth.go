package middleware

import (
	"fmt"
	"strings"

	"github.com/dlandlab/voicetrack/internal/apperr"
	"github.com/dlandlab/voicetrack/internal/controller"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const (
	// AuthTokenHeader is accepted alongside "Authorization: Bearer <token>".
	AuthTokenHeader = "x-auth-token"
	// UserIDKey holds the token subject in the gin context.
	UserIDKey = "user_id"
)

func tokenFrom(c *gin.Context) string {
	if token := strings.TrimSpace(c.GetHeader(AuthTokenHeader)); token != "" {
		return token
	}
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// subjectOf prefers a userId claim and falls back to sub.
func subjectOf(claims jwt.MapClaims) string {
	if v, ok := claims["userId"]; ok && v != nil {
		return fmt.Sprint(v)
	}
	sub, _ := claims.GetSubject()
	return sub
}

func reject(c *gin.Context, msg string) {
	controller.RespondError(c, "RequireAuth", apperr.Unauthorized(msg))
	c.Abort()
}

// RequireAuth admits requests carrying an HS256 token signed with secret.
// The token's identity is not interpreted beyond exposing it under UserIDKey.
func RequireAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		if len(key) == 0 {
			log.Warn().Str("path", c.FullPath()).Msg("RequireAuth: JWT_SECRET not configured, rejecting request")
			reject(c, "Authentication is not configured")
			return
		}
		raw := tokenFrom(c)
		if raw == "" {
			reject(c, "No token, authorization denied")
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			log.Debug().Err(err).Msg("RequireAuth: invalid token")
			reject(c, "Token is not valid")
			return
		}

		c.Set(UserIDKey, subjectOf(claims))
		c.Next()
	}
}
