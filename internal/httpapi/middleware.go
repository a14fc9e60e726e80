package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spigell/resume-coach/internal/apperr"
	"github.com/spigell/resume-coach/internal/auth"
	"github.com/spigell/resume-coach/internal/logger"
	"go.uber.org/zap"
)

const identityKey = "identity"

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if id, ok := identityFrom(c); ok {
			fields = append(fields, zap.String(logger.FieldUserID, id.UserID))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error("http request", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("http request", fields...)
		default:
			log.Info("http request", fields...)
		}
	}
}

func recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic while serving request", zap.Any("panic", recovered), zap.String("path", c.FullPath()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
}

func requireAuth(authn Authenticator, cookieName string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cookieName)
		if token == "" || authn == nil {
			abortWithError(c, log, apperr.Unauthorized("missing or invalid token", auth.ErrInvalidToken))
			return
		}

		id, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidToken) {
				log.Warn("authenticate request", zap.Error(err))
			}
			abortWithError(c, log, apperr.Unauthorized("missing or invalid token", err))
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// extractToken prefers the cookie and falls back to the Authorization header.
func extractToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func identityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

// abortWithError writes the {error} envelope. Only the public message of an
// error reaches the caller; internal failures are logged.
func abortWithError(c *gin.Context, log *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	status := apperr.Status(kind)

	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(status, gin.H{"error": apperr.PublicMessage(err)})
}
