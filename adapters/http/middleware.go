package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/auth"
	"github.com/khoahotran/devfolio/pkg/logger"
	"github.com/khoahotran/devfolio/pkg/ratelimit"
)

const (
	GinContextKeyOwnerID   = "ownerID"
	GinContextKeyRequestID = "requestID"
	HeaderRequestID        = "X-Request-Id"
)

type ownerIDKey struct{}

// RequireAuth rejects the request with 401 unless one credential carrier
// holds a valid token.
func RequireAuth(verifier *auth.Verifier, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := authenticate(c, verifier, log)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}
		if !ok {
			c.Error(apperror.NewUnauthorized("Unauthenticated or invalid token", nil))
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the owner id when a valid credential is present and
// lets anonymous requests through otherwise. A server without a signing key
// still fails.
func OptionalAuth(verifier *auth.Verifier, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := authenticate(c, verifier, log); err != nil {
			c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, verifier *auth.Verifier, log logger.Logger) (bool, error) {
	outcome, err := verifier.Verify(c.Request)
	if err != nil {
		log.Error("JWT secret is not configured", err)
		return false, apperror.NewConfiguration("token verification unavailable", err)
	}

	for _, attempt := range outcome.Attempts {
		if attempt.Accepted || errors.Is(attempt.Reason, auth.ErrNoCredential) {
			continue
		}
		log.Debug("Credential rejected",
			zap.String("source", attempt.Source), zap.String("reason", attempt.Reason.Error()))
	}
	if !outcome.Accepted {
		return false, nil
	}

	c.Set(GinContextKeyOwnerID, outcome.OwnerID)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ownerIDKey{}, outcome.OwnerID))
	return true, nil
}

func GetOwnerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	ownerID, ok := ctx.Value(ownerIDKey{}).(uuid.UUID)
	return ownerID, ok
}

func GetOwnerIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	ownerID, ok := c.Get(GinContextKeyOwnerID)
	if !ok {
		return uuid.Nil, false
	}
	ownerIDUUID, ok := ownerID.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	return ownerIDUUID, true
}

// ErrorMiddleware renders the last error a handler pushed with c.Error as
// the failure envelope.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := apperror.ToHTTPStatus(err)
		fields := []zap.Field{
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.String("request_id", c.GetString(GinContextKeyRequestID)),
		}
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err, fields...)
		} else {
			log.Warn("Request rejected", append(fields, zap.Error(err))...)
		}

		c.JSON(status, gin.H{
			"success": false,
			"message": apperror.ClientMessage(err),
		})
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(HeaderRequestID, reqID)
		c.Set(GinContextKeyRequestID, reqID)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			zap.String("ip", c.ClientIP()),
		}
		if ownerID, ok := GetOwnerIDFromGinContext(c); ok {
			fields = append(fields, zap.String("owner_id", ownerID.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request", nil, fields...)
		case status >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// RateLimit answers 429 once a client IP runs out of tokens.
func RateLimit(limiter *ratelimit.KeyedRateLimiter, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !limiter.Allow(key) {
			log.Warn("Rate limit exceeded", zap.String("ip", key), zap.String("path", c.FullPath()))
			c.Error(apperror.NewTooManyRequests())
			c.Abort()
			return
		}
		c.Next()
	}
}
