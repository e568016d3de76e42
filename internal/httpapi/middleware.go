// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package httpapi

import (
	"crypto/rand"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"github.com/askboard/askboard/internal/auth"
	"github.com/askboard/askboard/internal/logging"
	"github.com/askboard/askboard/internal/observability"
)

// sessionKey is the gin context key holding the verified auth.Session.
const sessionKey = "askboard.session"

// RequestID assigns each request a ULID, propagates it through the
// request context for log correlation, and echoes it back to the client.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
		ctx := logging.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// RequestLogger logs each request after completion and records request
// metrics. metrics may be nil.
func RequestLogger(logger *slog.Logger, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()

		logger.InfoContext(c.Request.Context(), "request",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
		)

		if metrics != nil {
			metrics.HTTPRequestsTotal.
				WithLabelValues(c.Request.Method, route, http.StatusText(status)).Inc()
			metrics.HTTPRequestDuration.
				WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())
		}
	}
}

// CORS allows cross-origin browser clients. Preflight requests are
// answered directly.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// AuthRequired verifies the Authorization header and stores the session
// in the request context. Missing, malformed, and expired tokens all
// produce the same 401 response; the distinction is logged at debug
// level only.
func AuthRequired(codec *auth.TokenCodec, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			logger.DebugContext(c.Request.Context(), "auth rejected", "reason", "missing header")
			unauthorized(c)
			return
		}

		session, err := codec.Verify(token, time.Now())
		if err != nil {
			logger.DebugContext(c.Request.Context(), "auth rejected", "error", err)
			unauthorized(c)
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// sessionFrom returns the session stored by AuthRequired.
func sessionFrom(c *gin.Context) (auth.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return auth.Session{}, false
	}
	session, ok := v.(auth.Session)
	return session, ok
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing session token"})
}
