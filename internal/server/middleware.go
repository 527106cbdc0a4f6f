package server

import (
	"strconv"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-lawnquote/internal/logging"
	"github.com/goliatone/go-lawnquote/internal/metrics"
	lqsessions "github.com/goliatone/go-lawnquote/internal/sessions"
	"github.com/goliatone/go-lawnquote/pkg/quote"
)

const (
	cookieKeySessionID = "session_id"
	contextKeySession  = "quote_session"
)

// requestLogger logs every request through zap and records its latency.
func requestLogger(logger *zap.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		m.ObserveRequest(route, strconv.Itoa(status), elapsed)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
		}
		if session, ok := c.Get(contextKeySession); ok {
			fields = append(fields, logging.SessionField(session.(*quote.Session).ID()))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
			logger.Warn("request failed", fields...)
			return
		}
		logger.Debug("request", fields...)
	}
}

// quoteSession resolves the browser's quote session from the cookie,
// creating one when the cookie is missing or its session has expired.
func quoteSession(manager *lqsessions.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookieSession := sessions.Default(c)
		id, _ := cookieSession.Get(cookieKeySessionID).(string)

		session, created := manager.GetOrCreate(id)
		if created {
			cookieSession.Set(cookieKeySessionID, session.ID())
			if err := cookieSession.Save(); err != nil {
				logger.Error("save session cookie", logging.SessionField(session.ID()), zap.Error(err))
			}
		}
		c.Set(contextKeySession, session)
		c.Next()
	}
}

func currentSession(c *gin.Context) *quote.Session {
	return c.MustGet(contextKeySession).(*quote.Session)
}
