package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Humphrey-He/vanya/pkg/auth"
	verrors "github.com/Humphrey-He/vanya/pkg/errors"
)

// RequestLogger returns a middleware that logs one line per request.
//
// RequestLogger 返回一个为每个请求记录一行日志的中间件。
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("Request failed", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("Request rejected", fields...)
		default:
			logger.Info("Request served", fields...)
		}
	}
}

// Recovery returns a middleware that turns a panic into a 500 response and
// logs it with the stack.
//
// Recovery 返回一个将panic转换为500响应并记录堆栈的中间件。
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}

// RequireAuth rejects requests while no user is signed in.
//
// RequireAuth 在没有用户登录时拒绝请求。
func RequireAuth(store *auth.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !store.IsAuthenticated() {
			abortWithError(c, verrors.ErrNotAuthenticated)
			return
		}
		c.Next()
	}
}
