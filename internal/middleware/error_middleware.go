package middleware

import (
	"net/http"

	"classifieds-core/internal/transport/httpdto"
	"classifieds-core/pkg/logger"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders errors attached with c.Error and reports server-side failures to Sentry.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status, body := httpdto.ErrorFor(err)
		if status >= http.StatusInternalServerError {
			if l != nil {
				l.ErrorCtx(c.Request.Context(), "request failed",
					zap.String("path", c.FullPath()),
					zap.Int("status", status),
					zap.Error(err),
				)
			}
			if hub := sentry.CurrentHub(); hub.Client() != nil {
				hub.Clone().CaptureException(err)
			}
		}
		if !c.Writer.Written() {
			c.JSON(status, body)
		}
	}
}
