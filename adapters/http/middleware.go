package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

// ErrorHandler drains errors attached by handlers via c.Error and writes a
// single JSON body for the last one. Handlers stay free of status mapping.
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status := apperror.ToHTTPStatus(err)

		if status >= http.StatusInternalServerError {
			log.Error("request failed", err, zap.String("path", c.FullPath()), zap.Int("status", status))
		} else {
			log.Warn("request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.JSON(status, appErr.ToJSON())
			return
		}
		c.JSON(status, gin.H{"error": "internal server error"})
	}
}
