package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/fairlance-backend/internal/interface/http/response"
	"github.com/ignatzorin/fairlance-backend/internal/logger"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

// ErrorHandler логирует ошибки запроса и отвечает, если хэндлер ничего не записал.
// Внутренние ошибки маскируются, сообщения AppError отдаются как есть.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		fields := logrus.Fields{
			"error":  err.Error(),
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.HTTPStatus < http.StatusInternalServerError {
			logger.Log.WithFields(fields).Warn("request rejected")
		} else {
			logger.Log.WithFields(fields).Error("request error")
		}

		if c.Writer.Written() {
			return
		}
		response.Error(c, err)
	}
}

// Recovery превращает панику в 500 с тем же форматом ответа.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Log.WithFields(logrus.Fields{
			"panic":  recovered,
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).Error("panic recovered")
		response.Error(c, apperror.New(apperror.ErrCodeInternal, "внутренняя ошибка сервера"))
		c.Abort()
	})
}
