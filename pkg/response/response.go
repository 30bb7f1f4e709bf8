package response

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/pkg/logger"
)

// ErrorTemplate 错误页模板名
const ErrorTemplate = "error.html"

// Redirect 302 跳转
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// NotFound 404 页面
func NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, ErrorTemplate, gin.H{
		"status":  http.StatusNotFound,
		"message": "Страница не найдена",
	})
}

// InternalError 记录日志、上报 Sentry 并渲染 500 页面
func InternalError(c *gin.Context, err error) {
	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	_ = c.Error(err)
	c.HTML(http.StatusInternalServerError, ErrorTemplate, gin.H{
		"status":  http.StatusInternalServerError,
		"message": "Внутренняя ошибка сервера",
	})
}
