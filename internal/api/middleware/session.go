package middleware

import (
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/auth"
	"github.com/d60-Lab/yatube/pkg/response"
)

// Session 解析会话 cookie，合法时写入当前身份；无效 cookie 按匿名处理
func Session(tokens *auth.TokenManager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(cookieName); err == nil && raw != "" {
			if id, err := tokens.Parse(raw); err == nil {
				auth.SetIdentity(c, id)
			}
		}
		c.Next()
	}
}

// LoginRequired 未登录时跳转到登录页，并带上 next 以便登录后返回
func LoginRequired(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.CurrentIdentity(c).Authenticated() {
			c.Next()
			return
		}
		response.Redirect(c, LoginRedirect(loginURL, c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// LoginRedirect 生成 "<loginURL>?next=<转义后的路径>"
func LoginRedirect(loginURL, next string) string {
	return loginURL + "?" + url.Values{"next": {next}}.Encode()
}
