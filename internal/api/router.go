package api

import (
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/yatube/config"
	_ "github.com/d60-Lab/yatube/docs"
	"github.com/d60-Lab/yatube/internal/api/handler"
	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/internal/auth"
	"github.com/d60-Lab/yatube/internal/pagecache"
	"github.com/d60-Lab/yatube/pkg/response"
)

// Options 路由依赖
type Options struct {
	Config     *config.Config
	Handler    *handler.Handler
	Tokens     *auth.TokenManager
	PageCache  *pagecache.Store
	HTMLRender render.HTMLRender
}

// NewRouter 组装中间件与全部路由
func NewRouter(opts Options) *gin.Engine {
	cfg := opts.Config
	h := opts.Handler

	r := gin.New()
	r.HTMLRender = opts.HTMLRender

	r.Use(middleware.RequestID(), middleware.AccessLog(), middleware.Recovery())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if len(cfg.CORS.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", "X-Cache"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)))
	r.Use(middleware.Session(opts.Tokens, cfg.Auth.CookieName))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.Static(cfg.Media.URLPrefix, cfg.Media.Root)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 公开页面
	r.GET("/", pagecache.Middleware(opts.PageCache), h.Index)
	r.GET("/group/:slug/", h.GroupPosts)
	r.GET("/profile/:username/", h.Profile)
	r.GET("/posts/:post_id/", h.PostDetail)

	// 需要登录
	protected := r.Group("/", middleware.LoginRequired(cfg.Auth.LoginURL))
	{
		protected.GET("/create/", h.PostCreate)
		protected.POST("/create/", h.PostCreate)
		protected.GET("/posts/:post_id/edit/", h.PostEdit)
		protected.POST("/posts/:post_id/edit/", h.PostEdit)
		protected.POST("/posts/:post_id/comment/", h.AddComment)
		protected.GET("/follow/", h.FollowIndex)
		protected.GET("/profile/:username/follow/", h.ProfileFollow)
		protected.GET("/profile/:username/unfollow/", h.ProfileUnfollow)
	}

	accounts := r.Group("/auth")
	{
		accounts.GET("/signup/", h.Signup)
		accounts.POST("/signup/", h.Signup)
		accounts.GET("/login/", h.Login)
		accounts.POST("/login/", h.Login)
		accounts.GET("/logout/", h.Logout)
		accounts.POST("/logout/", h.Logout)

		loggedIn := accounts.Group("", middleware.LoginRequired(cfg.Auth.LoginURL))
		loggedIn.GET("/password_change/", h.PasswordChange)
		loggedIn.POST("/password_change/", h.PasswordChange)
		loggedIn.GET("/password_change/done/", h.PasswordChangeDone)
	}

	r.NoRoute(response.NotFound)
	return r
}
