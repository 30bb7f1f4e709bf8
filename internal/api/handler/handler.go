package handler

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/auth"
	"github.com/d60-Lab/yatube/internal/media"
	"github.com/d60-Lab/yatube/internal/service"
)

// SessionOptions 会话 cookie 与登录页配置
type SessionOptions struct {
	CookieName   string
	CookieSecure bool
	LoginURL     string
}

// Handler 所有页面处理器
type Handler struct {
	postService    service.PostService
	commentService service.CommentService
	relService     service.RelationshipService
	userService    service.UserService
	groupService   service.GroupService
	media          *media.Store
	tokens         *auth.TokenManager
	session        SessionOptions
}

func NewHandler(
	postService service.PostService,
	commentService service.CommentService,
	relService service.RelationshipService,
	userService service.UserService,
	groupService service.GroupService,
	mediaStore *media.Store,
	tokens *auth.TokenManager,
	session SessionOptions,
) *Handler {
	return &Handler{
		postService:    postService,
		commentService: commentService,
		relService:     relService,
		userService:    userService,
		groupService:   groupService,
		media:          mediaStore,
		tokens:         tokens,
		session:        session,
	}
}

// page 渲染页面，统一注入当前用户
func (h *Handler) page(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["user"] = auth.CurrentIdentity(c)
	c.HTML(status, name, data)
}

// parseID 路径中的正整数 id
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func ProfileURL(username string) string { return "/profile/" + url.PathEscape(username) + "/" }

func PostURL(id uint) string { return fmt.Sprintf("/posts/%d/", id) }

func PostEditURL(id uint) string { return fmt.Sprintf("/posts/%d/edit/", id) }

func GroupURL(slug string) string { return "/group/" + url.PathEscape(slug) + "/" }

// UintString 表单与模板里用到的 ID 字符串
func UintString(n uint) string { return strconv.FormatUint(uint64(n), 10) }
