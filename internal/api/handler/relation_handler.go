package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/auth"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/response"
)

// FollowIndex 关注作者的帖子流
// @Summary 关注流
// @Tags relation
// @Produce html
// @Param page query int false "页码"
// @Success 200 {string} string "follow.html"
// @Router /follow/ [get]
func (h *Handler) FollowIndex(c *gin.Context) {
	me := auth.CurrentIdentity(c)
	page, err := h.relService.FeedFor(c.Request.Context(), me.ID, c.Query("page"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.page(c, http.StatusOK, "follow.html", gin.H{"page_obj": page, "follow": true})
}

// ProfileFollow 关注作者；关注自己或重复关注静默忽略
// @Summary 关注作者
// @Tags relation
// @Param username path string true "作者用户名"
// @Success 302 {string} string "跳转到作者主页"
// @Failure 404 {string} string "error.html"
// @Router /profile/{username}/follow/ [get]
func (h *Handler) ProfileFollow(c *gin.Context) {
	h.changeFollow(c, h.relService.Follow)
}

// ProfileUnfollow 取消关注；未关注时静默忽略
// @Summary 取消关注
// @Tags relation
// @Param username path string true "作者用户名"
// @Success 302 {string} string "跳转到作者主页"
// @Failure 404 {string} string "error.html"
// @Router /profile/{username}/unfollow/ [get]
func (h *Handler) ProfileUnfollow(c *gin.Context) {
	h.changeFollow(c, h.relService.Unfollow)
}

func (h *Handler) changeFollow(c *gin.Context, op func(ctx context.Context, followerID, authorID uint) error) {
	ctx := c.Request.Context()
	author, err := h.userService.GetByUsername(ctx, c.Param("username"))
	if errors.Is(err, service.ErrNotFound) {
		response.NotFound(c)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if err := op(ctx, auth.CurrentIdentity(c).ID, author.ID); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Redirect(c, ProfileURL(author.Username))
}
