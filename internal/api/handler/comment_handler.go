package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/auth"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/response"
)

// AddComment 添加评论；表单无效时不保存，同样跳回详情页
// @Summary 添加评论
// @Tags comments
// @Accept x-www-form-urlencoded
// @Param post_id path int true "帖子 ID"
// @Param text formData string true "评论内容"
// @Success 302 {string} string "跳转到帖子详情"
// @Failure 404 {string} string "error.html"
// @Router /posts/{post_id}/comment/ [post]
func (h *Handler) AddComment(c *gin.Context) {
	id, ok := parseID(c, "post_id")
	if !ok {
		response.NotFound(c)
		return
	}
	ctx := c.Request.Context()
	if _, err := h.postService.Get(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}

	var form commentForm
	if errs := bindForm(c, &form); len(errs) == 0 {
		_, err := h.commentService.Add(ctx, auth.CurrentIdentity(c), id, form.Text)
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c)
			return
		}
		if err != nil {
			response.InternalError(c, err)
			return
		}
	}
	response.Redirect(c, PostURL(id))
}
