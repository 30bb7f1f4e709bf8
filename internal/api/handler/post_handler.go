package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/auth"
	"github.com/d60-Lab/yatube/internal/media"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/logger"
	"github.com/d60-Lab/yatube/pkg/response"
)

// Index 首页：全部帖子
// @Summary 全部帖子
// @Tags posts
// @Produce html
// @Param page query int false "页码"
// @Success 200 {string} string "index.html"
// @Router / [get]
func (h *Handler) Index(c *gin.Context) {
	page, err := h.postService.ListAll(c.Request.Context(), c.Query("page"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.page(c, http.StatusOK, "index.html", gin.H{"page_obj": page, "index": true})
}

// GroupPosts 分组帖子列表
// @Summary 分组帖子
// @Tags posts
// @Produce html
// @Param slug path string true "分组 slug"
// @Param page query int false "页码"
// @Success 200 {string} string "group_list.html"
// @Failure 404 {string} string "error.html"
// @Router /group/{slug}/ [get]
func (h *Handler) GroupPosts(c *gin.Context) {
	feed, err := h.postService.ListByGroup(c.Request.Context(), c.Param("slug"), c.Query("page"))
	if errors.Is(err, service.ErrNotFound) {
		response.NotFound(c)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.page(c, http.StatusOK, "group_list.html", gin.H{"group": feed.Group, "page_obj": feed.Page})
}

// Profile 作者主页
// @Summary 作者帖子
// @Tags posts
// @Produce html
// @Param username path string true "用户名"
// @Param page query int false "页码"
// @Success 200 {string} string "profile.html"
// @Failure 404 {string} string "error.html"
// @Router /profile/{username}/ [get]
func (h *Handler) Profile(c *gin.Context) {
	feed, err := h.postService.ListByAuthor(c.Request.Context(), c.Param("username"),
		auth.CurrentIdentity(c), c.Query("page"))
	if errors.Is(err, service.ErrNotFound) {
		response.NotFound(c)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.page(c, http.StatusOK, "profile.html", gin.H{
		"author":            feed.Author,
		"page_obj":          feed.Page,
		"count_posts":       feed.PostCount,
		"followers":         feed.Followers,
		"following":         feed.Following,
		"show_subscription": feed.ShowSubscription,
	})
}

// PostDetail 帖子详情
// @Summary 帖子详情
// @Tags posts
// @Produce html
// @Param post_id path int true "帖子 ID"
// @Success 200 {string} string "post_detail.html"
// @Failure 404 {string} string "error.html"
// @Router /posts/{post_id}/ [get]
func (h *Handler) PostDetail(c *gin.Context) {
	id, ok := parseID(c, "post_id")
	if !ok {
		response.NotFound(c)
		return
	}
	detail, err := h.postService.Detail(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		response.NotFound(c)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.page(c, http.StatusOK, "post_detail.html", gin.H{
		"post":        detail.Post,
		"comments":    detail.Comments,
		"count_posts": detail.AuthorPostCount,
		"form":        commentForm{},
	})
}

// PostCreate 新建帖子
// @Summary 新建帖子
// @Tags posts
// @Accept multipart/form-data
// @Produce html
// @Param text formData string true "正文"
// @Param group formData int false "分组 ID"
// @Param image formData file false "图片"
// @Success 200 {string} string "create_post.html"
// @Success 302 {string} string "跳转到作者主页"
// @Router /create/ [post]
func (h *Handler) PostCreate(c *gin.Context) {
	if c.Request.Method == http.MethodGet {
		h.postForm(c, postForm{}, FieldErrors{}, nil)
		return
	}
	me := auth.CurrentIdentity(c)

	var form postForm
	errs := bindForm(c, &form)
	in, errs := h.postInput(c, form, errs)
	if len(errs) > 0 {
		h.postForm(c, form, errs, nil)
		return
	}
	_, err := h.postService.Create(c.Request.Context(), me, in)
	if errors.Is(err, service.ErrInvalidGroup) {
		h.discardImage(in.Image)
		h.postForm(c, form, errs.Add("group", messageInvalidGroup), nil)
		return
	}
	if err != nil {
		h.discardImage(in.Image)
		response.InternalError(c, err)
		return
	}
	response.Redirect(c, ProfileURL(me.Username))
}

// PostEdit 编辑帖子，仅作者可操作；其他人静默跳回详情页
// @Summary 编辑帖子
// @Tags posts
// @Accept multipart/form-data
// @Produce html
// @Param post_id path int true "帖子 ID"
// @Param text formData string true "正文"
// @Param group formData int false "分组 ID"
// @Param image formData file false "图片"
// @Success 200 {string} string "create_post.html"
// @Success 302 {string} string "跳转到帖子详情"
// @Failure 404 {string} string "error.html"
// @Router /posts/{post_id}/edit/ [post]
func (h *Handler) PostEdit(c *gin.Context) {
	id, ok := parseID(c, "post_id")
	if !ok {
		response.NotFound(c)
		return
	}
	ctx := c.Request.Context()
	me := auth.CurrentIdentity(c)

	post, err := h.postService.Get(ctx, id)
	if errors.Is(err, service.ErrNotFound) {
		response.NotFound(c)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post.AuthorID != me.ID {
		response.Redirect(c, PostURL(post.ID))
		return
	}

	if c.Request.Method == http.MethodGet {
		form := postForm{Text: post.Text}
		if post.GroupID != nil {
			form.Group = UintString(*post.GroupID)
		}
		h.postForm(c, form, FieldErrors{}, post)
		return
	}

	var form postForm
	errs := bindForm(c, &form)
	in, errs := h.postInput(c, form, errs)
	if len(errs) > 0 {
		h.postForm(c, form, errs, post)
		return
	}
	_, err = h.postService.Update(ctx, me, id, in)
	switch {
	case errors.Is(err, service.ErrNotAuthor):
		h.discardImage(in.Image)
		response.Redirect(c, PostURL(id))
	case errors.Is(err, service.ErrInvalidGroup):
		h.discardImage(in.Image)
		h.postForm(c, form, errs.Add("group", messageInvalidGroup), post)
	case errors.Is(err, service.ErrNotFound):
		h.discardImage(in.Image)
		response.NotFound(c)
	case err != nil:
		h.discardImage(in.Image)
		response.InternalError(c, err)
	default:
		if in.Image != "" || in.ClearImage {
			h.discardImage(post.Image)
		}
		response.Redirect(c, PostURL(id))
	}
}

const messageInvalidGroup = "Выберите корректный вариант. Вашего варианта нет среди допустимых значений."

// postInput 把表单转换为 service 输入；图片只在其它字段合法时才落盘
func (h *Handler) postInput(c *gin.Context, form postForm, errs FieldErrors) (service.PostInput, FieldErrors) {
	in := service.PostInput{Text: form.Text, GroupID: form.groupID(), ClearImage: form.ClearImage}
	if len(errs) > 0 {
		return in, errs
	}
	fh, err := c.FormFile("image")
	if err != nil {
		// 未上传图片
		return in, errs
	}
	ref, err := h.media.Save(fh)
	switch {
	case errors.Is(err, media.ErrTooLarge):
		errs.Add("image", "Файл слишком большой.")
	case errors.Is(err, media.ErrNotImage):
		errs.Add("image", "Загрузите правильное изображение. Файл, который вы загрузили, поврежден или не является изображением.")
	case err != nil:
		logger.Error("save upload", zap.Error(err))
		errs.Add("image", "Не удалось сохранить файл.")
	default:
		in.Image = ref
		in.ClearImage = false
	}
	return in, errs
}

func (h *Handler) discardImage(ref string) {
	if err := h.media.Remove(ref); err != nil {
		logger.Warn("remove media", zap.String("ref", ref), zap.Error(err))
	}
}

// postForm 渲染创建/编辑表单；post 非 nil 时为编辑模式
func (h *Handler) postForm(c *gin.Context, form postForm, errs FieldErrors, post *model.Post) {
	groups, err := h.groupService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	data := gin.H{
		"form":   form,
		"errors": errs,
		"groups": groups,
	}
	if post != nil {
		data["is_edit"] = true
		data["post"] = post
	}
	h.page(c, http.StatusOK, "create_post.html", data)
}
