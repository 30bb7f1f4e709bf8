package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/auth"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/logger"
	"github.com/d60-Lab/yatube/pkg/response"
)

const (
	passwordChangeDoneURL  = "/auth/password_change/done/"
	passwordTooLongMessage = "Слишком длинный пароль (максимум 72 байта)."
)

// Signup 注册
// @Summary 注册
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce html
// @Success 200 {string} string "signup.html"
// @Success 302 {string} string "跳转到登录页"
// @Router /auth/signup/ [post]
func (h *Handler) Signup(c *gin.Context) {
	if c.Request.Method == http.MethodGet {
		h.page(c, http.StatusOK, "signup.html", gin.H{"form": signupForm{}, "errors": FieldErrors{}})
		return
	}
	var form signupForm
	errs := bindForm(c, &form)
	if len(errs) == 0 {
		_, err := h.userService.Signup(c.Request.Context(), service.SignupInput{
			Username:  form.Username,
			Email:     form.Email,
			FirstName: form.FirstName,
			LastName:  form.LastName,
			Password:  form.Password1,
		})
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			errs.Add("username", "Пользователь с таким именем уже существует.")
		case errors.Is(err, auth.ErrPasswordTooLong):
			errs.Add("password1", passwordTooLongMessage)
		case err != nil:
			response.InternalError(c, err)
			return
		default:
			response.Redirect(c, h.session.LoginURL)
			return
		}
	}
	form.Password1, form.Password2 = "", ""
	h.page(c, http.StatusOK, "signup.html", gin.H{"form": form, "errors": errs})
}

// Login 登录，成功后写入会话 cookie 并跳转到 next
// @Summary 登录
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce html
// @Param next query string false "登录后返回的地址"
// @Success 200 {string} string "login.html"
// @Success 302 {string} string "跳转到 next 或首页"
// @Router /auth/login/ [post]
func (h *Handler) Login(c *gin.Context) {
	if c.Request.Method == http.MethodGet {
		h.page(c, http.StatusOK, "login.html", gin.H{
			"form":   loginForm{Next: c.Query("next")},
			"errors": FieldErrors{},
		})
		return
	}
	var form loginForm
	errs := bindForm(c, &form)
	if form.Next == "" {
		form.Next = c.Query("next")
	}
	if len(errs) == 0 {
		u, err := h.userService.Authenticate(c.Request.Context(), form.Username, form.Password)
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			errs.Add(nonFieldErrors, "Пожалуйста, введите правильные имя пользователя и пароль.")
		case err != nil:
			response.InternalError(c, err)
			return
		default:
			if err := h.startSession(c, auth.Identity{ID: u.ID, Username: u.Username}); err != nil {
				response.InternalError(c, err)
				return
			}
			logger.Info("user logged in", zap.Uint("user_id", u.ID))
			response.Redirect(c, SafeNext(form.Next, "/"))
			return
		}
	}
	form.Password = ""
	h.page(c, http.StatusOK, "login.html", gin.H{"form": form, "errors": errs})
}

// Logout 清除会话
// @Summary 退出
// @Tags auth
// @Produce html
// @Success 200 {string} string "logged_out.html"
// @Router /auth/logout/ [post]
func (h *Handler) Logout(c *gin.Context) {
	h.clearSession(c)
	// 当前请求内也视为匿名
	auth.SetIdentity(c, auth.Identity{})
	h.page(c, http.StatusOK, "logged_out.html", nil)
}

// PasswordChange 修改密码
// @Summary 修改密码
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce html
// @Success 200 {string} string "password_change.html"
// @Success 302 {string} string "跳转到完成页"
// @Router /auth/password_change/ [post]
func (h *Handler) PasswordChange(c *gin.Context) {
	if c.Request.Method == http.MethodGet {
		h.page(c, http.StatusOK, "password_change.html", gin.H{"errors": FieldErrors{}})
		return
	}
	var form passwordChangeForm
	errs := bindForm(c, &form)
	if len(errs) == 0 {
		err := h.userService.ChangePassword(c.Request.Context(), auth.CurrentIdentity(c),
			form.OldPassword, form.NewPassword1)
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			errs.Add("old_password", "Ваш старый пароль введен неправильно. Пожалуйста, введите его снова.")
		case errors.Is(err, auth.ErrPasswordTooLong):
			errs.Add("new_password1", passwordTooLongMessage)
		case err != nil:
			response.InternalError(c, err)
			return
		default:
			response.Redirect(c, passwordChangeDoneURL)
			return
		}
	}
	h.page(c, http.StatusOK, "password_change.html", gin.H{"errors": errs})
}

// PasswordChangeDone 修改成功页
func (h *Handler) PasswordChangeDone(c *gin.Context) {
	h.page(c, http.StatusOK, "password_change_done.html", nil)
}

func (h *Handler) startSession(c *gin.Context, id auth.Identity) error {
	token, err := h.tokens.Issue(id)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, token, int(h.tokens.TTL().Seconds()), "/", "", h.session.CookieSecure, true)
	return nil
}

func (h *Handler) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, "", -1, "/", "", h.session.CookieSecure, true)
}

// SafeNext 只允许站内相对路径，防止开放重定向
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return next
}
