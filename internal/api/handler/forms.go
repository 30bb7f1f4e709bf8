package handler

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// FieldErrors 表单字段 -> 错误信息；"__all__" 为非字段错误
type FieldErrors map[string]string

const nonFieldErrors = "__all__"

func (e FieldErrors) Add(field, msg string) FieldErrors {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
	return e
}

type postForm struct {
	Text       string `form:"text" binding:"required,notblank"`
	Group      string `form:"group" binding:"omitempty,numeric"`
	ClearImage bool   `form:"image-clear"`
}

// groupID 空字符串表示“不选择分组”
func (f postForm) groupID() *uint {
	if f.Group == "" {
		return nil
	}
	n, err := strconv.ParseUint(f.Group, 10, 64)
	if err != nil || n == 0 {
		return nil
	}
	id := uint(n)
	return &id
}

type commentForm struct {
	Text string `form:"text" binding:"required,notblank"`
}

type signupForm struct {
	FirstName string `form:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" binding:"max=150"`
	Username  string `form:"username" binding:"required,max=150,username"`
	Email     string `form:"email" binding:"omitempty,email"`
	Password1 string `form:"password1" binding:"required,min=8,max=72"`
	Password2 string `form:"password2" binding:"required,eqfield=Password1"`
}

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

type passwordChangeForm struct {
	OldPassword  string `form:"old_password" binding:"required"`
	NewPassword1 string `form:"new_password1" binding:"required,min=8,max=72"`
	NewPassword2 string `form:"new_password2" binding:"required,eqfield=NewPassword1"`
}

var registerOnce sync.Once

// registerValidators 注册自定义校验规则，并让错误信息使用 form 字段名
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("username", validUsername)
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// validUsername 只允许字母、数字和 @ . + - _
func validUsername(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), strings.ContainsRune("@.+-_", r):
		default:
			return false
		}
	}
	return true
}

// bindForm 绑定并校验表单，返回字段错误（无错误时为空 map）
func bindForm(c *gin.Context, form any) FieldErrors {
	registerValidators()
	errs := FieldErrors{}
	err := c.ShouldBind(form)
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs.Add(nonFieldErrors, "Некорректные данные формы.")
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), messageFor(fe))
	}
	return errs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "Обязательное поле."
	case "max":
		return "Слишком длинное значение (максимум " + fe.Param() + ")."
	case "min":
		return "Слишком короткое значение (минимум " + fe.Param() + ")."
	case "email":
		return "Введите правильный адрес электронной почты."
	case "eqfield":
		return "Введённые пароли не совпадают."
	case "numeric":
		return "Выберите корректный вариант."
	case "username":
		return "Допустимы только буквы, цифры и символы @/./+/-/_."
	}
	return "Некорректное значение."
}
