package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                      "/",
		"/create/":              "/create/",
		"/posts/1/?page=2":      "/posts/1/?page=2",
		"//evil.example.com/":   "/",
		"https://evil.example/": "/",
		`/\evil.example.com`:    "/",
		"relative/path":         "/",
	}
	for next, want := range cases {
		assert.Equal(t, want, SafeNext(next, "/"), next)
	}
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "/posts/5/", PostURL(5))
	assert.Equal(t, "/posts/5/edit/", PostEditURL(5))
	assert.Equal(t, "/profile/leo/", ProfileURL("leo"))
	assert.Equal(t, "/group/cats/", GroupURL("cats"))
}

func bind(t *testing.T, form any, values url.Values) FieldErrors {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return bindForm(c, form)
}

func TestBindFormErrors(t *testing.T) {
	var pf postForm
	errs := bind(t, &pf, url.Values{"text": {"  "}, "group": {"x"}})
	assert.Equal(t, "Обязательное поле.", errs["text"])
	assert.Contains(t, errs, "group")

	pf = postForm{}
	errs = bind(t, &pf, url.Values{"text": {"пост"}, "group": {"3"}})
	assert.Empty(t, errs)
	if assert.NotNil(t, pf.groupID()) {
		assert.Equal(t, uint(3), *pf.groupID())
	}
	assert.Nil(t, postForm{}.groupID())

	var sf signupForm
	errs = bind(t, &sf, url.Values{
		"username":  {"bad name!"},
		"email":     {"not-an-email"},
		"password1": {"short"},
		"password2": {"other"},
	})
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password1")
	assert.Equal(t, "Введённые пароли не совпадают.", errs["password2"])

	sf = signupForm{}
	errs = bind(t, &sf, url.Values{
		"username":  {"лев.толстой"},
		"password1": {"war-and-peace"},
		"password2": {"war-and-peace"},
	})
	assert.Empty(t, errs)
}

func TestBindFormPasswordTooLong(t *testing.T) {
	long := strings.Repeat("a", 80)

	var sf signupForm
	errs := bind(t, &sf, url.Values{
		"username":  {"leo"},
		"password1": {long},
		"password2": {long},
	})
	assert.Equal(t, "Слишком длинное значение (максимум 72).", errs["password1"])

	var pf passwordChangeForm
	errs = bind(t, &pf, url.Values{
		"old_password":  {"war-and-peace"},
		"new_password1": {long},
		"new_password2": {long},
	})
	assert.Contains(t, errs, "new_password1")
}
