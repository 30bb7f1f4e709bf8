// Package web 内嵌 handler 渲染用的 HTML 模板
package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/d60-Lab/yatube/internal/api/handler"
	"github.com/d60-Lab/yatube/internal/auth"
)

//go:embed templates/*.html
var files embed.FS

// Parse 解析全部模板；mediaURL 把图片引用转换为访问地址
func Parse(mediaURL func(string) string) (*template.Template, error) {
	return template.New("").Funcs(Funcs(mediaURL)).ParseFS(files, "templates/*.html")
}

// Funcs 模板函数
func Funcs(mediaURL func(string) string) template.FuncMap {
	return template.FuncMap{
		"mediaURL":   mediaURL,
		"postURL":    handler.PostURL,
		"editURL":    handler.PostEditURL,
		"profileURL": handler.ProfileURL,
		"groupURL":   handler.GroupURL,
		"authed": func(v any) bool {
			id, ok := v.(auth.Identity)
			return ok && id.Authenticated()
		},
		"isAuthor": func(v any, authorID uint) bool {
			id, ok := v.(auth.Identity)
			return ok && id.Authenticated() && id.ID == authorID
		},
		"date": func(t time.Time) string { return t.Format("02.01.2006") },
		"selected": func(current string, id uint) bool {
			return current != "" && current == handler.UintString(id)
		},
	}
}
