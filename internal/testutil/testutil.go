// Package testutil 测试用内存数据库与数据构造
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/pkg/database"
)

// NewDB 每个测试独立的 sqlite 内存库，已建表并开启外键
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.Open("sqlite", dsn, "silent")
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// CreateUser 插入用户，密码哈希为占位值
func CreateUser(tb testing.TB, db *gorm.DB, username string) *model.User {
	tb.Helper()
	u := &model.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func CreateGroup(tb testing.TB, db *gorm.DB, slug string) *model.Group {
	tb.Helper()
	g := &model.Group{Title: "Группа " + slug, Slug: slug, Description: "Тестовое описание"}
	if err := db.Create(g).Error; err != nil {
		tb.Fatalf("create group %s: %v", slug, err)
	}
	return g
}

// CreatePosts 插入 n 个帖子，创建时间逐个递增一秒（最后一个最新）
func CreatePosts(tb testing.TB, db *gorm.DB, author *model.User, group *model.Group, n int) []*model.Post {
	tb.Helper()
	base := time.Now().Add(-time.Duration(n) * time.Second)
	posts := make([]*model.Post, n)
	for i := 0; i < n; i++ {
		p := &model.Post{
			Text:      fmt.Sprintf("Пост № %d", i),
			AuthorID:  author.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if group != nil {
			p.GroupID = &group.ID
		}
		if err := db.Omit("Author", "Group").Create(p).Error; err != nil {
			tb.Fatalf("create post: %v", err)
		}
		posts[i] = p
	}
	return posts
}
