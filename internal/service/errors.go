package service

import (
	"errors"

	"github.com/d60-Lab/yatube/internal/repository"
)

var (
	// ErrNotFound 被引用的用户/分组/帖子不存在
	ErrNotFound = repository.ErrNotFound
	// ErrNotAuthor 非作者尝试修改帖子
	ErrNotAuthor = errors.New("only the author can edit this post")
	// ErrInvalidGroup 表单里选择的分组不存在
	ErrInvalidGroup = errors.New("selected group does not exist")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWrongPassword      = errors.New("old password is incorrect")
)

// FeedConfig 所有 feed 共用的分页配置
type FeedConfig struct {
	PageSize int
}

func (c FeedConfig) pageSize() int {
	if c.PageSize < 1 {
		return 10
	}
	return c.PageSize
}
