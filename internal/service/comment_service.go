package service

import (
	"context"
	"fmt"

	"github.com/d60-Lab/yatube/internal/auth"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
)

type CommentService interface {
	// Add 帖子不存在时返回 ErrNotFound
	Add(ctx context.Context, author auth.Identity, postID uint, text string) (*model.Comment, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) CommentService {
	return &commentService{commentRepo: commentRepo, postRepo: postRepo}
}

func (s *commentService) Add(ctx context.Context, author auth.Identity, postID uint, text string) (*model.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	c := &model.Comment{PostID: postID, AuthorID: author.ID, Text: text}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}
