package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type GroupService interface {
	Create(ctx context.Context, title, slug, description string) (*model.Group, error)
	List(ctx context.Context) ([]*model.Group, error)
}

type groupService struct {
	groupRepo repository.GroupRepository
}

func NewGroupService(groupRepo repository.GroupRepository) GroupService {
	return &groupService{groupRepo: groupRepo}
}

// Create 分组由管理工具创建（见 cmd/seed）
func (s *groupService) Create(ctx context.Context, title, slug, description string) (*model.Group, error) {
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("invalid slug %q", slug)
	}
	g := &model.Group{Title: title, Slug: slug, Description: description}
	if err := s.groupRepo.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("create group %s: %w", slug, err)
	}
	return g, nil
}

func (s *groupService) List(ctx context.Context) ([]*model.Group, error) {
	return s.groupRepo.List(ctx)
}
