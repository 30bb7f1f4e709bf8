package service

import (
	"context"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/pkg/pagination"
)

// RelationshipService 关注关系与关注流
type RelationshipService interface {
	// Follow 自己关注自己或重复关注均为静默空操作
	Follow(ctx context.Context, followerID, authorID uint) error
	// Unfollow 未关注时为空操作
	Unfollow(ctx context.Context, followerID, authorID uint) error
	IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error)
	FollowerCount(ctx context.Context, authorID uint) (int64, error)
	// FeedFor 所关注作者的全部帖子，统一按创建时间倒序
	FeedFor(ctx context.Context, userID uint, rawPage string) (*pagination.Page[*model.Post], error)
}

type relationshipService struct {
	followRepo repository.FollowRepository
	postRepo   repository.PostRepository
	feed       FeedConfig
}

func NewRelationshipService(followRepo repository.FollowRepository, postRepo repository.PostRepository, feed FeedConfig) RelationshipService {
	return &relationshipService{followRepo: followRepo, postRepo: postRepo, feed: feed}
}

func (s *relationshipService) Follow(ctx context.Context, followerID, authorID uint) error {
	if followerID == authorID {
		return nil
	}
	return s.followRepo.Create(ctx, followerID, authorID)
}

func (s *relationshipService) Unfollow(ctx context.Context, followerID, authorID uint) error {
	return s.followRepo.Delete(ctx, followerID, authorID)
}

func (s *relationshipService) IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error) {
	if followerID == 0 || followerID == authorID {
		return false, nil
	}
	return s.followRepo.Exists(ctx, followerID, authorID)
}

func (s *relationshipService) FollowerCount(ctx context.Context, authorID uint) (int64, error) {
	return s.followRepo.CountFollowers(ctx, authorID)
}

func (s *relationshipService) FeedFor(ctx context.Context, userID uint, rawPage string) (*pagination.Page[*model.Post], error) {
	if userID == 0 {
		return pagination.Slice([]*model.Post(nil), rawPage, s.feed.pageSize()), nil
	}
	return paginatePosts(ctx, s.postRepo, repository.PostFilter{FollowerID: userID}, rawPage, s.feed.pageSize())
}

// paginatePosts 先计数算窗口，再按 offset/limit 取当前页
func paginatePosts(ctx context.Context, repo repository.PostRepository, filter repository.PostFilter, rawPage string, size int) (*pagination.Page[*model.Post], error) {
	total, err := repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	w := pagination.NewWindow(total, rawPage, size)
	items, err := repo.List(ctx, filter, w.Offset(), w.Limit())
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(items, w), nil
}
