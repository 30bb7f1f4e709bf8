package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/d60-Lab/yatube/internal/auth"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/pkg/pagination"
)

// PostInput 创建/编辑表单提交的字段
type PostInput struct {
	Text    string
	GroupID *uint
	// Image 新上传图片的引用；为空时编辑保留原图
	Image      string
	ClearImage bool
}

// AuthorFeed 作者主页
type AuthorFeed struct {
	Author    *model.User
	Page      *pagination.Page[*model.Post]
	PostCount int64
	Followers int64
	// Following 当前访客是否已关注（作者本人或匿名访客恒为 false）
	Following bool
	// ShowSubscription 是否展示关注按钮，作者看自己主页时隐藏
	ShowSubscription bool
}

// GroupFeed 分组页
type GroupFeed struct {
	Group *model.Group
	Page  *pagination.Page[*model.Post]
}

// PostDetail 帖子详情
type PostDetail struct {
	Post            *model.Post
	Comments        []*model.Comment
	AuthorPostCount int64
}

type PostService interface {
	ListAll(ctx context.Context, rawPage string) (*pagination.Page[*model.Post], error)
	ListByGroup(ctx context.Context, slug, rawPage string) (*GroupFeed, error)
	ListByAuthor(ctx context.Context, username string, viewer auth.Identity, rawPage string) (*AuthorFeed, error)
	Detail(ctx context.Context, id uint) (*PostDetail, error)
	Get(ctx context.Context, id uint) (*model.Post, error)
	Create(ctx context.Context, author auth.Identity, in PostInput) (*model.Post, error)
	Update(ctx context.Context, editor auth.Identity, id uint, in PostInput) (*model.Post, error)
}

type postService struct {
	postRepo    repository.PostRepository
	groupRepo   repository.GroupRepository
	userRepo    repository.UserRepository
	commentRepo repository.CommentRepository
	rel         RelationshipService
	feed        FeedConfig
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
	rel RelationshipService,
	feed FeedConfig,
) PostService {
	return &postService{
		postRepo:    postRepo,
		groupRepo:   groupRepo,
		userRepo:    userRepo,
		commentRepo: commentRepo,
		rel:         rel,
		feed:        feed,
	}
}

func (s *postService) ListAll(ctx context.Context, rawPage string) (*pagination.Page[*model.Post], error) {
	return paginatePosts(ctx, s.postRepo, repository.PostFilter{}, rawPage, s.feed.pageSize())
}

func (s *postService) ListByGroup(ctx context.Context, slug, rawPage string) (*GroupFeed, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	page, err := paginatePosts(ctx, s.postRepo, repository.PostFilter{GroupID: group.ID}, rawPage, s.feed.pageSize())
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: group, Page: page}, nil
}

func (s *postService) ListByAuthor(ctx context.Context, username string, viewer auth.Identity, rawPage string) (*AuthorFeed, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	page, err := paginatePosts(ctx, s.postRepo, repository.PostFilter{AuthorID: author.ID}, rawPage, s.feed.pageSize())
	if err != nil {
		return nil, err
	}
	following, err := s.rel.IsFollowing(ctx, viewer.ID, author.ID)
	if err != nil {
		return nil, err
	}
	followers, err := s.rel.FollowerCount(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	return &AuthorFeed{
		Author:           author,
		Page:             page,
		PostCount:        page.Total,
		Followers:        followers,
		Following:        following,
		ShowSubscription: viewer.ID != author.ID,
	}, nil
}

func (s *postService) Detail(ctx context.Context, id uint) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	count, err := s.postRepo.Count(ctx, repository.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments, AuthorPostCount: count}, nil
}

func (s *postService) Get(ctx context.Context, id uint) (*model.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *postService) Create(ctx context.Context, author auth.Identity, in PostInput) (*model.Post, error) {
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}
	post := &model.Post{
		Text:     in.Text,
		AuthorID: author.ID,
		GroupID:  in.GroupID,
		Image:    in.Image,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// Update 只有作者本人可以编辑；非作者返回 ErrNotAuthor 且不做任何修改
func (s *postService) Update(ctx context.Context, editor auth.Identity, id uint, in PostInput) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != editor.ID {
		return post, ErrNotAuthor
	}
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return post, err
	}

	post.Text = in.Text
	post.GroupID = in.GroupID
	switch {
	case in.Image != "":
		post.Image = in.Image
	case in.ClearImage:
		post.Image = ""
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}
	return post, nil
}

func (s *postService) checkGroup(ctx context.Context, groupID *uint) error {
	if groupID == nil {
		return nil
	}
	if _, err := s.groupRepo.GetByID(ctx, *groupID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidGroup
		}
		return err
	}
	return nil
}
