package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/yatube/internal/model"
)

// PostFilter 帖子查询条件；零值字段不参与过滤
type PostFilter struct {
	AuthorID   uint
	GroupID    uint
	FollowerID uint // 只返回该用户关注的作者的帖子
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id uint) (*model.Post, error)
	List(ctx context.Context, filter PostFilter, offset, limit int) ([]*model.Post, error)
	Count(ctx context.Context, filter PostFilter) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

// Update 只更新可编辑字段，作者不可变
func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	res := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]any{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&p, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// List 按创建时间倒序分页，id 倒序保证同一时间戳下顺序稳定
func (r *postRepository) List(ctx context.Context, filter PostFilter, offset, limit int) ([]*model.Post, error) {
	var res []*model.Post
	err := r.filtered(ctx, filter).
		Preload("Author").
		Preload("Group").
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *postRepository) Count(ctx context.Context, filter PostFilter) (int64, error) {
	var cnt int64
	err := r.filtered(ctx, filter).Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Post{}, id).Error
}

func (r *postRepository) filtered(ctx context.Context, filter PostFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Post{})
	if filter.AuthorID != 0 {
		q = q.Where("posts.author_id = ?", filter.AuthorID)
	}
	if filter.GroupID != 0 {
		q = q.Where("posts.group_id = ?", filter.GroupID)
	}
	if filter.FollowerID != 0 {
		followees := r.db.Model(&model.Follow{}).
			Select("followee_id").
			Where("follower_id = ?", filter.FollowerID)
		q = q.Where("posts.author_id IN (?)", followees)
	}
	return q
}
