package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/auth"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/testutil"
)

type services struct {
	db       *gorm.DB
	posts    PostService
	comments CommentService
	rel      RelationshipService
	users    UserService
	groups   GroupService
}

func newServices(t *testing.T, pageSize int) services {
	t.Helper()
	db := testutil.NewDB(t)
	feed := FeedConfig{PageSize: pageSize}
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	rel := NewRelationshipService(repository.NewFollowRepository(db), postRepo, feed)
	return services{
		db:       db,
		posts:    NewPostService(postRepo, groupRepo, userRepo, commentRepo, rel, feed),
		comments: NewCommentService(commentRepo, postRepo),
		rel:      rel,
		users:    NewUserService(userRepo),
		groups:   NewGroupService(groupRepo),
	}
}

func identity(u *model.User) auth.Identity { return auth.Identity{ID: u.ID, Username: u.Username} }

func TestRelationship_FollowUnfollow(t *testing.T) {
	s := newServices(t, 10)
	ctx := context.Background()
	u := testutil.CreateUser(t, s.db, "u")
	a := testutil.CreateUser(t, s.db, "a")

	require.NoError(t, s.rel.Follow(ctx, u.ID, a.ID))
	ok, err := s.rel.IsFollowing(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// 幂等
	require.NoError(t, s.rel.Follow(ctx, u.ID, a.ID))
	var cnt int64
	require.NoError(t, s.db.Model(&model.Follow{}).Count(&cnt).Error)
	assert.EqualValues(t, 1, cnt)

	require.NoError(t, s.rel.Unfollow(ctx, u.ID, a.ID))
	ok, err = s.rel.IsFollowing(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// 未关注时取消关注不报错
	assert.NoError(t, s.rel.Unfollow(ctx, u.ID, a.ID))
}

func TestRelationship_SelfFollowIsNoop(t *testing.T) {
	s := newServices(t, 10)
	ctx := context.Background()
	u := testutil.CreateUser(t, s.db, "u")

	require.NoError(t, s.rel.Follow(ctx, u.ID, u.ID))
	var cnt int64
	require.NoError(t, s.db.Model(&model.Follow{}).Count(&cnt).Error)
	assert.Zero(t, cnt)

	ok, err := s.rel.IsFollowing(ctx, u.ID, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRelationship_FeedForScenario(t *testing.T) {
	s := newServices(t, 10)
	ctx := context.Background()
	a := testutil.CreateUser(t, s.db, "a")
	b := testutil.CreateUser(t, s.db, "b")
	c := testutil.CreateUser(t, s.db, "c")
	testutil.CreatePosts(t, s.db, a, nil, 1)

	empty, err := s.rel.FeedFor(ctx, b.ID, "")
	require.NoError(t, err)
	assert.Empty(t, empty.Items)

	require.NoError(t, s.rel.Follow(ctx, b.ID, a.ID))
	_, err = s.posts.Create(ctx, identity(a), PostInput{Text: "новый пост"})
	require.NoError(t, err)

	feedB, err := s.rel.FeedFor(ctx, b.ID, "")
	require.NoError(t, err)
	assert.Len(t, feedB.Items, 2)
	assert.Equal(t, "новый пост", feedB.Items[0].Text)

	feedC, err := s.rel.FeedFor(ctx, c.ID, "")
	require.NoError(t, err)
	assert.Empty(t, feedC.Items)
}

func TestRelationship_FeedIsGloballyOrdered(t *testing.T) {
	s := newServices(t, 100)
	ctx := context.Background()
	reader := testutil.CreateUser(t, s.db, "reader")
	a := testutil.CreateUser(t, s.db, "a")
	b := testutil.CreateUser(t, s.db, "b")
	// 交替发帖：按作者拼接会得到错误顺序
	for i := 0; i < 3; i++ {
		testutil.CreatePosts(t, s.db, a, nil, 1)
		testutil.CreatePosts(t, s.db, b, nil, 1)
	}
	require.NoError(t, s.rel.Follow(ctx, reader.ID, a.ID))
	require.NoError(t, s.rel.Follow(ctx, reader.ID, b.ID))

	feed, err := s.rel.FeedFor(ctx, reader.ID, "")
	require.NoError(t, err)
	require.Len(t, feed.Items, 6)

	var all []*model.Post
	require.NoError(t, s.db.Order("created_at DESC, id DESC").Find(&all).Error)
	for i := range all {
		assert.Equal(t, all[i].ID, feed.Items[i].ID)
	}
}

func TestPostService_GroupPagination(t *testing.T) {
	s := newServices(t, 10)
	ctx := context.Background()
	a := testutil.CreateUser(t, s.db, "a")
	g := testutil.CreateGroup(t, s.db, "tech")
	testutil.CreatePosts(t, s.db, a, g, 13)

	p1, err := s.posts.ListByGroup(ctx, "tech", "1")
	require.NoError(t, err)
	assert.Len(t, p1.Page.Items, 10)
	assert.Equal(t, "tech", p1.Group.Slug)

	p2, err := s.posts.ListByGroup(ctx, "tech", "2")
	require.NoError(t, err)
	assert.Len(t, p2.Page.Items, 3)

	seen := map[uint]bool{}
	for _, p := range append(p1.Page.Items, p2.Page.Items...) {
		assert.False(t, seen[p.ID], "post %d listed twice", p.ID)
		seen[p.ID] = true
	}

	_, err = s.posts.ListByGroup(ctx, "unknown", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostService_ListByAuthor(t *testing.T) {
	s := newServices(t, 10)
	ctx := context.Background()
	a := testutil.CreateUser(t, s.db, "a")
	b := testutil.CreateUser(t, s.db, "b")
	testutil.CreatePosts(t, s.db, a, nil, 2)

	guest, err := s.posts.ListByAuthor(ctx, "a", auth.Identity{}, "")
	require.NoError(t, err)
	assert.False(t, guest.Following)
	assert.EqualValues(t, 2, guest.PostCount)

	self, err := s.posts.ListByAuthor(ctx, "a", identity(a), "")
	require.NoError(t, err)
	assert.False(t, self.Following)
	assert.False(t, self.ShowSubscription)

	require.NoError(t, s.rel.Follow(ctx, b.ID, a.ID))
	fan, err := s.posts.ListByAuthor(ctx, "a", identity(b), "")
	require.NoError(t, err)
	assert.True(t, fan.Following)
	assert.True(t, fan.ShowSubscription)
	assert.EqualValues(t, 1, fan.Followers)

	_, err = s.posts.ListByAuthor(ctx, "ghost", auth.Identity{}, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostService_UpdateByNonAuthorLeavesPost(t *testing.T) {
	s := newServices(t, 10)
	ctx := context.Background()
	a := testutil.CreateUser(t, s.db, "a")
	b := testutil.CreateUser(t, s.db, "b")
	p := testutil.CreatePosts(t, s.db, a, nil, 1)[0]

	_, err := s.posts.Update(ctx, identity(b), p.ID, PostInput{Text: "hijacked"})
	assert.ErrorIs(t, err, ErrNotAuthor)

	got, err := s.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Text, got.Text)

	g := testutil.CreateGroup(t, s.db, "g")
	updated, err := s.posts.Update(ctx, identity(a), p.ID, PostInput{Text: "edited", GroupID: &g.ID})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	require.NotNil(t, updated.GroupID)
	assert.Equal(t, g.ID, *updated.GroupID)
}

func TestPostService_ImageKeptUnlessReplacedOrCleared(t *testing.T) {
	s := newServices(t, 10)
	ctx := context.Background()
	a := testutil.CreateUser(t, s.db, "a")
	p, err := s.posts.Create(ctx, identity(a), PostInput{Text: "with image", Image: "posts/a.gif"})
	require.NoError(t, err)

	p, err = s.posts.Update(ctx, identity(a), p.ID, PostInput{Text: "still"})
	require.NoError(t, err)
	assert.Equal(t, "posts/a.gif", p.Image)

	p, err = s.posts.Update(ctx, identity(a), p.ID, PostInput{Text: "new", Image: "posts/b.gif"})
	require.NoError(t, err)
	assert.Equal(t, "posts/b.gif", p.Image)

	p, err = s.posts.Update(ctx, identity(a), p.ID, PostInput{Text: "gone", ClearImage: true})
	require.NoError(t, err)
	assert.Empty(t, p.Image)
}

func TestPostService_CreateRejectsUnknownGroup(t *testing.T) {
	s := newServices(t, 10)
	ctx := context.Background()
	a := testutil.CreateUser(t, s.db, "a")
	missing := uint(404)

	_, err := s.posts.Create(ctx, identity(a), PostInput{Text: "x", GroupID: &missing})
	assert.ErrorIs(t, err, ErrInvalidGroup)
}

func TestPostService_Detail(t *testing.T) {
	s := newServices(t, 10)
	ctx := context.Background()
	a := testutil.CreateUser(t, s.db, "a")
	b := testutil.CreateUser(t, s.db, "b")
	posts := testutil.CreatePosts(t, s.db, a, nil, 3)

	_, err := s.comments.Add(ctx, identity(b), posts[0].ID, "первый")
	require.NoError(t, err)
	_, err = s.comments.Add(ctx, identity(a), posts[0].ID, "второй")
	require.NoError(t, err)

	d, err := s.posts.Detail(ctx, posts[0].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, d.AuthorPostCount)
	require.Len(t, d.Comments, 2)
	assert.Equal(t, "второй", d.Comments[0].Text)
	assert.Equal(t, "b", d.Comments[1].Author.Username)

	_, err = s.posts.Detail(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.comments.Add(ctx, identity(b), 9999, "в пустоту")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService(t *testing.T) {
	s := newServices(t, 10)
	ctx := context.Background()

	u, err := s.users.Signup(ctx, SignupInput{Username: "leo", Email: "leo@example.com", FirstName: "Leo", Password: "war-and-peace"})
	require.NoError(t, err)
	assert.NotEqual(t, "war-and-peace", u.PasswordHash)

	_, err = s.users.Signup(ctx, SignupInput{Username: "leo", Password: "whatever1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := s.users.Authenticate(ctx, "leo", "war-and-peace")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.users.Authenticate(ctx, "leo", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.users.Authenticate(ctx, "ghost", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.ErrorIs(t, s.users.ChangePassword(ctx, identity(u), "bad", "anna-karenina"), ErrWrongPassword)
	require.NoError(t, s.users.ChangePassword(ctx, identity(u), "war-and-peace", "anna-karenina"))
	_, err = s.users.Authenticate(ctx, "leo", "anna-karenina")
	assert.NoError(t, err)

	_, err = s.users.Signup(ctx, SignupInput{Username: "anna", Password: strings.Repeat("ж", 40)})
	assert.ErrorIs(t, err, auth.ErrPasswordTooLong)
	assert.ErrorIs(t, s.users.ChangePassword(ctx, identity(u), "anna-karenina", strings.Repeat("a", 80)), auth.ErrPasswordTooLong)
}

func TestGroupService(t *testing.T) {
	s := newServices(t, 10)
	ctx := context.Background()

	_, err := s.groups.Create(ctx, "Tech", "tech", "about tech")
	require.NoError(t, err)
	_, err = s.groups.Create(ctx, "Dup", "tech", "")
	assert.Error(t, err, "slug is unique")
	_, err = s.groups.Create(ctx, "Bad", "has space", "")
	assert.Error(t, err)

	list, err := s.groups.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
