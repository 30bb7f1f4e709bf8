package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/d60-Lab/yatube/config"
	"github.com/d60-Lab/yatube/internal/auth"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

var demoGroups = []struct{ title, slug, description string }{
	{"Лев Толстой", "leo", "Группа поклонников графа"},
	{"Котики", "cats", "Фотографии и истории про котиков"},
	{"Путешествия", "travel", "Заметки из поездок"},
	{"Кулинария", "cooking", "Рецепты и советы"},
	{"Книги", "books", "Что почитать"},
}

func main() {
	_ = godotenv.Load()
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	if err := database.Migrate(db); err != nil {
		panic(err)
	}

	USERS := envInt("USERS", 20)
	GROUPS := envInt("GROUPS", 3)
	POSTS := envInt("POSTS", 200)
	FOLLOWS := envInt("FOLLOWS", 5)
	password := os.Getenv("PASSWORD")
	if password == "" {
		password = "yatube-demo"
	}
	if GROUPS > len(demoGroups) {
		GROUPS = len(demoGroups)
	}

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	feed := service.FeedConfig{PageSize: cfg.Feed.PageSize}
	relSvc := service.NewRelationshipService(repository.NewFollowRepository(db), postRepo, feed)
	postSvc := service.NewPostService(postRepo, groupRepo, userRepo, repository.NewCommentRepository(db), relSvc, feed)
	userSvc := service.NewUserService(userRepo)
	groupSvc := service.NewGroupService(groupRepo)

	ctx := context.Background()
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// groups (reuse existing slugs so the tool can be re-run)
	groups := make([]*model.Group, 0, GROUPS)
	for _, g := range demoGroups[:GROUPS] {
		grp, err := groupRepo.GetBySlug(ctx, g.slug)
		if errors.Is(err, repository.ErrNotFound) {
			grp, err = groupSvc.Create(ctx, g.title, g.slug, g.description)
		}
		groups = append(groups, must(grp, err))
	}

	// users
	users := make([]*model.User, 0, USERS)
	for i := 0; i < USERS; i++ {
		name := fmt.Sprintf("user%03d", i)
		u, err := userSvc.Signup(ctx, service.SignupInput{
			Username: name,
			Email:    name + "@example.com",
			Password: password,
		})
		if errors.Is(err, service.ErrUsernameTaken) {
			u, err = userSvc.GetByUsername(ctx, name)
		}
		users = append(users, must(u, err))
	}

	// follows: everyone follows FOLLOWS random authors
	edges := 0
	for _, u := range users {
		for j := 0; j < FOLLOWS; j++ {
			target := users[r.Intn(len(users))]
			if err := relSvc.Follow(ctx, u.ID, target.ID); err != nil {
				panic(err)
			}
			if target.ID != u.ID {
				edges++
			}
		}
	}

	// posts
	start := time.Now()
	for i := 0; i < POSTS; i++ {
		author := users[r.Intn(len(users))]
		in := service.PostInput{Text: fmt.Sprintf("Демо-запись №%d от %s", i+1, author.Username)}
		if len(groups) > 0 && r.Intn(3) > 0 {
			in.GroupID = &groups[r.Intn(len(groups))].ID
		}
		must(postSvc.Create(ctx, auth.Identity{ID: author.ID, Username: author.Username}, in))
	}
	fmt.Printf("seeded groups=%d users=%d follow_attempts=%d posts=%d in %v\n",
		len(groups), len(users), edges, POSTS, time.Since(start).Truncate(time.Millisecond))

	// 统计关注 feed 首页耗时
	lat := make([]time.Duration, 0, len(users))
	for _, u := range users {
		t0 := time.Now()
		must(relSvc.FeedFor(ctx, u.ID, "1"))
		lat = append(lat, time.Since(t0))
	}
	fmt.Printf("feed_for page=1 p50=%v p95=%v p99=%v\n", pct(lat, 0.50), pct(lat, 0.95), pct(lat, 0.99))
}
