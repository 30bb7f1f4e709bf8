package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/testutil"
)

func seedBenchUsers(b *testing.B, db *gorm.DB, n int) []model.User {
	users := make([]model.User, n)
	for i := range users {
		users[i] = model.User{Username: fmt.Sprintf("u%04d", i), Email: fmt.Sprintf("u%04d@example.com", i), PasswordHash: "p"}
	}
	if err := db.CreateInBatches(&users, 500).Error; err != nil {
		b.Fatalf("seed users: %v", err)
	}
	return users
}

func BenchmarkFollowWrite(b *testing.B) {
	db := testutil.NewDB(b)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()
	users := seedBenchUsers(b, db, 1000)

	rng := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		from := users[rng.Intn(len(users))].ID
		to := users[rng.Intn(len(users))].ID
		if from == to {
			continue
		}
		_ = followRepo.Create(ctx, from, to)
	}
}

func BenchmarkFollowedFeedQuery(b *testing.B) {
	db := testutil.NewDB(b)
	followRepo := NewFollowRepository(db)
	postRepo := NewPostRepository(db)
	ctx := context.Background()

	// 构造：u0 关注 N 个作者，每个作者 5 篇帖子
	const N = 200
	users := seedBenchUsers(b, db, N+1)
	reader := users[0]
	for i := 1; i <= N; i++ {
		_ = followRepo.Create(ctx, reader.ID, users[i].ID)
		for j := 0; j < 5; j++ {
			_ = postRepo.Create(ctx, &model.Post{Text: fmt.Sprintf("p%d-%d", i, j), AuthorID: users[i].ID})
		}
	}

	filter := PostFilter{FollowerID: reader.ID}
	b.ResetTimer()
	b.Run("Count", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = postRepo.Count(ctx, filter)
		}
	})
	b.Run("FirstPage", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = postRepo.List(ctx, filter, 0, 10)
		}
	})
}
