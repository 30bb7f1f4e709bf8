// Package pagecache 在 Redis 中按固定 TTL 缓存整页渲染结果
//
// 不做主动失效，缓存页在 TTL 到期前一直返回
package pagecache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/auth"
	"github.com/d60-Lab/yatube/pkg/logger"
)

// Entry 缓存的一次完整响应
type Entry struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Store 基于 Redis 的整页缓存
type Store struct {
	cache *redis.Client
	ttl   time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// New 返回 nil 表示禁用缓存（未配置 Redis 或 ttl<=0）
func New(cache *redis.Client, ttl time.Duration) *Store {
	if cache == nil || ttl <= 0 {
		return nil
	}
	return &Store{cache: cache, ttl: ttl}
}

func (s *Store) TTL() time.Duration { return s.ttl }

// Key 按请求 URI 与访客区分，登录用户看到的导航栏不同
func Key(requestURI string, viewerID uint) string {
	return fmt.Sprintf("page:%d:%s", viewerID, requestURI)
}

func (s *Store) Get(ctx context.Context, key string) (*Entry, bool) {
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("page cache get failed", zap.String("key", key), zap.Error(err))
		}
		s.misses.Add(1)
		return nil, false
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		s.misses.Add(1)
		return nil, false
	}
	s.hits.Add(1)
	return &e, true
}

func (s *Store) Set(ctx context.Context, key string, e *Entry) {
	payload, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		logger.Warn("page cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// ResetCounters 清零命中/未命中计数
func (s *Store) ResetCounters() {
	s.hits.Store(0)
	s.misses.Store(0)
}

// Counters 启动或上次清零以来的命中与未命中次数
func (s *Store) Counters() Counters {
	return Counters{Hits: s.hits.Load(), Misses: s.misses.Load()}
}

type Counters struct {
	Hits   int64
	Misses int64
}

// Middleware 只缓存 GET 的 200 响应；store 为 nil 时直接放行
func Middleware(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		key := Key(c.Request.URL.RequestURI(), auth.CurrentIdentity(c).ID)

		if e, ok := store.Get(ctx, key); ok {
			c.Header("X-Cache", "HIT")
			c.Data(e.Status, e.ContentType, e.Body)
			c.Abort()
			return
		}

		w := &bodyWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Header("X-Cache", "MISS")
		c.Next()

		if w.Status() == http.StatusOK {
			store.Set(ctx, key, &Entry{
				Status:      http.StatusOK,
				ContentType: w.Header().Get("Content-Type"),
				Body:        w.buf.Bytes(),
			})
		}
	}
}

type bodyWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
