package pagecache

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, ttl), mr
}

func newEngine(store *Store, body *string, status *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", Middleware(store), func(c *gin.Context) {
		c.String(*status, *body)
	})
	r.POST("/", Middleware(store), func(c *gin.Context) {
		c.String(http.StatusOK, *body)
	})
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestMiddleware_ServesStaleUntilTTL(t *testing.T) {
	store, mr := newTestStore(t, 20*time.Second)
	body, status := "v1", http.StatusOK
	r := newEngine(store, &body, &status)

	w := get(r, "/")
	assert.Equal(t, "v1", w.Body.String())
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	body = "v2"
	w = get(r, "/")
	assert.Equal(t, "v1", w.Body.String(), "cached copy served until expiry")
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	// 不同查询串是不同的缓存键
	w = get(r, "/?page=2")
	assert.Equal(t, "v2", w.Body.String())

	mr.FastForward(21 * time.Second)
	w = get(r, "/")
	assert.Equal(t, "v2", w.Body.String())

	c := store.Counters()
	assert.EqualValues(t, 1, c.Hits)
	assert.EqualValues(t, 3, c.Misses)
	store.ResetCounters()
	assert.Zero(t, store.Counters().Hits)
}

func TestMiddleware_SkipsErrorsAndNonGet(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	body, status := "boom", http.StatusInternalServerError
	r := newEngine(store, &body, &status)

	get(r, "/")
	assert.Empty(t, mr.Keys())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Empty(t, mr.Keys())
}

func TestMiddleware_NilStorePassesThrough(t *testing.T) {
	assert.Nil(t, New(nil, time.Minute))
	body, status := "live", http.StatusOK
	r := newEngine(nil, &body, &status)
	assert.Equal(t, "live", get(r, "/").Body.String())
	body = "fresh"
	assert.Equal(t, "fresh", get(r, "/").Body.String())
}

func TestKeyVariesByViewer(t *testing.T) {
	require.NotEqual(t, Key("/", 0), Key("/", 1))
	assert.Equal(t, "page:0:/?page=2", Key("/?page=2", 0))
}
