package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("YATUBE_FEED_PAGE_SIZE", "5")
	t.Setenv("YATUBE_CACHE_INDEX_TTL", "45s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Feed.PageSize)
	assert.Equal(t, 45*time.Second, cfg.Cache.IndexTTL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/auth/login/", cfg.Auth.LoginURL)
}

func TestValidate(t *testing.T) {
	base := Config{
		Feed:     FeedConfig{PageSize: 10},
		Database: DatabaseConfig{Driver: "postgres"},
		Auth:     AuthConfig{JWTSecret: "s"},
	}
	require.NoError(t, base.Validate())

	bad := base
	bad.Feed.PageSize = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.Database.Driver = "mysql"
	assert.Error(t, bad.Validate())

	bad = base
	bad.Server.Mode = "release"
	bad.Auth.JWTSecret = "change-me"
	assert.Error(t, bad.Validate())
}
