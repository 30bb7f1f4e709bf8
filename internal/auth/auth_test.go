package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	tok, err := m.Issue(Identity{ID: 7, Username: "leo"})
	require.NoError(t, err)

	id, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: 7, Username: "leo"}, id)
	assert.True(t, id.Authenticated())
}

func TestTokenManager_RejectsForeignAndExpired(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	other := NewTokenManager("other", time.Hour)
	tok, err := other.Issue(Identity{ID: 1, Username: "x"})
	require.NoError(t, err)
	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	tok, err = m.Issue(Identity{ID: 1, Username: "x"})
	require.NoError(t, err)
	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestCurrentIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, CurrentIdentity(c).Authenticated())

	SetIdentity(c, Identity{ID: 3, Username: "b"})
	assert.Equal(t, uint(3), CurrentIdentity(c).ID)
}
