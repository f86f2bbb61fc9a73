package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/VitaminP8/blogpost/internal/storage/memory"
	"github.com/VitaminP8/blogpost/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionManager(t *testing.T) {
	_, err := NewSessionManager("", time.Hour)
	assert.Error(t, err)

	m, err := NewSessionManager("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, m.TTL())
}

func TestSessionManager_IssueAndParse(t *testing.T) {
	m, err := NewSessionManager("test_secret_key_for_jwt", time.Hour)
	require.NoError(t, err)

	u := &models.User{ID: 7, Role: models.RoleAdmin}

	t.Run("Valid token", func(t *testing.T) {
		token, err := m.Issue(u)
		require.NoError(t, err)
		// JWT токен должен содержать две точки, разделяющие три части
		assert.Equal(t, 2, strings.Count(token, "."))

		claims, err := m.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.UserID)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("Expired token", func(t *testing.T) {
		expired, err := NewSessionManager("test_secret_key_for_jwt", time.Hour)
		require.NoError(t, err)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

		token, err := expired.Issue(u)
		require.NoError(t, err)

		_, err = m.Parse(token)
		assert.Error(t, err)
	})

	t.Run("Token signed with another secret", func(t *testing.T) {
		other, err := NewSessionManager("another_secret", time.Hour)
		require.NoError(t, err)

		token, err := other.Issue(u)
		require.NoError(t, err)

		_, err = m.Parse(token)
		assert.Error(t, err)
	})

	t.Run("Unexpected signing method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{UserID: 7})
		tokenStr, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Parse(tokenStr)
		assert.Error(t, err)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := m.Parse("not.a.token")
		assert.Error(t, err)
	})
}

func TestSessionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	users := memory.NewUserMemoryStorage()
	admin, err := users.CreateUser("admin@example.com", "Admin", "hash")
	require.NoError(t, err)

	m, err := NewSessionManager("test_secret_key_for_jwt", time.Hour)
	require.NoError(t, err)

	router := gin.New()
	router.Use(SessionMiddleware(m, users))
	router.GET("/", func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, "%s:%s", identity.Name, identity.Role)
	})

	send := func(cookie *http.Cookie) string {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Body.String()
	}

	t.Run("No cookie", func(t *testing.T) {
		assert.Equal(t, "anonymous", send(nil))
	})

	t.Run("Valid session", func(t *testing.T) {
		token, err := m.Issue(admin)
		require.NoError(t, err)
		assert.Equal(t, "Admin:admin", send(&http.Cookie{Name: SessionCookieName, Value: token}))
	})

	t.Run("Invalid token", func(t *testing.T) {
		assert.Equal(t, "anonymous", send(&http.Cookie{Name: SessionCookieName, Value: "broken"}))
	})

	t.Run("Role comes from the store, not the token", func(t *testing.T) {
		member, err := users.CreateUser("member@example.com", "Member", "hash")
		require.NoError(t, err)

		// токен выпущен для объекта с ролью admin, но в хранилище это участник
		forged := *member
		forged.Role = models.RoleAdmin
		token, err := m.Issue(&forged)
		require.NoError(t, err)
		assert.Equal(t, "Member:member", send(&http.Cookie{Name: SessionCookieName, Value: token}))
	})

	t.Run("User from token does not exist", func(t *testing.T) {
		token, err := m.Issue(&models.User{ID: 999, Role: models.RoleAdmin})
		require.NoError(t, err)
		assert.Equal(t, "anonymous", send(&http.Cookie{Name: SessionCookieName, Value: token}))
	})
}
