package auth

import (
	"github.com/VitaminP8/blogpost/internal/user"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const identityGinKey = "identity"

// SessionMiddleware достает пользователя из cookie сессии и кладет его в контекст.
// Без cookie или с невалидным токеном запрос просто идет дальше как анонимный
func SessionMiddleware(sessions *SessionManager, users user.UserStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(SessionCookieName)
		if err != nil || tokenStr == "" {
			c.Next()
			return
		}

		claims, err := sessions.Parse(tokenStr)
		if err != nil {
			logrus.WithError(err).Debug("Session middleware: invalid session cookie")
			c.Next()
			return
		}

		// роль берем из базы, а не из токена
		u, err := users.GetUserByID(claims.UserID)
		if err != nil {
			logrus.WithError(err).WithField("user_id", claims.UserID).Warn("Session middleware: user from session not loaded")
			c.Next()
			return
		}

		identity := NewIdentity(u)
		c.Set(identityGinKey, identity)
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))

		c.Next()
	}
}

// CurrentIdentity возвращает пользователя запроса или nil
func CurrentIdentity(c *gin.Context) *Identity {
	if v, ok := c.Get(identityGinKey); ok {
		if identity, ok := v.(*Identity); ok {
			return identity
		}
	}
	return IdentityFromContext(c.Request.Context())
}
