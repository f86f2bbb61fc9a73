package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/VitaminP8/blogpost/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const SessionCookieName = "session"

// SessionClaims хранит только id: роль и имя middleware каждый раз читает из хранилища
type SessionClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// SessionManager подписывает и проверяет JWT, который лежит в cookie сессии
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration) (*SessionManager, error) {
	if secret == "" {
		return nil, errors.New("session secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue выпускает токен сессии для пользователя
func (m *SessionManager) Issue(u *models.User) (string, error) {
	now := m.now()
	claims := SessionClaims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Parse проверяет подпись и срок действия токена
func (m *SessionManager) Parse(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
