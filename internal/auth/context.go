// internal/auth/context.go
package auth

import (
	"context"
	"errors"

	"github.com/VitaminP8/blogpost/models"
)

type contextKey string

const identityKey = contextKey("identity")

// ErrForbidden возвращается, когда действие доступно только администратору
var ErrForbidden = errors.New("forbidden: admin only")

// Identity - залогиненный пользователь текущего запроса
type Identity struct {
	UserID uint
	Email  string
	Name   string
	Role   models.Role
}

func NewIdentity(u *models.User) *Identity {
	return &Identity{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
	}
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}

// RequireAdmin проверяет роль; отсутствие пользователя (nil) - обычный случай "не админ", а не паника
func RequireAdmin(identity *Identity) error {
	if !identity.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// Сохраняет пользователя в контексте
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// Достает пользователя из контекста, nil если запрос анонимный
func IdentityFromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(identityKey).(*Identity)
	return identity
}
