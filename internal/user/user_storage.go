package user

import (
	"github.com/VitaminP8/blogpost/models"
)

type UserStorage interface {
	// CreateUser сохраняет пользователя; самый первый пользователь получает роль admin
	CreateUser(email, name, passwordHash string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUsersByIDs(ids []uint) (map[uint]*models.User, error)
}
