package postgres

import (
	"fmt"

	"github.com/VitaminP8/blogpost/internal/storage"
	"github.com/VitaminP8/blogpost/models"
	"github.com/jinzhu/gorm"
)

type UserPostgresStorage struct{}

func NewUserPostgresStorage() *UserPostgresStorage {
	return &UserPostgresStorage{}
}

// CreateUser делает админом первого пользователя. Параллельные регистрации
// разводит индекс idx_users_single_admin: проигравший вставляется участником
func (s *UserPostgresStorage) CreateUser(email, name, passwordHash string) (*models.User, error) {
	// проверка - существует ли такой пользователь
	var existing models.User
	err := DB.Where("LOWER(email) = LOWER(?)", email).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("user with email %s: %w", email, storage.ErrDuplicate)
	}
	if !gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("could not check email: %w", err)
	}

	var count int
	err = DB.Model(&models.User{}).Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("could not count users: %w", err)
	}

	user := &models.User{
		Email:    email,
		Name:     name,
		Password: passwordHash,
		Role:     models.RoleMember,
	}
	if count == 0 {
		user.Role = models.RoleAdmin
	}

	err = insertUser(DB, user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func insertUser(db *gorm.DB, user *models.User) error {
	err := db.Create(user).Error
	if err != nil && user.Role == models.RoleAdmin && isAdminTakenError(err) {
		user.ID = 0
		user.Role = models.RoleMember
		err = db.Create(user).Error
	}
	if isDuplicateEntryError(err) {
		user.ID = 0
		return fmt.Errorf("user with email %s: %w", user.Email, storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *UserPostgresStorage) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := DB.First(&user, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("user %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}

	return &user, nil
}

func (s *UserPostgresStorage) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := DB.Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("user with email %s: %w", email, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user by email: %w", err)
	}

	return &user, nil
}

func (s *UserPostgresStorage) GetUsersByIDs(ids []uint) (map[uint]*models.User, error) {
	result := make(map[uint]*models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var users []models.User
	err := DB.Where("id IN (?)", ids).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("could not get users: %w", err)
	}

	for i := range users {
		result[users[i].ID] = &users[i]
	}
	return result, nil
}
