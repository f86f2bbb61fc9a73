package mocks

import (
	"fmt"
	"sync"

	"github.com/VitaminP8/blogpost/internal/storage"
	"github.com/VitaminP8/blogpost/internal/user"
	"github.com/VitaminP8/blogpost/models"
)

var _ user.UserStorage = (*MockUserStorage)(nil)

// MockUserStorage реализует интерфейс user.UserStorage для тестирования
type MockUserStorage struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	emails map[string]uint // email -> id
	nextID uint

	// Err, если задан, возвращается из всех методов (имитация упавшей базы)
	Err error
}

// NewMockUserStorage создает новый экземпляр мока для хранилища пользователей
func NewMockUserStorage() *MockUserStorage {
	return &MockUserStorage{
		users:  make(map[uint]*models.User),
		emails: make(map[string]uint),
		nextID: 1,
	}
}

func (m *MockUserStorage) CreateUser(email, name, passwordHash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	if _, exists := m.emails[email]; exists {
		return nil, fmt.Errorf("email %s: %w", email, storage.ErrDuplicate)
	}

	role := models.RoleMember
	if len(m.users) == 0 {
		role = models.RoleAdmin
	}

	u := &models.User{ID: m.nextID, Email: email, Name: name, Password: passwordHash, Role: role}
	m.nextID++
	m.users[u.ID] = u
	m.emails[email] = u.ID

	copied := *u
	return &copied, nil
}

func (m *MockUserStorage) GetUserByID(id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	u, ok := m.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *MockUserStorage) GetUserByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	id, ok := m.emails[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *m.users[id]
	return &copied, nil
}

func (m *MockUserStorage) GetUsersByIDs(ids []uint) (map[uint]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	result := make(map[uint]*models.User)
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			copied := *u
			result[id] = &copied
		}
	}
	return result, nil
}

// Count вспомогательный метод для тестирования
func (m *MockUserStorage) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.users)
}
