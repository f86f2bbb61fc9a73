package memory

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/VitaminP8/blogpost/internal/storage"
	"github.com/VitaminP8/blogpost/models"
)

type UserMemoryStorage struct {
	mu      sync.Mutex
	users   map[uint]*models.User
	byEmail map[string]uint // email -> id
	nextID  uint
}

func NewUserMemoryStorage() *UserMemoryStorage {
	return &UserMemoryStorage{
		users:   make(map[uint]*models.User),
		byEmail: make(map[string]uint),
		nextID:  1,
	}
}

func (s *UserMemoryStorage) CreateUser(email, name, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, exists := s.byEmail[key]; exists {
		return nil, fmt.Errorf("user with email %s: %w", email, storage.ErrDuplicate)
	}

	role := models.RoleMember
	if len(s.users) == 0 {
		role = models.RoleAdmin
	}

	user := &models.User{
		ID:        s.nextID,
		Email:     email,
		Name:      name,
		Password:  passwordHash,
		Role:      role,
		CreatedAt: time.Now(),
	}
	s.nextID++

	s.users[user.ID] = user
	s.byEmail[key] = user.ID

	copied := *user
	return &copied, nil
}

func (s *UserMemoryStorage) GetUserByID(id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[id]
	if !exists {
		return nil, fmt.Errorf("user %d: %w", id, storage.ErrNotFound)
	}

	copied := *user
	return &copied, nil
}

func (s *UserMemoryStorage) GetUserByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, exists := s.byEmail[strings.ToLower(email)]
	if !exists {
		return nil, fmt.Errorf("user with email %s: %w", email, storage.ErrNotFound)
	}

	copied := *s.users[id]
	return &copied, nil
}

func (s *UserMemoryStorage) GetUsersByIDs(ids []uint) (map[uint]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[uint]*models.User, len(ids))
	for _, id := range ids {
		user, exists := s.users[id]
		if !exists {
			continue
		}
		copied := *user
		result[id] = &copied
	}

	return result, nil
}
