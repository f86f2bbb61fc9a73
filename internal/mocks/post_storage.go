package mocks

import (
	"sort"
	"sync"

	"github.com/VitaminP8/blogpost/internal/post"
	"github.com/VitaminP8/blogpost/internal/storage"
	"github.com/VitaminP8/blogpost/models"
)

var _ post.PostStorage = (*MockPostStorage)(nil)

type MockPostStorage struct {
	posts  map[uint]*models.BlogPost
	nextID uint
	mu     sync.Mutex

	Err error
	// DeletedIDs - id постов, для которых вызывали DeletePostById
	DeletedIDs []uint
}

func NewMockPostStorage() *MockPostStorage {
	return &MockPostStorage{
		posts:  make(map[uint]*models.BlogPost),
		nextID: 1,
	}
}

func (m *MockPostStorage) CreatePost(p *models.BlogPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	for _, existing := range m.posts {
		if existing.Title == p.Title {
			return storage.ErrDuplicate
		}
	}

	p.ID = m.nextID
	m.nextID++
	copied := *p
	m.posts[p.ID] = &copied
	return nil
}

func (m *MockPostStorage) GetPostById(id uint) (*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *MockPostStorage) GetAllPosts() ([]*models.BlogPost, error) {
	return m.filter(func(*models.BlogPost) bool { return true })
}

func (m *MockPostStorage) GetPostsByAuthor(authorID uint) ([]*models.BlogPost, error) {
	return m.filter(func(p *models.BlogPost) bool { return p.AuthorID == authorID })
}

func (m *MockPostStorage) UpdatePost(p *models.BlogPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.posts[p.ID]; !ok {
		return storage.ErrNotFound
	}
	for id, existing := range m.posts {
		if id != p.ID && existing.Title == p.Title {
			return storage.ErrDuplicate
		}
	}
	copied := *p
	m.posts[p.ID] = &copied
	return nil
}

func (m *MockPostStorage) DeletePostById(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.DeletedIDs = append(m.DeletedIDs, id)
	if _, ok := m.posts[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *MockPostStorage) filter(match func(*models.BlogPost) bool) ([]*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	posts := make([]*models.BlogPost, 0, len(m.posts))
	for _, p := range m.posts {
		if match(p) {
			copied := *p
			posts = append(posts, &copied)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}
