package mocks

import (
	"sync"

	"github.com/VitaminP8/blogpost/internal/comment"
	"github.com/VitaminP8/blogpost/internal/post"
	"github.com/VitaminP8/blogpost/models"
)

var _ comment.CommentStorage = (*MockCommentStorage)(nil)

// MockCommentStorage хранит комментарии в срезе, порядок добавления сохраняется
type MockCommentStorage struct {
	mu       sync.Mutex
	comments []*models.Comment
	posts    post.PostStorage

	Err error
}

func NewMockCommentStorage(posts post.PostStorage) *MockCommentStorage {
	return &MockCommentStorage{posts: posts}
}

func (m *MockCommentStorage) CreateComment(c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if _, err := m.posts.GetPostById(c.PostID); err != nil {
		return err
	}

	c.ID = uint(len(m.comments) + 1)
	copied := *c
	m.comments = append(m.comments, &copied)
	return nil
}

func (m *MockCommentStorage) GetCommentsByPost(postID uint) ([]*models.Comment, error) {
	return m.filter(func(c *models.Comment) bool { return c.PostID == postID })
}

func (m *MockCommentStorage) GetCommentsByAuthor(authorID uint) ([]*models.Comment, error) {
	return m.filter(func(c *models.Comment) bool { return c.AuthorID == authorID })
}

// Len вспомогательный метод для тестирования
func (m *MockCommentStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.comments)
}

func (m *MockCommentStorage) filter(match func(*models.Comment) bool) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]*models.Comment, 0)
	for _, c := range m.comments {
		if match(c) {
			copied := *c
			result = append(result, &copied)
		}
	}
	return result, nil
}
