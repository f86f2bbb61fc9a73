package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/VitaminP8/blogpost/internal/post"
	"github.com/VitaminP8/blogpost/models"
)

type CommentMemoryStorage struct {
	mu          sync.Mutex
	comments    map[uint]*models.Comment
	nextID      uint
	postStorage post.PostStorage // Хранилище постов (внедрение зависимости (DI))
}

// NewCommentMemoryStorage подписывается на удаление постов, чтобы удалять их комментарии каскадно
func NewCommentMemoryStorage(postStore *PostMemoryStorage) *CommentMemoryStorage {
	s := &CommentMemoryStorage{
		comments:    make(map[uint]*models.Comment),
		nextID:      1,
		postStorage: postStore,
	}
	postStore.OnDelete(s.deleteByPost)
	return s
}

func (s *CommentMemoryStorage) CreateComment(comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.postStorage.GetPostById(comment.PostID)
	if err != nil {
		return fmt.Errorf("could not create comment: %w", err)
	}

	comment.ID = s.nextID
	comment.CreatedAt = time.Now()
	s.nextID++

	copied := *comment
	s.comments[comment.ID] = &copied
	return nil
}

func (s *CommentMemoryStorage) GetCommentsByPost(postID uint) ([]*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(func(c *models.Comment) bool { return c.PostID == postID }), nil
}

func (s *CommentMemoryStorage) GetCommentsByAuthor(authorID uint) ([]*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(func(c *models.Comment) bool { return c.AuthorID == authorID }), nil
}

func (s *CommentMemoryStorage) deleteByPost(postID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.comments {
		if c.PostID == postID {
			delete(s.comments, id)
		}
	}
}

// collect возвращает копии в порядке добавления (по возрастанию ID)
func (s *CommentMemoryStorage) collect(match func(*models.Comment) bool) []*models.Comment {
	result := make([]*models.Comment, 0)
	for _, c := range s.comments {
		if match(c) {
			copied := *c
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}
