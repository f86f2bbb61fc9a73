package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/VitaminP8/blogpost/internal/storage"
	"github.com/VitaminP8/blogpost/models"
)

type PostMemoryStorage struct {
	mu       sync.Mutex
	posts    map[uint]*models.BlogPost
	nextId   uint
	onDelete []func(postID uint) // каскадное удаление зависимых записей
}

func NewPostMemoryStorage() *PostMemoryStorage {
	return &PostMemoryStorage{
		posts:  make(map[uint]*models.BlogPost),
		nextId: 1,
	}
}

// OnDelete регистрирует обработчик, который вызывается после удаления поста
func (s *PostMemoryStorage) OnDelete(fn func(postID uint)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onDelete = append(s.onDelete, fn)
}

func (s *PostMemoryStorage) CreatePost(post *models.BlogPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.titleTaken(post.Title, 0) {
		return fmt.Errorf("post with title %q: %w", post.Title, storage.ErrDuplicate)
	}

	now := time.Now()
	post.ID = s.nextId
	post.CreatedAt = now
	post.UpdatedAt = now
	s.nextId++

	copied := *post
	s.posts[post.ID] = &copied
	return nil
}

func (s *PostMemoryStorage) GetPostById(id uint) (*models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[id]
	if !exists {
		return nil, fmt.Errorf("post %d: %w", id, storage.ErrNotFound)
	}

	copied := *post
	return &copied, nil
}

func (s *PostMemoryStorage) GetAllPosts() ([]*models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(func(*models.BlogPost) bool { return true }), nil
}

func (s *PostMemoryStorage) GetPostsByAuthor(authorID uint) ([]*models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(func(p *models.BlogPost) bool { return p.AuthorID == authorID }), nil
}

func (s *PostMemoryStorage) UpdatePost(post *models.BlogPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.posts[post.ID]
	if !exists {
		return fmt.Errorf("post %d: %w", post.ID, storage.ErrNotFound)
	}

	if s.titleTaken(post.Title, post.ID) {
		return fmt.Errorf("post with title %q: %w", post.Title, storage.ErrDuplicate)
	}

	post.CreatedAt = stored.CreatedAt
	post.UpdatedAt = time.Now()

	copied := *post
	s.posts[post.ID] = &copied
	return nil
}

func (s *PostMemoryStorage) DeletePostById(id uint) error {
	s.mu.Lock()
	if _, exists := s.posts[id]; !exists {
		s.mu.Unlock()
		return fmt.Errorf("post %d: %w", id, storage.ErrNotFound)
	}
	delete(s.posts, id)
	hooks := append([]func(uint){}, s.onDelete...)
	// Хранилище комментариев берет свой мьютекс и потом наш (при проверке поста), поэтому хуки вызываем без блокировки
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(id)
	}
	return nil
}

func (s *PostMemoryStorage) titleTaken(title string, exceptID uint) bool {
	for id, p := range s.posts {
		if id != exceptID && p.Title == title {
			return true
		}
	}
	return false
}

// collect копирует подходящие посты в порядке id, как их отдает база
func (s *PostMemoryStorage) collect(match func(*models.BlogPost) bool) []*models.BlogPost {
	posts := make([]*models.BlogPost, 0, len(s.posts))
	for _, p := range s.posts {
		if match(p) {
			copied := *p
			posts = append(posts, &copied)
		}
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].ID < posts[j].ID
	})
	return posts
}
