package subscription

import (
	"sync"
	"time"

	"github.com/VitaminP8/blogpost/models"
)

// CommentEvent - новый комментарий вместе с именем автора, чтобы подписчику не ходить в хранилище
type CommentEvent struct {
	Comment    *models.Comment
	AuthorName string
	AvatarURL  string
}

type Manager interface {
	Subscribe(postID uint) (<-chan CommentEvent, func())
	Publish(postID uint, event CommentEvent)
	Close(postID uint)
	CloseAll()
}

const publishTimeout = 500 * time.Millisecond

// subscriber закрывается ровно один раз: отпиской, Close или CloseAll
type subscriber struct {
	mu     sync.Mutex
	ch     chan CommentEvent
	closed bool
}

func (s *subscriber) send(event CommentEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	select {
	case s.ch <- event:
	case <-time.After(publishTimeout):
		// медленный подписчик пропускает событие
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

type SubscriptionManager struct {
	mu   sync.Mutex
	subs map[uint][]*subscriber // postID -> подписчики
}

var _ Manager = (*SubscriptionManager)(nil)

func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		subs: make(map[uint][]*subscriber),
	}
}

func (m *SubscriptionManager) Subscribe(postID uint) (<-chan CommentEvent, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := &subscriber{ch: make(chan CommentEvent, 1)} // Буфер 1, чтобы не блокировался писатель
	m.subs[postID] = append(m.subs[postID], sub)

	// функция для отписки, безопасна после Close
	cancel := func() {
		m.mu.Lock()
		subscribers := m.subs[postID]
		for i, s := range subscribers {
			if s == sub {
				m.subs[postID] = append(subscribers[:i:i], subscribers[i+1:]...)
				if len(m.subs[postID]) == 0 {
					delete(m.subs, postID)
				}
				break
			}
		}
		m.mu.Unlock()

		sub.close()
	}

	return sub.ch, cancel
}

// Publish рассылает событие без общей блокировки: медленный подписчик задерживает только свой пост
func (m *SubscriptionManager) Publish(postID uint, event CommentEvent) {
	m.mu.Lock()
	subscribers := append([]*subscriber(nil), m.subs[postID]...)
	m.mu.Unlock()

	for _, sub := range subscribers {
		sub.send(event)
	}
}

// Close закрывает каналы всех подписчиков поста (пост удален)
func (m *SubscriptionManager) Close(postID uint) {
	m.mu.Lock()
	subscribers := m.subs[postID]
	delete(m.subs, postID)
	m.mu.Unlock()

	for _, sub := range subscribers {
		sub.close()
	}
}

// CloseAll закрывает все подписки, чтобы открытые потоки завершились при остановке сервера
func (m *SubscriptionManager) CloseAll() {
	m.mu.Lock()
	all := m.subs
	m.subs = make(map[uint][]*subscriber)
	m.mu.Unlock()

	for _, subscribers := range all {
		for _, sub := range subscribers {
			sub.close()
		}
	}
}

func (m *SubscriptionManager) subscriberCount(postID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[postID])
}
