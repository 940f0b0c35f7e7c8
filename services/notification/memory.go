package notifsvc

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/core"
)

// Notification is a Notice delivered to a user, kept in their feed until read.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// MemorySink is an in-process notification center: it receives fire-and-forget
// notices and keeps a per-user feed with read flags.
type MemorySink struct {
	mutex sync.RWMutex
	feeds map[string][]*Notification // userID -> newest first
}

var _ core.NotificationSink = (*MemorySink)(nil)

func NewMemorySink() *MemorySink {
	return &MemorySink{feeds: make(map[string][]*Notification)}
}

func (s *MemorySink) Notify(userID string, notice core.Notice) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	n := &Notification{
		ID:        uuid.New().String(),
		Kind:      notice.Kind,
		Title:     notice.Title,
		Message:   notice.Message,
		CreatedAt: time.Now().UTC(),
	}
	s.feeds[userID] = append([]*Notification{n}, s.feeds[userID]...)
}

// Query returns the user's feed, newest first.
func (s *MemorySink) Query(userID string) []Notification {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	feed := s.feeds[userID]
	out := make([]Notification, 0, len(feed))
	for _, n := range feed {
		out = append(out, *n)
	}
	return out
}

func (s *MemorySink) UnreadCount(userID string) int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var count int
	for _, n := range s.feeds[userID] {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead flags one notification read; unknown ids are ignored.
func (s *MemorySink) MarkRead(userID, id string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, n := range s.feeds[userID] {
		if n.ID == id {
			n.Read = true
			return
		}
	}
}

func (s *MemorySink) MarkAllRead(userID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, n := range s.feeds[userID] {
		n.Read = true
	}
}
