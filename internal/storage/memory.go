package storage

import (
	"context"
	"sync"
	"time"

	"github.com/xaenox/homework-bot/internal/models"
)

type MemoryStorage struct {
	mu    sync.RWMutex
	users map[int64]*models.User
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users: make(map[int64]*models.User),
	}
}

func (s *MemoryStorage) GetGrade(ctx context.Context, userID int64) (models.Grade, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if user, exists := s.users[userID]; exists {
		return user.Grade, true, nil
	}
	return "", false, nil
}

func (s *MemoryStorage) SetGrade(ctx context.Context, userID int64, grade models.Grade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[userID] = &models.User{
		ID:         userID,
		Grade:      grade,
		LastUsedAt: time.Now(),
	}
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
