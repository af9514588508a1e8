package matches

import (
	"context"
	"sync"

	"slotboard/models"
)

// MemStore keeps matches in process memory. It backs the test suite and the
// local development mode; production wiring uses MongoStore.
type MemStore struct {
	mu     sync.RWMutex
	topics map[string]map[string]*models.Match
}

func NewMemStore() *MemStore {
	return &MemStore{topics: make(map[string]map[string]*models.Match)}
}

func (s *MemStore) Insert(_ context.Context, m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.topics[m.TopicID] == nil {
		s.topics[m.TopicID] = make(map[string]*models.Match)
	}
	s.topics[m.TopicID][m.MatchID] = m.Clone()
	return nil
}

func (s *MemStore) Get(_ context.Context, topicID, matchID string) (*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.topics[topicID][matchID]
	if !ok {
		return nil, ErrNotFound
	}
	return m.Clone(), nil
}

func (s *MemStore) Update(_ context.Context, m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.topics[m.TopicID][m.MatchID]; !ok {
		return ErrNotFound
	}
	s.topics[m.TopicID][m.MatchID] = m.Clone()
	return nil
}

func (s *MemStore) Delete(_ context.Context, topicID, matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.topics[topicID][matchID]; !ok {
		return ErrNotFound
	}
	delete(s.topics[topicID], matchID)
	return nil
}

func (s *MemStore) ListByTopic(_ context.Context, topicID string) ([]models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Match
	for _, m := range s.topics[topicID] {
		out = append(out, *m.Clone())
	}
	return out, nil
}
