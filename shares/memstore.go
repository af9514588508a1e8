package shares

import (
	"context"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"slotboard/models"
	"slotboard/utils"
)

// MemStore is the in-memory counterpart of MongoStore, used in tests and
// local development.
type MemStore struct {
	mu   sync.RWMutex
	toks []models.ShareToken
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Create(_ context.Context, topicID, matchID, createdBy string) (*models.ShareToken, string, error) {
	secret := utils.NewSecret(16)
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	if err != nil {
		return nil, "", err
	}
	tok := models.ShareToken{
		ShareID:    utils.NewID(),
		TopicID:    topicID,
		MatchID:    matchID,
		SecretHash: string(hash),
		CreatedBy:  createdBy,
		CreatedAt:  time.Now(),
	}
	s.mu.Lock()
	s.toks = append(s.toks, tok)
	s.mu.Unlock()
	return &tok, secret, nil
}

func (s *MemStore) Validate(_ context.Context, topicID, matchID, secret string) (bool, error) {
	if secret == "" {
		return false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.toks {
		t := &s.toks[i]
		if t.TopicID != topicID || t.MatchID != matchID {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(t.SecretHash), []byte(secret)) == nil {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemStore) Get(_ context.Context, topicID, matchID, shareID string) (*models.ShareToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.toks {
		t := s.toks[i]
		if t.TopicID == topicID && t.MatchID == matchID && t.ShareID == shareID {
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) List(_ context.Context, topicID, matchID string) ([]models.ShareToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ShareToken
	for i := range s.toks {
		if s.toks[i].TopicID == topicID && s.toks[i].MatchID == matchID {
			out = append(out, s.toks[i])
		}
	}
	return out, nil
}

func (s *MemStore) DeleteByMatch(_ context.Context, topicID, matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.toks[:0]
	for i := range s.toks {
		if s.toks[i].TopicID != topicID || s.toks[i].MatchID != matchID {
			kept = append(kept, s.toks[i])
		}
	}
	s.toks = kept
	return nil
}
