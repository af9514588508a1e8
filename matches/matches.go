// Package matches stores the per-topic match documents, each carrying the
// hierarchical slot structure. Access control is the caller's business; this
// package only moves documents.
package matches

import (
	"context"
	"errors"

	"slotboard/models"
)

var ErrNotFound = errors.New("match not found")

// Store is the persistence contract shared by the Mongo implementation and
// the in-memory one used in tests and local development.
type Store interface {
	Insert(ctx context.Context, m *models.Match) error
	Get(ctx context.Context, topicID, matchID string) (*models.Match, error)
	// Update overwrites the whole document keyed by (topicID, matchID).
	Update(ctx context.Context, m *models.Match) error
	Delete(ctx context.Context, topicID, matchID string) error
	ListByTopic(ctx context.Context, topicID string) ([]models.Match, error)
}
