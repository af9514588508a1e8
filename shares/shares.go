// Package shares issues and validates per-match capability tokens. A token
// substitutes for login: whoever presents the matching secret may claim and
// release slots of that one match until the token is revoked. Secrets are
// stored bcrypt-hashed; the plaintext leaves the service exactly once, in the
// create response.
package shares

import (
	"context"
	"errors"

	"slotboard/models"
)

var ErrNotFound = errors.New("share token not found")

type Store interface {
	// Create returns the stored token and the plaintext secret.
	Create(ctx context.Context, topicID, matchID, createdBy string) (*models.ShareToken, string, error)
	// Validate reports whether the secret matches any token scoped to
	// exactly this (topicID, matchID).
	Validate(ctx context.Context, topicID, matchID, secret string) (bool, error)
	Get(ctx context.Context, topicID, matchID, shareID string) (*models.ShareToken, error)
	List(ctx context.Context, topicID, matchID string) ([]models.ShareToken, error)
	// DeleteByMatch revokes every token of the match. Also invoked as the
	// cascade when the match itself is deleted.
	DeleteByMatch(ctx context.Context, topicID, matchID string) error
}
