package shares

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"slotboard/models"
	"slotboard/utils"
)

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Create(ctx context.Context, topicID, matchID, createdBy string) (*models.ShareToken, string, error) {
	secret := utils.NewSecret(16)
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
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
	if _, err := s.coll.InsertOne(ctx, tok); err != nil {
		return nil, "", err
	}
	return &tok, secret, nil
}

func (s *MongoStore) Validate(ctx context.Context, topicID, matchID, secret string) (bool, error) {
	if secret == "" {
		return false, nil
	}
	toks, err := s.List(ctx, topicID, matchID)
	if err != nil {
		return false, err
	}
	for i := range toks {
		if bcrypt.CompareHashAndPassword([]byte(toks[i].SecretHash), []byte(secret)) == nil {
			return true, nil
		}
	}
	return false, nil
}

func (s *MongoStore) Get(ctx context.Context, topicID, matchID, shareID string) (*models.ShareToken, error) {
	var tok models.ShareToken
	err := s.coll.FindOne(ctx, bson.M{
		"topicid": topicID, "matchid": matchID, "shareid": shareID,
	}).Decode(&tok)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

func (s *MongoStore) List(ctx context.Context, topicID, matchID string) ([]models.ShareToken, error) {
	cur, err := s.coll.Find(ctx, bson.M{"topicid": topicID, "matchid": matchID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ShareToken
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) DeleteByMatch(ctx context.Context, topicID, matchID string) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"topicid": topicID, "matchid": matchID})
	return err
}
