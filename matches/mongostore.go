package matches

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotboard/models"
)

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Insert(ctx context.Context, m *models.Match) error {
	_, err := s.coll.InsertOne(ctx, m)
	return err
}

func (s *MongoStore) Get(ctx context.Context, topicID, matchID string) (*models.Match, error) {
	var m models.Match
	err := s.coll.FindOne(ctx, bson.M{"topicid": topicID, "matchid": matchID}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MongoStore) Update(ctx context.Context, m *models.Match) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"topicid": m.TopicID, "matchid": m.MatchID}, m)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, topicID, matchID string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"topicid": topicID, "matchid": matchID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) ListByTopic(ctx context.Context, topicID string) ([]models.Match, error) {
	cur, err := s.coll.Find(ctx, bson.M{"topicid": topicID},
		options.Find().SetSort(bson.D{{Key: "createdat", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Match
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
