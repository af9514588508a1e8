package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DB bundles the Mongo client and the collections this service owns.
type DB struct {
	Client      *mongo.Client
	Matches     *mongo.Collection
	ShareTokens *mongo.Collection
}

func Connect(ctx context.Context, uri, name string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	d := &DB{
		Client:      client,
		Matches:     client.Database(name).Collection("matches"),
		ShareTokens: client.Database(name).Collection("sharetokens"),
	}
	if err := d.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DB) ensureIndexes(ctx context.Context) error {
	_, err := d.Matches.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "topicid", Value: 1}, {Key: "matchid", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = d.ShareTokens.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "topicid", Value: 1}, {Key: "matchid", Value: 1}},
	})
	return err
}

func (d *DB) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}
