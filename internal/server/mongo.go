package server

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kestrelhq/sharecard/pkg/card"
	"github.com/kestrelhq/sharecard/pkg/errors"
)

// MongoStore is a MongoDB-backed Store for multi-instance deployments.
// Share counters use atomic $inc updates so concurrent beacons never lose
// increments.
type MongoStore struct {
	client     *mongo.Client
	activities *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies connectivity.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}
	return &MongoStore{
		client:     client,
		activities: client.Database(database).Collection("activities"),
	}, nil
}

func (s *MongoStore) CreateActivity(ctx context.Context, a Activity) (Activity, error) {
	if a.ID == "" {
		a.ID = newActivityID()
	}
	if _, err := s.activities.InsertOne(ctx, a); err != nil {
		return Activity{}, errors.Wrap(errors.ErrCodeStore, err, "insert activity")
	}
	return a, nil
}

func (s *MongoStore) GetActivity(ctx context.Context, id string) (Activity, error) {
	var a Activity
	err := s.activities.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return Activity{}, errors.New(errors.ErrCodeActivityNotFound, "activity %q not found", id)
	}
	if err != nil {
		return Activity{}, errors.Wrap(errors.ErrCodeStore, err, "find activity %s", id)
	}
	return a, nil
}

func (s *MongoStore) ListTasks(ctx context.Context, id string) ([]card.Task, error) {
	a, err := s.GetActivity(ctx, id)
	if err != nil {
		return nil, err
	}
	return a.Tasks, nil
}

func (s *MongoStore) RecordShare(ctx context.Context, id, platform string, count int) error {
	if count <= 0 {
		count = 1
	}
	res, err := s.activities.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"share_counts." + platform: count}},
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "record share for %s", id)
	}
	if res.MatchedCount == 0 {
		return errors.New(errors.ErrCodeActivityNotFound, "activity %q not found", id)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
