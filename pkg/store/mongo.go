package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/griddock/griddock/pkg/deck"
)

// MongoStore keeps profiles as documents in a MongoDB collection. Unlike
// the other backends it does not store JSON blobs: profiles marshal through
// their bson tags, so the documents are queryable per field.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongo connects to MongoDB and verifies the connection. Empty database
// and collection names default to "griddock" and "profiles".
func OpenMongo(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	if database == "" {
		database = "griddock"
	}
	if collection == "" {
		collection = "profiles"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, name string) (deck.Profile, error) {
	var p deck.Profile
	err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return deck.Profile{}, ErrNotFound
	}
	if err != nil {
		return deck.Profile{}, fmt.Errorf("find profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return deck.Profile{}, err
	}
	return p, nil
}

func (s *MongoStore) Set(ctx context.Context, p deck.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	_, err := s.coll.ReplaceOne(ctx, bson.M{"name": p.Name}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"name": name}); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"name": 1}))
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var names []string
	for cursor.Next(ctx) {
		var row struct {
			Name string `bson:"name"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode profile name: %w", err)
		}
		names = append(names, row.Name)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
