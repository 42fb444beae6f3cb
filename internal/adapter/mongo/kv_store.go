package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type kvStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	prefix     string
}

func NewKVStore(client *mongo.Client, dbName, collectionName, prefix string) repository.KeyValueStore {
	return &kvStore{
		client:     client,
		collection: client.Database(dbName).Collection(collectionName),
		prefix:     prefix,
	}
}

func (r *kvStore) Get(ctx context.Context, key string) (string, error) {
	var doc kvDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": r.prefix + key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("%w: find %s: %v", repository.ErrQueryFailed, key, err)
	}
	return doc.Value, nil
}

func (r *kvStore) Set(ctx context.Context, key, value string) error {
	filter := bson.M{"_id": r.prefix + key}
	update := bson.M{"$set": bson.M{"value": value, "updated_at": time.Now().UTC()}}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%w: upsert %s: %v", repository.ErrQueryFailed, key, err)
	}
	return nil
}

func (r *kvStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return r.client.Disconnect(ctx)
}
