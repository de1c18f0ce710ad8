package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"estoque/internal/adapter"
	"estoque/internal/errors"
)

const (
	writeTimeout = 5 * time.Second
	queryTimeout = 10 * time.Second
)

// Store persists records in a remote mongo collection, one document per
// record with the record id as _id.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func New(ctx context.Context, uri, database, collection string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.NewUnavailableError("connecting to mongo", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, errors.NewUnavailableError("pinging mongo", err)
	}

	return &Store{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) List(ctx context.Context) ([]adapter.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.NewUnavailableError("listing documents", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.NewUnavailableError("decoding documents", err)
	}

	list := make([]adapter.Record, 0, len(docs))
	for _, doc := range docs {
		rec := adapter.Record{Fields: make(map[string]any, len(doc))}
		for k, v := range doc {
			if k == "_id" {
				rec.ID = fmt.Sprintf("%v", v)
				continue
			}
			rec.Fields[k] = v
		}
		list = append(list, rec)
	}
	return list, nil
}

func (s *Store) Create(ctx context.Context, rec adapter.Record) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	doc := bson.M{"_id": rec.ID}
	for k, v := range rec.Fields {
		doc[k] = v
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", errors.NewDuplicateIDError(rec.ID)
		}
		return "", errors.NewUnavailableError("inserting document", err)
	}
	return rec.ID, nil
}

func (s *Store) Update(ctx context.Context, id string, rec adapter.Record) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	update := bson.M{}
	for k, v := range rec.Fields {
		update[k] = v
	}

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return errors.NewUnavailableError("updating document", err)
	}
	if result.MatchedCount == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("record %q not found", id))
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.NewUnavailableError("deleting document", err)
	}
	return nil
}
