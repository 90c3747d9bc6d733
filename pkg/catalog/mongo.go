package catalog

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/floorplan/pkg/errors"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "floorplan"
	DefaultMongoCollection = "catalogues"
)

// MongoSource reads the catalogue document with the highest version from a
// MongoDB collection. Documents use the same field names as the JSON form.
type MongoSource struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// Load connects, reads one document, and disconnects.
func (s *MongoSource) Load(ctx context.Context) (*Document, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect mongodb")
	}
	defer client.Disconnect(context.WithoutCancel(ctx))

	db, coll := s.names()

	var doc Document
	opts := options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})
	err = client.Database(db).Collection(coll).FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNotFound, "no catalogue in %s.%s", db, coll)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read catalogue from %s.%s", db, coll)
	}
	if len(doc.Rooms) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "catalogue has no room entries")
	}
	return &doc, nil
}

// Name returns a description without credentials.
func (s *MongoSource) Name() string {
	db, coll := s.names()
	return "mongodb:" + db + "/" + coll
}

func (s *MongoSource) names() (db, coll string) {
	db, coll = s.Database, s.Collection
	if db == "" {
		db = DefaultMongoDatabase
	}
	if coll == "" {
		coll = DefaultMongoCollection
	}
	return db, coll
}
