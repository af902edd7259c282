// Package mongo implements the record repositories on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/epicevents/crm/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

const (
	collectionActors    = "actors"
	collectionAccounts  = "accounts"
	collectionContracts = "contracts"
	collectionEvents    = "events"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI).SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureIndexes creates the indexes every repository relies on. Usernames are
// unique case-insensitively.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	caseInsensitive := &options.Collation{Locale: "en", Strength: 2}
	plan := map[string][]mongo.IndexModel{
		collectionActors: {
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetUnique(true).SetCollation(caseInsensitive),
			},
		},
		collectionAccounts: {
			{Keys: bson.D{{Key: "sales_contact_id", Value: 1}}},
		},
		collectionContracts: {
			{Keys: bson.D{{Key: "account_id", Value: 1}}},
			{Keys: bson.D{{Key: "sales_contact_id", Value: 1}}},
			{Keys: bson.D{{Key: "signed", Value: 1}, {Key: "remaining", Value: 1}}},
		},
		collectionEvents: {
			{Keys: bson.D{{Key: "contract_id", Value: 1}}},
			{Keys: bson.D{{Key: "support_contact_id", Value: 1}, {Key: "start", Value: 1}}},
		},
	}
	for coll, indexes := range plan {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// findOne decodes the document with the given filter into out, mapping a
// missing document to *domain.NotFoundError.
func findOne(ctx context.Context, coll *mongo.Collection, filter any, kind domain.ResourceKind, id string, out any, opts ...*options.FindOneOptions) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := coll.FindOne(ctx, filter, opts...).Decode(out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &domain.NotFoundError{Kind: kind, ID: id}
		}
		return fmt.Errorf("find %s: %w", kind, err)
	}
	return nil
}

// replace overwrites the document with the given id.
func replace(ctx context.Context, coll *mongo.Collection, kind domain.ResourceKind, id string, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("update %s: %w", kind, err)
	}
	if res.MatchedCount == 0 {
		return &domain.NotFoundError{Kind: kind, ID: id}
	}
	return nil
}

func insert(ctx context.Context, coll *mongo.Collection, kind domain.ResourceKind, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert %s: %w", kind, err)
	}
	return nil
}

// findAll decodes every document matching filter into out, a pointer to a slice.
func findAll(ctx context.Context, coll *mongo.Collection, kind domain.ResourceKind, filter bson.M, sort bson.D, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return fmt.Errorf("list %s: %w", kind, err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", kind, err)
	}
	return nil
}
