package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

// ActorRepository implements ports.ActorRepository using MongoDB.
type ActorRepository struct {
	col *mongo.Collection
}

var _ ports.ActorRepository = (*ActorRepository)(nil)

func NewActorRepository(db *mongo.Database) *ActorRepository {
	return &ActorRepository{col: db.Collection(collectionActors)}
}

// Create inserts the actor. The unique username index turns a duplicate into
// domain.ErrActorExists.
func (r *ActorRepository) Create(ctx context.Context, actor *domain.Actor) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, actor); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrActorExists
		}
		return fmt.Errorf("insert actor: %w", err)
	}
	return nil
}

func (r *ActorRepository) Get(ctx context.Context, id string) (*domain.Actor, error) {
	var a domain.Actor
	if err := findOne(ctx, r.col, bson.M{"_id": id}, domain.KindActor, id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByUsername matches case-insensitively through the index collation.
func (r *ActorRepository) FindByUsername(ctx context.Context, username string) (*domain.Actor, error) {
	var a domain.Actor
	opts := options.FindOne().SetCollation(&options.Collation{Locale: "en", Strength: 2})
	if err := findOne(ctx, r.col, bson.M{"username": username}, domain.KindActor, username, &a, opts); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ActorRepository) Update(ctx context.Context, actor *domain.Actor) error {
	return replace(ctx, r.col, domain.KindActor, actor.ID, actor)
}

func (r *ActorRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete actor: %w", err)
	}
	if res.DeletedCount == 0 {
		return &domain.NotFoundError{Kind: domain.KindActor, ID: id}
	}
	return nil
}

func (r *ActorRepository) List(ctx context.Context) ([]*domain.Actor, error) {
	actors := make([]*domain.Actor, 0)
	if err := findAll(ctx, r.col, domain.KindActor, bson.M{}, bson.D{{Key: "username", Value: 1}}, &actors); err != nil {
		return nil, err
	}
	return actors, nil
}
