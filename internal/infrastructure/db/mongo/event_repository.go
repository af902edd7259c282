package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	col *mongo.Collection
}

var _ ports.EventRepository = (*EventRepository)(nil)

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(collectionEvents)}
}

func (r *EventRepository) Create(ctx context.Context, e *domain.Event) error {
	return insert(ctx, r.col, domain.KindEvent, e)
}

func (r *EventRepository) Get(ctx context.Context, id string) (*domain.Event, error) {
	var e domain.Event
	if err := findOne(ctx, r.col, bson.M{"_id": id}, domain.KindEvent, id, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) Update(ctx context.Context, e *domain.Event) error {
	return replace(ctx, r.col, domain.KindEvent, e.ID, e)
}

func (r *EventRepository) List(ctx context.Context, f ports.EventFilter) ([]*domain.Event, error) {
	events := make([]*domain.Event, 0)
	sort := bson.D{{Key: "start", Value: 1}, {Key: "_id", Value: 1}}
	if err := findAll(ctx, r.col, domain.KindEvent, eventQuery(f), sort, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// eventQuery builds the filter document. The support contact is omitted from
// stored documents while unassigned, so "unassigned" matches a missing field.
func eventQuery(f ports.EventFilter) bson.M {
	filter := bson.M{}
	if f.ContractID != "" {
		filter["contract_id"] = f.ContractID
	}
	switch {
	case f.SupportContactID != "":
		filter["support_contact_id"] = f.SupportContactID
	case f.UnassignedOnly:
		filter["support_contact_id"] = bson.M{"$exists": false}
	}
	return filter
}
