package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

// AccountRepository implements ports.AccountRepository using MongoDB.
type AccountRepository struct {
	col *mongo.Collection
}

var _ ports.AccountRepository = (*AccountRepository)(nil)

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts)}
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	return insert(ctx, r.col, domain.KindAccount, a)
}

func (r *AccountRepository) Get(ctx context.Context, id string) (*domain.Account, error) {
	var a domain.Account
	if err := findOne(ctx, r.col, bson.M{"_id": id}, domain.KindAccount, id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) Update(ctx context.Context, a *domain.Account) error {
	return replace(ctx, r.col, domain.KindAccount, a.ID, a)
}

func (r *AccountRepository) List(ctx context.Context, f ports.AccountFilter) ([]*domain.Account, error) {
	filter := bson.M{}
	if f.SalesContactID != "" {
		filter["sales_contact_id"] = f.SalesContactID
	}
	accounts := make([]*domain.Account, 0)
	sort := bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	if err := findAll(ctx, r.col, domain.KindAccount, filter, sort, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}
