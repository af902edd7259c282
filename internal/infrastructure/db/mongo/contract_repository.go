package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

// ContractRepository implements ports.ContractRepository using MongoDB.
type ContractRepository struct {
	col *mongo.Collection
}

var _ ports.ContractRepository = (*ContractRepository)(nil)

func NewContractRepository(db *mongo.Database) *ContractRepository {
	return &ContractRepository{col: db.Collection(collectionContracts)}
}

func (r *ContractRepository) Create(ctx context.Context, c *domain.Contract) error {
	return insert(ctx, r.col, domain.KindContract, c)
}

func (r *ContractRepository) Get(ctx context.Context, id string) (*domain.Contract, error) {
	var c domain.Contract
	if err := findOne(ctx, r.col, bson.M{"_id": id}, domain.KindContract, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContractRepository) Update(ctx context.Context, c *domain.Contract) error {
	return replace(ctx, r.col, domain.KindContract, c.ID, c)
}

func (r *ContractRepository) List(ctx context.Context, f ports.ContractFilter) ([]*domain.Contract, error) {
	contracts := make([]*domain.Contract, 0)
	sort := bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	if err := findAll(ctx, r.col, domain.KindContract, contractQuery(f), sort, &contracts); err != nil {
		return nil, err
	}
	return contracts, nil
}

func contractQuery(f ports.ContractFilter) bson.M {
	filter := bson.M{}
	if f.AccountID != "" {
		filter["account_id"] = f.AccountID
	}
	if f.SalesContactID != "" {
		filter["sales_contact_id"] = f.SalesContactID
	}
	switch {
	case f.UnsignedOnly:
		filter["signed"] = false
	case f.SignedOnly:
		filter["signed"] = true
	}
	if f.UnpaidOnly {
		filter["remaining"] = bson.M{"$gt": 0}
	}
	return filter
}
