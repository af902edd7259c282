package ports

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
)

// CreateAccountInput carries the contact details of a new customer.
// SalesContactID may be left empty when the caller is a Sales actor.
type CreateAccountInput struct {
	SalesContactID string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	CompanyName    string
}

// UpdateAccountInput changes the non-nil contact fields of an account.
type UpdateAccountInput struct {
	ID          string
	FirstName   *string
	LastName    *string
	Email       *string
	Phone       *string
	CompanyName *string
}

// AccountService defines use-case operations for customer accounts.
type AccountService interface {
	CreateAccount(ctx context.Context, p domain.Principal, in CreateAccountInput) (*domain.Account, error)
	UpdateAccount(ctx context.Context, p domain.Principal, in UpdateAccountInput) (*domain.Account, error)
	ReassignAccount(ctx context.Context, p domain.Principal, accountID, salesContactID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, p domain.Principal) ([]*domain.Account, error)
}
