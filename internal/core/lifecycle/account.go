package lifecycle

import (
	"time"

	"github.com/epicevents/crm/internal/core/domain"
)

// AccountPatch changes the non-nil contact fields of an account.
type AccountPatch struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Phone       *string
	CompanyName *string
}

// NewAccount returns the account described by draft, owned by owner.
func NewAccount(draft domain.Account, owner domain.Actor, now time.Time) (*domain.Account, error) {
	if owner.Role != domain.RoleSales {
		return nil, domain.ErrInvalidOwner
	}
	a := draft
	a.SalesContactID = owner.ID
	a.CreatedAt = now
	a.UpdatedAt = now
	if err := checkFields(a); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAccount applies patch to a copy of prior. Ownership never changes here.
func UpdateAccount(prior domain.Account, patch AccountPatch, now time.Time) (*domain.Account, error) {
	a := prior
	setString(&a.FirstName, patch.FirstName)
	setString(&a.LastName, patch.LastName)
	setString(&a.Email, patch.Email)
	setString(&a.Phone, patch.Phone)
	setString(&a.CompanyName, patch.CompanyName)
	if err := checkFields(a); err != nil {
		return nil, err
	}
	a.UpdatedAt = now
	return &a, nil
}

// Reassign hands the account to another Sales actor. Contracts already
// created under the account keep their owner.
func Reassign(prior domain.Account, owner domain.Actor, now time.Time) (*domain.Account, error) {
	if owner.Role != domain.RoleSales {
		return nil, domain.ErrInvalidOwner
	}
	a := prior
	a.SalesContactID = owner.ID
	a.UpdatedAt = now
	return &a, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
