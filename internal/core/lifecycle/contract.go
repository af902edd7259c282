package lifecycle

import (
	"time"

	"github.com/epicevents/crm/internal/core/domain"
)

// ContractPatch changes the non-nil terms of a contract. The signed flag is
// not patchable; only Sign sets it.
type ContractPatch struct {
	Total     *domain.Money
	Remaining *domain.Money
}

// NewContract returns an unsigned contract under account. The contract's
// owner is the account's owner at this moment and stays fixed.
func NewContract(id string, account domain.Account, total, remaining domain.Money, now time.Time) (*domain.Contract, error) {
	if err := checkAmounts(total, remaining); err != nil {
		return nil, err
	}
	return &domain.Contract{
		ID:             id,
		AccountID:      account.ID,
		SalesContactID: account.SalesContactID,
		Total:          total,
		Remaining:      remaining,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// UpdateContract applies patch to a copy of prior. Signed contracts remain
// editable; the amount invariants are checked on the result either way.
func UpdateContract(prior domain.Contract, patch ContractPatch, now time.Time) (*domain.Contract, error) {
	c := prior
	if patch.Total != nil {
		c.Total = *patch.Total
	}
	if patch.Remaining != nil {
		c.Remaining = *patch.Remaining
	}
	if err := checkAmounts(c.Total, c.Remaining); err != nil {
		return nil, err
	}
	c.UpdatedAt = now
	return &c, nil
}

// Sign marks the contract signed. Signing a signed contract succeeds and
// reports changed == false.
func Sign(prior domain.Contract, now time.Time) (c *domain.Contract, changed bool) {
	next := prior
	if next.Signed {
		return &next, false
	}
	next.Signed = true
	next.UpdatedAt = now
	return &next, true
}

// RecordPayment deducts amount from the remaining balance. amount must lie in
// [0, remaining]; a zero payment leaves the balance unchanged.
func RecordPayment(prior domain.Contract, amount domain.Money, now time.Time) (*domain.Contract, error) {
	switch {
	case amount < 0:
		return nil, &domain.InvalidPaymentError{Reason: domain.PaymentNegative, Amount: amount, Remaining: prior.Remaining}
	case amount > prior.Remaining:
		return nil, &domain.InvalidPaymentError{Reason: domain.PaymentExceedsRemaining, Amount: amount, Remaining: prior.Remaining}
	}
	c := prior
	c.Remaining -= amount
	if amount > 0 {
		c.UpdatedAt = now
	}
	return &c, nil
}

func checkAmounts(total, remaining domain.Money) error {
	if total < 0 || remaining < 0 || remaining > total {
		return domain.ErrInvalidContractAmounts
	}
	return nil
}
