package cli

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

// contractCreate defaults -remaining to -total.
func (a *App) contractCreate(ctx context.Context, p domain.Principal, args []string) error {
	f := a.flags("contract create")
	account := f.String("account", "", "account id")
	total := f.money("total", "total amount, e.g. 1000 or 1000.50")
	remaining := f.money("remaining", "amount still due (defaults to the total)")
	if err := f.parse(args); err != nil {
		return err
	}
	if err := f.require("account", "total"); err != nil {
		return err
	}

	due := total.v
	if f.set["remaining"] {
		due = remaining.v
	}
	c, err := a.svc.Contracts.CreateContract(ctx, p, ports.CreateContractInput{
		AccountID: *account,
		Total:     total.v,
		Remaining: due,
	})
	if err != nil {
		return err
	}
	return a.renderContracts([]*domain.Contract{c})
}

func (a *App) contractUpdate(ctx context.Context, p domain.Principal, args []string) error {
	f := a.flags("contract update")
	id := f.String("id", "", "contract id")
	total := f.money("total", "new total amount")
	remaining := f.money("remaining", "new amount still due")
	if err := f.parse(args); err != nil {
		return err
	}
	if err := f.require("id"); err != nil {
		return err
	}

	c, err := a.svc.Contracts.UpdateContract(ctx, p, ports.UpdateContractInput{
		ID:        *id,
		Total:     f.optMoney("total", total),
		Remaining: f.optMoney("remaining", remaining),
	})
	if err != nil {
		return err
	}
	return a.renderContracts([]*domain.Contract{c})
}

func (a *App) contractSign(ctx context.Context, p domain.Principal, args []string) error {
	f := a.flags("contract sign")
	id := f.String("id", "", "contract id")
	if err := f.parse(args); err != nil {
		return err
	}
	if err := f.require("id"); err != nil {
		return err
	}

	c, err := a.svc.Contracts.SignContract(ctx, p, *id)
	if err != nil {
		return err
	}
	return a.renderContracts([]*domain.Contract{c})
}

func (a *App) contractPay(ctx context.Context, p domain.Principal, args []string) error {
	f := a.flags("contract pay")
	id := f.String("id", "", "contract id")
	amount := f.money("amount", "amount received")
	if err := f.parse(args); err != nil {
		return err
	}
	if err := f.require("id", "amount"); err != nil {
		return err
	}

	c, err := a.svc.Contracts.RecordPayment(ctx, p, *id, amount.v)
	if err != nil {
		return err
	}
	return a.renderContracts([]*domain.Contract{c})
}

func (a *App) contractList(ctx context.Context, p domain.Principal, args []string) error {
	return a.listContracts("contract list", args, func() ([]*domain.Contract, error) {
		return a.svc.Contracts.ListContracts(ctx, p)
	})
}

func (a *App) contractUnsigned(ctx context.Context, p domain.Principal, args []string) error {
	return a.listContracts("contract unsigned", args, func() ([]*domain.Contract, error) {
		return a.svc.Contracts.ListUnsignedContracts(ctx, p)
	})
}

func (a *App) contractSigned(ctx context.Context, p domain.Principal, args []string) error {
	return a.listContracts("contract signed", args, func() ([]*domain.Contract, error) {
		return a.svc.Contracts.ListSignedContracts(ctx, p)
	})
}

func (a *App) contractUnpaid(ctx context.Context, p domain.Principal, args []string) error {
	return a.listContracts("contract unpaid", args, func() ([]*domain.Contract, error) {
		return a.svc.Contracts.ListUnpaidContracts(ctx, p)
	})
}

func (a *App) listContracts(name string, args []string, list func() ([]*domain.Contract, error)) error {
	if err := a.flags(name).parse(args); err != nil {
		return err
	}
	contracts, err := list()
	if err != nil {
		return err
	}
	return a.renderContracts(contracts)
}
