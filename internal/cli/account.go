package cli

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

func (a *App) accountCreate(ctx context.Context, p domain.Principal, args []string) error {
	f := a.flags("account create")
	owner := f.String("sales-contact", "", "owning sales actor id (defaults to you when you are in sales)")
	first := f.String("first-name", "", "contact first name")
	last := f.String("last-name", "", "contact last name")
	email := f.String("email", "", "contact email")
	phone := f.String("phone", "", "contact phone")
	company := f.String("company", "", "company name")
	if err := f.parse(args); err != nil {
		return err
	}
	if err := f.require("first-name", "last-name", "email", "phone", "company"); err != nil {
		return err
	}

	acc, err := a.svc.Accounts.CreateAccount(ctx, p, ports.CreateAccountInput{
		SalesContactID: *owner,
		FirstName:      *first,
		LastName:       *last,
		Email:          *email,
		Phone:          *phone,
		CompanyName:    *company,
	})
	if err != nil {
		return err
	}
	return a.renderAccounts([]*domain.Account{acc})
}

func (a *App) accountUpdate(ctx context.Context, p domain.Principal, args []string) error {
	f := a.flags("account update")
	id := f.String("id", "", "account id")
	first := f.String("first-name", "", "contact first name")
	last := f.String("last-name", "", "contact last name")
	email := f.String("email", "", "contact email")
	phone := f.String("phone", "", "contact phone")
	company := f.String("company", "", "company name")
	if err := f.parse(args); err != nil {
		return err
	}
	if err := f.require("id"); err != nil {
		return err
	}

	acc, err := a.svc.Accounts.UpdateAccount(ctx, p, ports.UpdateAccountInput{
		ID:          *id,
		FirstName:   f.optString("first-name", *first),
		LastName:    f.optString("last-name", *last),
		Email:       f.optString("email", *email),
		Phone:       f.optString("phone", *phone),
		CompanyName: f.optString("company", *company),
	})
	if err != nil {
		return err
	}
	return a.renderAccounts([]*domain.Account{acc})
}

func (a *App) accountReassign(ctx context.Context, p domain.Principal, args []string) error {
	f := a.flags("account reassign")
	id := f.String("id", "", "account id")
	owner := f.String("sales-contact", "", "new owning sales actor id")
	if err := f.parse(args); err != nil {
		return err
	}
	if err := f.require("id", "sales-contact"); err != nil {
		return err
	}

	acc, err := a.svc.Accounts.ReassignAccount(ctx, p, *id, *owner)
	if err != nil {
		return err
	}
	return a.renderAccounts([]*domain.Account{acc})
}

func (a *App) accountList(ctx context.Context, p domain.Principal, args []string) error {
	if err := a.flags("account list").parse(args); err != nil {
		return err
	}
	accounts, err := a.svc.Accounts.ListAccounts(ctx, p)
	if err != nil {
		return err
	}
	return a.renderAccounts(accounts)
}
