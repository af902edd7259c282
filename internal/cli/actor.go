package cli

import (
	"context"
	"fmt"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

func (a *App) actorCreate(ctx context.Context, p domain.Principal, args []string) error {
	f := a.flags("actor create")
	username := f.String("username", "", "login name")
	email := f.String("email", "", "email address")
	name := f.String("name", "", "display name")
	password := f.String("password", "", "initial password")
	role := f.String("role", "", "management, sales or support")
	if err := f.parse(args); err != nil {
		return err
	}
	if err := f.require("username", "email", "name", "password", "role"); err != nil {
		return err
	}

	actor, err := a.svc.Actors.CreateActor(ctx, p, ports.CreateActorInput{
		Username:    *username,
		Email:       *email,
		DisplayName: *name,
		Password:    *password,
		Role:        *role,
	})
	if err != nil {
		return err
	}
	return a.renderActors([]*domain.Actor{actor})
}

func (a *App) actorUpdate(ctx context.Context, p domain.Principal, args []string) error {
	f := a.flags("actor update")
	id := f.String("id", "", "actor id")
	email := f.String("email", "", "new email address")
	name := f.String("name", "", "new display name")
	password := f.String("password", "", "new password")
	role := f.String("role", "", "new role, effective on the actor's next login")
	if err := f.parse(args); err != nil {
		return err
	}
	if err := f.require("id"); err != nil {
		return err
	}

	actor, err := a.svc.Actors.UpdateActor(ctx, p, ports.UpdateActorInput{
		ID:          *id,
		Email:       f.optString("email", *email),
		DisplayName: f.optString("name", *name),
		Password:    f.optString("password", *password),
		Role:        f.optString("role", *role),
	})
	if err != nil {
		return err
	}
	return a.renderActors([]*domain.Actor{actor})
}

func (a *App) actorDelete(ctx context.Context, p domain.Principal, args []string) error {
	f := a.flags("actor delete")
	id := f.String("id", "", "actor id")
	if err := f.parse(args); err != nil {
		return err
	}
	if err := f.require("id"); err != nil {
		return err
	}
	if err := a.svc.Actors.DeleteActor(ctx, p, *id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "actor %s deleted\n", *id)
	return nil
}

func (a *App) actorList(ctx context.Context, p domain.Principal, args []string) error {
	if err := a.flags("actor list").parse(args); err != nil {
		return err
	}
	actors, err := a.svc.Actors.ListActors(ctx, p)
	if err != nil {
		return err
	}
	return a.renderActors(actors)
}
