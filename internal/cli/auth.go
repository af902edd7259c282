package cli

import (
	"bufio"
	"context"
	"fmt"
	"sort"

	"github.com/epicevents/crm/internal/core/domain"
)

// login reads the password from -password or, when absent, from the first
// line of stdin.
func (a *App) login(ctx context.Context, _ domain.Principal, args []string) error {
	f := a.flags("login")
	username := f.String("username", "", "login name")
	password := f.String("password", "", "password (read from stdin when omitted)")
	if err := f.parse(args); err != nil {
		return err
	}
	if err := f.require("username"); err != nil {
		return err
	}

	secret := *password
	if !f.set["password"] {
		fmt.Fprint(a.errOut, "password: ")
		sc := bufio.NewScanner(a.in)
		if sc.Scan() {
			secret = sc.Text()
		}
		fmt.Fprintln(a.errOut)
		if err := sc.Err(); err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	}

	sess, err := a.svc.Auth.Authenticate(ctx, *username, secret)
	if err != nil {
		return err
	}
	if err := a.tokens.Save(sess.Token); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged in as %s (%s), session valid until %s\n",
		trimmed(*username), sess.Role, formatTime(sess.ExpiresAt))
	return nil
}

func (a *App) logout(_ context.Context, _ domain.Principal, args []string) error {
	if err := a.flags("logout").parse(args); err != nil {
		return err
	}
	if err := a.tokens.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func (a *App) whoami(_ context.Context, p domain.Principal, args []string) error {
	if err := a.flags("whoami").parse(args); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "actor %s, role %s\n", p.ActorID, p.Role)
	return nil
}

// status exits with the rejection code when a configured dependency is down.
func (a *App) status(ctx context.Context, _ domain.Principal, args []string) error {
	if err := a.flags("status").parse(args); err != nil {
		return err
	}
	if a.svc.Health == nil {
		fmt.Fprintln(a.out, "status: ok (no dependencies)")
		return nil
	}

	report := a.svc.Health.Check(ctx)
	names := make([]string, 0, len(report.Dependencies))
	for name := range report.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	w := newTable(a.out)
	fmt.Fprintln(w, "DEPENDENCY\tSTATUS\tERROR")
	for _, name := range names {
		dep := report.Dependencies[name]
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, dep.Status, dep.Error)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "status: %s\n", report.Status)
	if !report.Healthy() {
		return errDegraded
	}
	return nil
}
