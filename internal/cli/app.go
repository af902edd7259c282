// Package cli is the command front end of the CRM. It parses arguments,
// restores the caller's session from the token file, calls the services and
// renders results as text tables.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/infrastructure/health"
	"github.com/epicevents/crm/internal/metrics"
)

// Services bundles the use cases the commands call.
type Services struct {
	Auth      ports.AuthService
	Actors    ports.ActorService
	Accounts  ports.AccountService
	Contracts ports.ContractService
	Events    ports.EventService
	// Health may be nil, in which case `status` reports no dependencies.
	Health *health.Checker
}

// App dispatches one command per Run call.
type App struct {
	svc    Services
	tokens *TokenFile
	log    zerolog.Logger

	// storageErr is set when storage could not be reached at startup; only
	// offline commands run then.
	storageErr error

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// Option customises an App.
type Option func(*App)

// WithIO replaces stdin, stdout and stderr.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *App) {
		a.in = in
		a.out = out
		a.errOut = errOut
	}
}

// WithStorageUnavailable marks storage as unreachable. Commands other than
// status and logout fail without calling the services.
func WithStorageUnavailable(err error) Option {
	return func(a *App) {
		a.storageErr = err
	}
}

// New returns an App over svc that keeps the session in tokens.
func New(svc Services, tokens *TokenFile, log zerolog.Logger, opts ...Option) *App {
	a := &App{
		svc:    svc,
		tokens: tokens,
		log:    log,
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type handler func(ctx context.Context, p domain.Principal, args []string) error

type command struct {
	summary string
	run     handler
	// public commands run without a session.
	public bool
	// offline commands run without storage.
	offline bool
}

func (a *App) commands() map[string]command {
	return map[string]command{
		"login":  {summary: "log in and store a session token", public: true, run: a.login},
		"logout": {summary: "delete the stored session token", public: true, offline: true, run: a.logout},
		"whoami": {summary: "show the identity of the stored session", run: a.whoami},
		"status": {summary: "check storage dependencies", public: true, offline: true, run: a.status},

		"actor create": {summary: "register an actor (management)", run: a.actorCreate},
		"actor update": {summary: "change an actor (management)", run: a.actorUpdate},
		"actor delete": {summary: "remove an actor (management)", run: a.actorDelete},
		"actor list":   {summary: "list actors (management)", run: a.actorList},

		"account create":   {summary: "create a customer account", run: a.accountCreate},
		"account update":   {summary: "change a customer account", run: a.accountUpdate},
		"account reassign": {summary: "move an account to another sales actor", run: a.accountReassign},
		"account list":     {summary: "list customer accounts", run: a.accountList},

		"contract create":   {summary: "draft a contract for an account", run: a.contractCreate},
		"contract update":   {summary: "change contract amounts", run: a.contractUpdate},
		"contract sign":     {summary: "sign a contract", run: a.contractSign},
		"contract pay":      {summary: "record a payment against a contract", run: a.contractPay},
		"contract list":     {summary: "list contracts", run: a.contractList},
		"contract unsigned": {summary: "list unsigned contracts", run: a.contractUnsigned},
		"contract unpaid":   {summary: "list contracts with an amount due", run: a.contractUnpaid},
		"contract signed":   {summary: "list signed contracts", run: a.contractSigned},

		"event create":     {summary: "schedule an event under a signed contract", run: a.eventCreate},
		"event update":     {summary: "change an event", run: a.eventUpdate},
		"event assign":     {summary: "assign a support actor to an event", run: a.eventAssign},
		"event mine":       {summary: "list events assigned to you", run: a.eventMine},
		"event unassigned": {summary: "list events without support", run: a.eventUnassigned},
	}
}

// Run executes the command named by args and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	cmds := a.commands()
	name, rest, ok := route(cmds, args)
	if !ok {
		a.usage(cmds)
		if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
			return ExitOK
		}
		return ExitUsage
	}

	start := time.Now()
	err := a.exec(ctx, cmds[name], rest)
	code, msg := a.resolve(name, err)

	metrics.CommandDuration.WithLabelValues(name, outcome(err)).Observe(time.Since(start).Seconds())

	if msg != "" {
		fmt.Fprintf(a.errOut, "error: %s\n", msg)
	}
	return code
}

func (a *App) exec(ctx context.Context, cmd command, args []string) error {
	if a.storageErr != nil && !cmd.offline {
		return &storageError{cause: a.storageErr}
	}
	if cmd.public {
		return cmd.run(ctx, domain.Principal{}, args)
	}
	p, err := a.principal()
	if err != nil {
		return err
	}
	return cmd.run(ctx, p, args)
}

// principal restores the session from the token file. A token that fails
// verification is deleted so the next command starts clean.
func (a *App) principal() (domain.Principal, error) {
	token, err := a.tokens.Load()
	if err != nil {
		return domain.Principal{}, err
	}
	p, err := a.svc.Auth.Verify(token)
	if err != nil {
		var tokenErr *domain.TokenError
		if errors.As(err, &tokenErr) {
			if clearErr := a.tokens.Clear(); clearErr != nil {
				a.log.Warn().Err(clearErr).Msg("failed to delete rejected session token")
			}
		}
		return domain.Principal{}, err
	}
	return p, nil
}

// route matches the longest command name at the head of args.
func route(cmds map[string]command, args []string) (string, []string, bool) {
	if len(args) >= 2 {
		if name := args[0] + " " + args[1]; hasCommand(cmds, name) {
			return name, args[2:], true
		}
	}
	if len(args) >= 1 && hasCommand(cmds, args[0]) {
		return args[0], args[1:], true
	}
	return "", nil, false
}

func hasCommand(cmds map[string]command, name string) bool {
	_, ok := cmds[name]
	return ok
}

func (a *App) usage(cmds map[string]command) {
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.errOut, "usage: crm <command> [flags]")
	fmt.Fprintln(a.errOut)
	w := newTable(a.errOut)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%s\n", name, cmds[name].summary)
	}
	_ = w.Flush()
	fmt.Fprintln(a.errOut)
	fmt.Fprintln(a.errOut, "run `crm <command> -h` for the flags of a command")
}

func trimmed(s string) string { return strings.TrimSpace(s) }
