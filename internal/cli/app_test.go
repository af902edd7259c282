package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/authz"
	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ownership"
	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/core/service"
	"github.com/epicevents/crm/internal/core/session"
	"github.com/epicevents/crm/internal/infrastructure/credentials"
	"github.com/epicevents/crm/internal/infrastructure/db/memory"
	"github.com/epicevents/crm/internal/infrastructure/health"
)

const adminPassword = "correct-horse"

type harness struct {
	store  *memory.Store
	svc    Services
	tokens *TokenFile
}

// newHarness wires the real services over a memory store and seeds one
// Management actor named "admin".
func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	creds := credentials.NewBcryptStore(store.Actors(), 4)

	hash, err := creds.Hash(adminPassword)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admin := &domain.Actor{
		ID:           "m-1",
		Username:     "admin",
		Email:        "admin@example.com",
		DisplayName:  "Admin",
		PasswordHash: hash,
		Role:         domain.RoleManagement,
	}
	if err := store.Actors().Create(ctx, admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	issuer, err := session.NewIssuer([]byte("cli-test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	resolver := ownership.NewResolver(store.Accounts(), store.Contracts(), store.Events())
	deps := service.Deps{
		Actors:     store.Actors(),
		Accounts:   store.Accounts(),
		Contracts:  store.Contracts(),
		Events:     store.Events(),
		Authorizer: service.NewAuthorizer(authz.Default(), resolver, zerolog.Nop()),
	}

	return &harness{
		store: store,
		svc: Services{
			Auth:      service.NewAuthService(store.Actors(), creds, nil, issuer, zerolog.Nop()),
			Actors:    service.NewActorService(deps, creds, zerolog.Nop()),
			Accounts:  service.NewAccountService(deps, zerolog.Nop()),
			Contracts: service.NewContractService(deps, zerolog.Nop()),
			Events:    service.NewEventService(deps, zerolog.Nop()),
		},
		tokens: NewTokenFile(filepath.Join(t.TempDir(), "crm", "token")),
	}
}

type result struct {
	code   int
	stdout string
	stderr string
}

func (h *harness) run(stdin string, args ...string) result {
	return runApp(h.svc, h.tokens, stdin, args...)
}

func runApp(svc Services, tokens *TokenFile, stdin string, args ...string) result {
	var out, errOut bytes.Buffer
	app := New(svc, tokens, zerolog.Nop(), WithIO(strings.NewReader(stdin), &out, &errOut))
	code := app.Run(context.Background(), args)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func (h *harness) mustRun(t *testing.T, args ...string) result {
	t.Helper()
	r := h.run("", args...)
	if r.code != ExitOK {
		t.Fatalf("%v: exit %d, stderr %q", args, r.code, r.stderr)
	}
	return r
}

func (h *harness) loginAs(t *testing.T, username, password string) {
	t.Helper()
	h.mustRun(t, "login", "-username", username, "-password", password)
}

func (h *harness) actorID(t *testing.T, username string) string {
	t.Helper()
	a, err := h.store.Actors().FindByUsername(context.Background(), username)
	if err != nil {
		t.Fatalf("find %s: %v", username, err)
	}
	return a.ID
}

func (h *harness) onlyContract(t *testing.T) *domain.Contract {
	t.Helper()
	all, err := h.store.Contracts().List(context.Background(), ports.ContractFilter{})
	if err != nil || len(all) != 1 {
		t.Fatalf("expected one contract, got %d (err %v)", len(all), err)
	}
	return all[0]
}

func TestLogin_StoresTokenAndWhoami(t *testing.T) {
	h := newHarness(t)

	r := h.run("", "login", "-username", "admin", "-password", adminPassword)
	if r.code != ExitOK {
		t.Fatalf("expected exit 0, got %d: %s", r.code, r.stderr)
	}
	if !strings.Contains(r.stdout, "management") {
		t.Fatalf("expected role in output, got %q", r.stdout)
	}

	info, err := os.Stat(h.tokens.Path())
	if err != nil {
		t.Fatalf("token file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600, got %o", perm)
	}

	r = h.mustRun(t, "whoami")
	if !strings.Contains(r.stdout, "actor m-1, role management") {
		t.Fatalf("unexpected whoami output %q", r.stdout)
	}
}

func TestLogin_PasswordFromStdin(t *testing.T) {
	h := newHarness(t)

	r := h.run(adminPassword+"\n", "login", "-username", "admin")
	if r.code != ExitOK {
		t.Fatalf("expected exit 0, got %d: %s", r.code, r.stderr)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t)

	r := h.run("", "login", "-username", "admin", "-password", "nope")
	if r.code != ExitAuth {
		t.Fatalf("expected exit %d, got %d", ExitAuth, r.code)
	}
	if !strings.Contains(r.stderr, "invalid username or password") {
		t.Fatalf("unexpected stderr %q", r.stderr)
	}
	if _, err := h.tokens.Load(); !errors.Is(err, errNoSession) {
		t.Fatalf("expected no stored token, got %v", err)
	}
}

func TestSession_MissingAndTampered(t *testing.T) {
	h := newHarness(t)

	r := h.run("", "account", "list")
	if r.code != ExitAuth || !strings.Contains(r.stderr, "not logged in") {
		t.Fatalf("expected not-logged-in failure, got %d %q", r.code, r.stderr)
	}

	h.loginAs(t, "admin", adminPassword)
	token, err := h.tokens.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := h.tokens.Save(token + "x"); err != nil {
		t.Fatalf("save: %v", err)
	}

	r = h.run("", "whoami")
	if r.code != ExitAuth {
		t.Fatalf("expected exit %d, got %d", ExitAuth, r.code)
	}
	if !strings.Contains(r.stderr, "session token is invalid") {
		t.Fatalf("unexpected stderr %q", r.stderr)
	}
	if _, err := os.Stat(h.tokens.Path()); !os.IsNotExist(err) {
		t.Fatalf("expected rejected token to be deleted, stat err %v", err)
	}
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, "admin", adminPassword)

	h.mustRun(t, "logout")
	if r := h.run("", "whoami"); r.code != ExitAuth {
		t.Fatalf("expected exit %d after logout, got %d", ExitAuth, r.code)
	}
	// Logging out twice is harmless.
	h.mustRun(t, "logout")
}

func TestUsageErrors(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, "admin", adminPassword)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no args", nil, ExitOK},
		{"help", []string{"help"}, ExitOK},
		{"unknown command", []string{"invoice", "list"}, ExitUsage},
		{"missing flag", []string{"contract", "pay", "-id", "c-1"}, ExitUsage},
		{"bad money", []string{"contract", "pay", "-id", "c-1", "-amount", "12.345"}, ExitUsage},
		{"bad time", []string{"event", "update", "-id", "e-1", "-start", "tomorrow"}, ExitUsage},
		{"stray argument", []string{"account", "list", "extra"}, ExitUsage},
		{"flag help", []string{"account", "create", "-h"}, ExitOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := h.run("", tc.args...)
			if r.code != tc.want {
				t.Fatalf("expected exit %d, got %d (stderr %q)", tc.want, r.code, r.stderr)
			}
		})
	}
}

func TestWorkflow_SalesToSupport(t *testing.T) {
	h := newHarness(t)

	h.loginAs(t, "admin", adminPassword)
	h.mustRun(t, "actor", "create", "-username", "alice", "-email", "alice@example.com",
		"-name", "Alice", "-password", "alice-secret", "-role", "sales")
	h.mustRun(t, "actor", "create", "-username", "sam", "-email", "sam@example.com",
		"-name", "Sam", "-password", "sam-secret", "-role", "support")
	supportID := h.actorID(t, "sam")

	r := h.mustRun(t, "actor", "list")
	if !strings.Contains(r.stdout, "alice") || !strings.Contains(r.stdout, "sam") {
		t.Fatalf("actor list missing rows: %q", r.stdout)
	}

	h.loginAs(t, "alice", "alice-secret")
	h.mustRun(t, "account", "create", "-first-name", "Kevin", "-last-name", "Casey",
		"-email", "kevin@startup.io", "-phone", "+678 123 456 78", "-company", "Cool Startup LLC")

	accounts, err := h.store.Accounts().List(context.Background(), ports.AccountFilter{})
	if err != nil || len(accounts) != 1 {
		t.Fatalf("expected one account, got %d (err %v)", len(accounts), err)
	}
	if accounts[0].SalesContactID != h.actorID(t, "alice") {
		t.Fatalf("account should belong to alice, got %s", accounts[0].SalesContactID)
	}

	h.mustRun(t, "contract", "create", "-account", accounts[0].ID, "-total", "1000")
	c := h.onlyContract(t)
	if c.Total != 100000 || c.Remaining != 100000 {
		t.Fatalf("remaining should default to total, got %s/%s", c.Total, c.Remaining)
	}

	r = h.run("", "event", "create", "-contract", c.ID, "-name", "Launch party",
		"-start", "2025-06-01 10:00", "-end", "2025-06-01 18:00", "-location", "Hall A", "-attendees", "75")
	if r.code != ExitRejected || !strings.Contains(r.stderr, "contract is not signed") {
		t.Fatalf("expected unsigned rejection, got %d %q", r.code, r.stderr)
	}

	r = h.mustRun(t, "contract", "signed")
	if strings.Contains(r.stdout, c.ID) {
		t.Fatalf("unsigned contract listed as signed: %q", r.stdout)
	}
	h.mustRun(t, "contract", "sign", "-id", c.ID)
	r = h.mustRun(t, "contract", "signed")
	if !strings.Contains(r.stdout, c.ID) {
		t.Fatalf("expected signed contract in list: %q", r.stdout)
	}
	r = h.run("", "contract", "pay", "-id", c.ID, "-amount", "184467440737095516.16")
	if r.code != ExitUsage {
		t.Fatalf("expected overflowing amount to be a usage error, got %d %q", r.code, r.stderr)
	}
	r = h.mustRun(t, "contract", "pay", "-id", c.ID, "-amount", "400")
	if !strings.Contains(r.stdout, "600.00") {
		t.Fatalf("expected remaining 600.00, got %q", r.stdout)
	}
	r = h.run("", "contract", "pay", "-id", c.ID, "-amount", "700")
	if r.code != ExitRejected || !strings.Contains(r.stderr, "exceeds remaining") {
		t.Fatalf("expected overpayment rejection, got %d %q", r.code, r.stderr)
	}

	h.mustRun(t, "event", "create", "-contract", c.ID, "-name", "Launch party",
		"-start", "2025-06-01 10:00", "-end", "2025-06-01 18:00", "-location", "Hall A", "-attendees", "75")
	events, err := h.store.Events().List(context.Background(), ports.EventFilter{})
	if err != nil || len(events) != 1 {
		t.Fatalf("expected one event, got %d (err %v)", len(events), err)
	}
	eventID := events[0].ID

	// Sales may not staff events.
	r = h.run("", "event", "assign", "-id", eventID, "-support", supportID)
	if r.code != ExitRejected || !strings.Contains(r.stderr, "permission denied") {
		t.Fatalf("expected permission denied, got %d %q", r.code, r.stderr)
	}

	h.loginAs(t, "admin", adminPassword)
	r = h.mustRun(t, "event", "unassigned")
	if !strings.Contains(r.stdout, eventID) {
		t.Fatalf("expected event in unassigned list: %q", r.stdout)
	}
	// Management may not sign.
	if r := h.run("", "contract", "sign", "-id", c.ID); r.code != ExitRejected {
		t.Fatalf("expected exit %d for management sign, got %d", ExitRejected, r.code)
	}
	h.mustRun(t, "event", "assign", "-id", eventID, "-support", supportID)

	h.loginAs(t, "sam", "sam-secret")
	r = h.mustRun(t, "event", "mine")
	if !strings.Contains(r.stdout, "Launch party") {
		t.Fatalf("expected assigned event, got %q", r.stdout)
	}
	h.mustRun(t, "event", "update", "-id", eventID, "-attendees", "90", "-notes", "stage at 9")

	r = h.run("", "event", "update", "-id", eventID, "-end", "2025-06-01 09:00")
	if r.code != ExitRejected || !strings.Contains(r.stderr, "end must be after") {
		t.Fatalf("expected date range rejection, got %d %q", r.code, r.stderr)
	}

	r = h.run("", "contract", "unpaid")
	if r.code != ExitRejected {
		t.Fatalf("expected support to be denied unpaid filter, got %d", r.code)
	}
}

func TestStatus(t *testing.T) {
	h := newHarness(t)

	r := h.mustRun(t, "status")
	if !strings.Contains(r.stdout, "no dependencies") {
		t.Fatalf("unexpected output %q", r.stdout)
	}

	h.svc.Health = health.NewChecker(time.Second).
		Add("mongodb", func(context.Context) error { return nil }).
		Add("redis", func(context.Context) error { return errors.New("connection refused") })
	r = h.run("", "status")
	if r.code != ExitRejected {
		t.Fatalf("expected exit %d, got %d", ExitRejected, r.code)
	}
	if !strings.Contains(r.stdout, "connection refused") || !strings.Contains(r.stdout, "degraded") {
		t.Fatalf("unexpected output %q", r.stdout)
	}
}

func TestStorageUnavailable_OnlyOfflineCommandsRun(t *testing.T) {
	tokens := NewTokenFile(filepath.Join(t.TempDir(), "token"))
	if err := tokens.Save("opaque"); err != nil {
		t.Fatalf("save: %v", err)
	}
	connErr := errors.New("mongo ping: server selection timeout")
	svc := Services{
		Health: health.NewChecker(time.Second).
			Add("mongodb", func(context.Context) error { return connErr }).
			Add("redis", nil),
	}
	run := func(args ...string) result {
		var out, errOut bytes.Buffer
		app := New(svc, tokens, zerolog.Nop(),
			WithIO(strings.NewReader(""), &out, &errOut),
			WithStorageUnavailable(connErr))
		code := app.Run(context.Background(), args)
		return result{code: code, stdout: out.String(), stderr: errOut.String()}
	}

	r := run("status")
	if r.code != ExitRejected {
		t.Fatalf("status: expected exit %d, got %d (%q)", ExitRejected, r.code, r.stderr)
	}
	for _, want := range []string{"mongodb", "unhealthy", "server selection timeout", "redis", "disabled", "status: degraded"} {
		if !strings.Contains(r.stdout, want) {
			t.Fatalf("status output missing %q: %q", want, r.stdout)
		}
	}

	for _, args := range [][]string{{"whoami"}, {"login", "-username", "admin", "-password", "x"}, {"account", "list"}} {
		r := run(args...)
		if r.code != ExitInternal {
			t.Fatalf("%v: expected exit %d, got %d", args, ExitInternal, r.code)
		}
		if !strings.Contains(r.stderr, "storage is unavailable") {
			t.Fatalf("%v: unexpected stderr %q", args, r.stderr)
		}
	}

	if r := run("logout"); r.code != ExitOK {
		t.Fatalf("logout: expected exit %d, got %d (%q)", ExitOK, r.code, r.stderr)
	}
	if _, err := os.Stat(tokens.Path()); !os.IsNotExist(err) {
		t.Fatalf("expected token file to be removed, stat err %v", err)
	}
}

type stubAuth struct {
	principal domain.Principal
}

func (s stubAuth) Authenticate(context.Context, string, string) (*domain.Session, error) {
	return nil, domain.ErrInvalidCredentials
}

func (s stubAuth) Verify(string) (domain.Principal, error) { return s.principal, nil }

type failingAccounts struct {
	ports.AccountService
	err error
}

func (f failingAccounts) ListAccounts(context.Context, domain.Principal) ([]*domain.Account, error) {
	return nil, f.err
}

func TestInternalErrorsAreHidden(t *testing.T) {
	tokens := NewTokenFile(filepath.Join(t.TempDir(), "token"))
	if err := tokens.Save("opaque"); err != nil {
		t.Fatalf("save: %v", err)
	}
	svc := Services{
		Auth:     stubAuth{principal: domain.Principal{ActorID: "m-1", Role: domain.RoleManagement}},
		Accounts: failingAccounts{err: errors.New("list accounts: connection reset by peer")},
	}

	r := runApp(svc, tokens, "", "account", "list")
	if r.code != ExitInternal {
		t.Fatalf("expected exit %d, got %d", ExitInternal, r.code)
	}
	if strings.Contains(r.stderr, "connection reset") {
		t.Fatalf("internal detail leaked: %q", r.stderr)
	}
}
