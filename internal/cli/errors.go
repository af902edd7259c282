package cli

import (
	"errors"
	"fmt"

	"github.com/epicevents/crm/internal/core/domain"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitRejected = 1
	ExitUsage    = 2
	ExitAuth     = 3
	ExitInternal = 4
)

var (
	errNoSession = errors.New("not logged in, run `crm login` first")
	errDegraded  = errors.New("one or more dependencies are unhealthy")
)

// storageError wraps the startup failure that left storage unreachable.
type storageError struct {
	cause error
}

func (e *storageError) Error() string { return "storage unavailable: " + e.cause.Error() }

func (e *storageError) Unwrap() error { return e.cause }

// usageError reports malformed arguments.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func asUsage(err error) (*usageError, bool) {
	var u *usageError
	ok := errors.As(err, &u)
	return u, ok
}

// resolve maps err to an exit code and the message shown to the user.
// Errors outside the domain taxonomy are logged with their cause and shown
// as a generic message.
func (a *App) resolve(command string, err error) (int, string) {
	if err == nil {
		return ExitOK, ""
	}
	if errors.Is(err, errHelp) {
		return ExitOK, ""
	}
	if u, ok := asUsage(err); ok {
		return ExitUsage, u.msg
	}
	var storageErr *storageError
	if errors.As(err, &storageErr) {
		return ExitInternal, "storage is unavailable, run `crm status` for details"
	}

	switch {
	case errors.Is(err, errNoSession):
		return ExitAuth, err.Error()
	case errors.Is(err, domain.ErrTokenExpired):
		return ExitAuth, "session expired, run `crm login` again"
	case errors.Is(err, domain.ErrTokenTampered), errors.Is(err, domain.ErrTokenMalformed):
		return ExitAuth, "session token is invalid, run `crm login` again"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return ExitAuth, "invalid username or password"
	case errors.Is(err, domain.ErrAccountLocked):
		return ExitAuth, err.Error()
	case errors.Is(err, errDegraded):
		return ExitRejected, err.Error()
	}

	if domain.Code(err) != "internal" {
		return ExitRejected, err.Error()
	}

	a.log.Error().
		Err(err).
		Str("command", command).
		Msg("unhandled error")
	return ExitInternal, "internal error, see logs for details"
}

// outcome labels the command duration metric.
func outcome(err error) string {
	switch {
	case err == nil, errors.Is(err, errHelp):
		return "ok"
	case errors.Is(err, errNoSession):
		return "no_session"
	case errors.Is(err, errDegraded):
		return "degraded"
	}
	if _, ok := asUsage(err); ok {
		return "usage"
	}
	var storageErr *storageError
	if errors.As(err, &storageErr) {
		return "storage_unavailable"
	}
	return domain.Code(err)
}
