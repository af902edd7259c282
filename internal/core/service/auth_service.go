package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/core/session"
	"github.com/epicevents/crm/internal/metrics"
)

// AuthService implements login and session verification.
type AuthService struct {
	actors ports.ActorRepository
	creds  ports.CredentialStore
	guard  ports.LoginGuard
	issuer *session.Issuer
	now    func() time.Time
	log    zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService wires the login flow. guard may be nil to disable lockout.
func NewAuthService(actors ports.ActorRepository, creds ports.CredentialStore, guard ports.LoginGuard, issuer *session.Issuer, log zerolog.Logger) *AuthService {
	return &AuthService{
		actors: actors,
		creds:  creds,
		guard:  guard,
		issuer: issuer,
		now:    time.Now,
		log:    log,
	}
}

// Authenticate checks the credentials and issues a session. Unknown usernames
// and wrong passwords both fail with domain.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.guard != nil {
		locked, err := s.guard.Locked(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("lockout check failed, continuing")
		} else if locked {
			metrics.LoginAttemptsTotal.WithLabelValues("locked").Inc()
			return nil, domain.ErrAccountLocked
		}
	}

	actor, err := s.actors.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Unknown usernames cost the same digest work as a wrong password.
			if _, verr := s.creds.VerifySecret(ctx, "", password); verr != nil {
				s.log.Warn().Err(verr).Msg("dummy secret check failed")
			}
			return nil, s.failed(ctx, username)
		}
		s.log.Error().Err(err).Str("username", username).Msg("failed to load actor")
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	ok, err := s.creds.VerifySecret(ctx, actor.ID, password)
	if err != nil {
		s.log.Error().Err(err).Str("actor_id", actor.ID).Msg("failed to verify secret")
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !ok {
		return nil, s.failed(ctx, username)
	}

	if s.guard != nil {
		if err := s.guard.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login failures")
		}
	}

	sess, err := s.issuer.Issue(actor.ID, actor.Role, s.now())
	if err != nil {
		return nil, fmt.Errorf("authenticate: issue session: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("actor_id", actor.ID).Str("role", string(actor.Role)).Msg("session issued")
	return sess, nil
}

// Verify checks a token against the current time.
func (s *AuthService) Verify(token string) (domain.Principal, error) {
	return s.issuer.Verify(token, s.now())
}

func (s *AuthService) failed(ctx context.Context, username string) error {
	metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
	if s.guard == nil {
		return domain.ErrInvalidCredentials
	}
	locked, err := s.guard.RecordFailure(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	} else if locked {
		s.log.Warn().Str("username", username).Msg("login locked after repeated failures")
	}
	return domain.ErrInvalidCredentials
}
