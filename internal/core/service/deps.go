package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/metrics"
)

// Deps bundles the collaborators shared by the record services.
type Deps struct {
	Actors     ports.ActorRepository
	Accounts   ports.AccountRepository
	Contracts  ports.ContractRepository
	Events     ports.EventRepository
	Authorizer *Authorizer
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

func newID() string { return uuid.NewString() }

// rejected records a refused change and passes err through.
func rejected(log zerolog.Logger, kind domain.ResourceKind, err error) error {
	code := domain.Code(err)
	metrics.LifecycleRejectionsTotal.WithLabelValues(string(kind), code).Inc()
	log.Info().Str("kind", string(kind)).Str("reason", code).Err(err).Msg("change rejected")
	return err
}

// loadFailed passes missing records and refusals through and logs anything
// else as a storage failure.
func loadFailed(log zerolog.Logger, op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrPermissionDenied) {
		return err
	}
	log.Error().Err(err).Str("op", op).Msg("failed to load record")
	return fmt.Errorf("%s: %w", op, err)
}

func saveFailed(log zerolog.Logger, op string, err error) error {
	log.Error().Err(err).Str("op", op).Msg("failed to save record")
	return fmt.Errorf("%s: %w", op, err)
}

func mutated(kind domain.ResourceKind, op string) {
	metrics.RecordMutationsTotal.WithLabelValues(string(kind), op).Inc()
}
