package ports

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
)

// AuthService turns credentials into sessions and sessions back into
// principals.
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.Session, error)
	Verify(token string) (domain.Principal, error)
}
