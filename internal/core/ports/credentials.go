package ports

import "context"

// CredentialStore owns password digests. Callers never see the digest
// algorithm.
type CredentialStore interface {
	Hash(plaintext string) (string, error)
	VerifySecret(ctx context.Context, actorID, plaintext string) (bool, error)
}

// LoginGuard throttles repeated failed logins per username.
type LoginGuard interface {
	Locked(ctx context.Context, username string) (bool, error)
	// RecordFailure counts a failed attempt and reports whether the username
	// is now locked.
	RecordFailure(ctx context.Context, username string) (bool, error)
	Reset(ctx context.Context, username string) error
}
