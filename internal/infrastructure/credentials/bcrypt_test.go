package credentials

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/infrastructure/db/memory"
)

func TestBcryptStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	creds := NewBcryptStore(store.Actors(), bcrypt.MinCost)

	hash, err := creds.Hash("pass1234")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "pass1234" {
		t.Fatalf("expected password to be hashed")
	}
	if err := store.Actors().Create(ctx, &domain.Actor{ID: "a-1", Username: "alice", PasswordHash: hash}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.Actors().Create(ctx, &domain.Actor{ID: "a-2", Username: "bob"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cases := []struct {
		actorID, password string
		want              bool
	}{
		{"a-1", "pass1234", true},
		{"a-1", "wrong", false},
		{"a-2", "", false},
		{"ghost", "pass1234", false},
	}
	for _, tc := range cases {
		got, err := creds.VerifySecret(ctx, tc.actorID, tc.password)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.actorID, err)
		}
		if got != tc.want {
			t.Fatalf("%s/%q: expected %v, got %v", tc.actorID, tc.password, tc.want, got)
		}
	}
}

func TestBcryptStore_MissStillHashes(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	creds := NewBcryptStore(store.Actors(), 12)
	if err := store.Actors().Create(ctx, &domain.Actor{ID: "a-1", Username: "alice"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	for _, id := range []string{"", "ghost", "a-1"} {
		start := time.Now()
		ok, err := creds.VerifySecret(ctx, id, "pass1234")
		if err != nil || ok {
			t.Fatalf("%q: expected a mismatch, got %v, %v", id, ok, err)
		}
		// Cost 12 takes well over 10ms on any hardware.
		if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
			t.Fatalf("%q: returned in %s without bcrypt work", id, elapsed)
		}
	}
}

func TestNewBcryptStore_ClampsCost(t *testing.T) {
	if s := NewBcryptStore(nil, 0); s.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", s.cost)
	}
	if s := NewBcryptStore(nil, 99); s.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", s.cost)
	}
}
