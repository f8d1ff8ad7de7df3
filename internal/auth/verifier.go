package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/catalog-service/internal/domain"
)

// IdentityStore is the read side of the user repository the verifier needs.
type IdentityStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Verifier checks login credentials against stored bcrypt hashes.
type Verifier struct {
	store IdentityStore
	// dummyHash is compared on unknown accounts so both failure paths cost one bcrypt run.
	dummyHash string
}

// NewVerifier builds a verifier whose dummy hash uses the same cost as real hashes.
func NewVerifier(store IdentityStore, bcryptCost int) (*Verifier, error) {
	dummy, err := HashPassword("catalog-service/unknown-account", bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Verifier{store: store, dummyHash: dummy}, nil
}

// Verify returns the identity for loginID when secret matches its stored hash.
// Unknown accounts yield ErrIdentityNotFound and mismatches ErrBadCredentials; both wrap
// ErrLoginFailed. Store failures are returned wrapped and unchanged otherwise.
func (v *Verifier) Verify(ctx context.Context, loginID, secret string) (*domain.User, error) {
	user, err := v.store.GetByEmail(ctx, loginID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = ComparePassword(v.dummyHash, secret)
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("lookup identity: %w", err)
	}

	if err := ComparePassword(user.PasswordHash, secret); err != nil {
		if errors.Is(err, ErrBadCredentials) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	return user, nil
}
