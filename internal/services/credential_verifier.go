package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier decides whether a submitted credential matches
// expectation. The decision engine only depends on this capability; a real
// deployment would back it with an account store.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}

// BcryptVerifier compares submissions against a single configured bcrypt
// hash. This is the demo stand-in for a credential store.
type BcryptVerifier struct {
	hash []byte
}

func NewBcryptVerifier(hash string) (*BcryptVerifier, error) {
	// Reject malformed hashes at startup rather than on first login.
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid credential hash: %w", err)
	}
	return &BcryptVerifier{hash: []byte(hash)}, nil
}

func (v *BcryptVerifier) Verify(_ context.Context, _, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(v.hash, []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("credential comparison failed: %w", err)
}
