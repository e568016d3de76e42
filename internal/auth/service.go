// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
)

// Service provides registration and login.
type Service struct {
	accounts AccountRepository
	hasher   PasswordHasher
	codec    *TokenCodec
	tokenTTL time.Duration
	now      func() time.Time
}

// NewService creates a new Service. A zero tokenTTL selects
// DefaultTokenTTL.
func NewService(accounts AccountRepository, hasher PasswordHasher, codec *TokenCodec, tokenTTL time.Duration) (*Service, error) {
	if accounts == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("accounts repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("password hasher is required")
	}
	if codec == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("token codec is required")
	}
	if tokenTTL == 0 {
		tokenTTL = DefaultTokenTTL
	}
	if tokenTTL < 0 {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("token ttl must be positive, got %s", tokenTTL)
	}
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		codec:    codec,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}, nil
}

// dummyPasswordHash is used when an account doesn't exist to prevent timing
// attacks. We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register creates an account from an email and a plaintext password.
// The password is hashed before the storage layer ever sees it.
func (s *Service) Register(ctx context.Context, email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	account := &Account{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return oops.Code("AUTH_DUPLICATE_EMAIL").Wrap(err)
		}
		return oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "insert account").
			Wrap(err)
	}
	return nil
}

// Login verifies credentials and, on success, issues a session token for
// the account. Missing account and wrong password both yield
// ErrInvalidCredentials, with constant-time verification in both cases.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	account, lookupErr := s.accounts.GetByEmail(ctx, email)

	// Determine which hash to verify against (real or dummy for timing
	// attack prevention).
	targetHash := dummyPasswordHash
	accountExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get account by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = account.PasswordHash
		accountExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		// For dummy hash verification errors, just treat as invalid.
		if !accountExists {
			return "", oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
		}
		return "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !accountExists || !valid {
		return "", oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	token, err := s.codec.Issue(account.ID, s.now(), s.tokenTTL)
	if err != nil {
		return "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue session token").
			Wrap(err)
	}
	return token, nil
}
