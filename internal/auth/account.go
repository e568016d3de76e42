// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package auth

import (
	"context"
	"regexp"
	"time"

	"github.com/samber/oops"
)

// emailRegex is a pragmatic check, not full RFC 5322: one @, no spaces,
// at least one dot in the domain.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AccountID identifies an account. It is assigned by the store and
// immutable once set.
type AccountID int64

// Account represents a stored account. PasswordHash holds the encoded
// argon2id hash; the plaintext password is never persisted or logged.
type Account struct {
	ID           AccountID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// ValidateEmail validates an email address for registration.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email address is not valid")
	}
	return nil
}

// AccountRepository manages account persistence.
type AccountRepository interface {
	// Create stores a new account and assigns its ID.
	// Returns ErrDuplicateEmail if the email is already taken.
	Create(ctx context.Context, account *Account) error

	// GetByEmail retrieves an account by email (case-insensitive).
	// Returns ErrNotFound if no account has the given email.
	GetByEmail(ctx context.Context, email string) (*Account, error)
}
