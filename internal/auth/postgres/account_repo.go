// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

// Package postgres implements auth repositories using PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/askboard/askboard/internal/auth"
)

// poolIface is the subset of pgxpool.Pool the repository needs. It is an
// interface so pgxmock can stand in during unit tests.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AccountRepository implements auth.AccountRepository using PostgreSQL.
type AccountRepository struct {
	pool poolIface
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool poolIface) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create stores a new account and assigns its ID from the sequence.
func (r *AccountRepository) Create(ctx context.Context, account *auth.Account) error {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (email, password_hash, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, account.Email, account.PasswordHash, account.CreatedAt).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("ACCOUNT_DUPLICATE_EMAIL").
				With("email", account.Email).
				Wrap(auth.ErrDuplicateEmail)
		}
		return oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "insert account").
			Wrap(err)
	}
	account.ID = auth.AccountID(id)
	return nil
}

// GetByEmail retrieves an account by email (case-insensitive).
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*auth.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at
		FROM accounts
		WHERE LOWER(email) = LOWER($1)
	`, email)

	var (
		id      int64
		account auth.Account
	)
	err := row.Scan(&id, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_BY_EMAIL_FAILED").
			With("operation", "get account by email").
			Wrap(err)
	}
	account.ID = auth.AccountID(id)
	return &account, nil
}
