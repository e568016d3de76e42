// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package auth

import "errors"

// Sentinel errors for the auth domain. Callers classify failures with
// errors.Is; the HTTP layer maps each class to exactly one status code.
var (
	// ErrNotFound is returned when a requested account does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when registering an email that is
	// already taken.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is returned on login when the email/password
	// combination does not match. It does not reveal which part failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTokenMalformed is returned when a session token cannot be
	// decrypted or authenticated (tampering, wrong key, bad encoding).
	ErrTokenMalformed = errors.New("malformed session token")

	// ErrTokenExpired is returned when a structurally valid session token
	// is past its embedded expiry.
	ErrTokenExpired = errors.New("session token expired")
)
