// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

// Package auth provides authentication primitives for Askboard.
//
// # Components
//
//   - Argon2idHasher - one-way salted password hashing and verification
//   - TokenCodec - encrypted, self-contained session tokens carrying an
//     account identity claim and expiry
//   - Service - registration and login, composing the hasher, the codec,
//     and the account repository
//
// Tokens are local (symmetric-key) and self-expiring: verification is
// CPU-only and requires no store access, so the HTTP layer can reject
// invalid requests before any database touch. There is no server-side
// revocation list; rotating the key invalidates all outstanding tokens.
package auth
