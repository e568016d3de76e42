// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package auth

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/samber/oops"
	"golang.org/x/crypto/chacha20poly1305"
)

// Token format constants.
const (
	// TokenKeyLen is the required symmetric key length in bytes.
	TokenKeyLen = chacha20poly1305.KeySize

	// DefaultTokenTTL is the default session token lifetime.
	DefaultTokenTTL = 24 * time.Hour

	tokenPrefix = "v1.local."
)

// Session is the authenticated identity context for one request, derived
// from a verified token. It is request-scoped and never stored.
type Session struct {
	AccountID AccountID `json:"account_id"`
}

// tokenClaims is the encrypted token payload.
type tokenClaims struct {
	AccountID AccountID `json:"account_id"`
	ExpiresAt int64     `json:"expires_at"` // unix seconds
}

// TokenCodec issues and verifies encrypted, self-contained session tokens.
// The token carries {account_id, expires_at} sealed with XChaCha20-Poly1305
// under a process-wide key, so verification needs no server-side state and
// any modification of the token causes authentication to fail.
//
// The codec holds no mutable state and is safe for concurrent use.
type TokenCodec struct {
	aead cipher.AEAD
}

// NewTokenCodec creates a TokenCodec from a 32-byte symmetric key.
func NewTokenCodec(key []byte) (*TokenCodec, error) {
	if len(key) != TokenKeyLen {
		return nil, oops.Code("TOKEN_KEY_INVALID").
			With("expected_bytes", TokenKeyLen).
			With("got_bytes", len(key)).
			Errorf("token key must be exactly %d bytes", TokenKeyLen)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, oops.Code("TOKEN_KEY_INVALID").Wrap(err)
	}
	return &TokenCodec{aead: aead}, nil
}

// Issue encrypts {accountID, now+ttl} into an opaque token string.
func (c *TokenCodec) Issue(accountID AccountID, now time.Time, ttl time.Duration) (string, error) {
	if accountID <= 0 {
		return "", oops.Code("TOKEN_ISSUE_FAILED").Errorf("account id must be positive, got %d", accountID)
	}
	if ttl <= 0 {
		return "", oops.Code("TOKEN_ISSUE_FAILED").Errorf("ttl must be positive, got %s", ttl)
	}

	plaintext, err := json.Marshal(tokenClaims{
		AccountID: accountID,
		ExpiresAt: now.Add(ttl).Unix(),
	})
	if err != nil {
		return "", oops.Code("TOKEN_ISSUE_FAILED").With("operation", "marshal claims").Wrap(err)
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", oops.Code("TOKEN_ISSUE_FAILED").With("operation", "generate nonce").Wrap(err)
	}

	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return tokenPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Verify decrypts and authenticates a token at the given wall-clock time.
// Structural or AEAD failures yield ErrTokenMalformed; a valid token past
// its embedded expiry yields ErrTokenExpired. Clock skew is not
// compensated.
func (c *TokenCodec) Verify(token string, now time.Time) (Session, error) {
	encoded, ok := strings.CutPrefix(token, tokenPrefix)
	if !ok {
		return Session{}, oops.Code("TOKEN_MALFORMED").
			With("reason", "missing version prefix").
			Wrap(ErrTokenMalformed)
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Session{}, oops.Code("TOKEN_MALFORMED").
			With("reason", "invalid base64").
			Wrap(ErrTokenMalformed)
	}

	nonceSize := c.aead.NonceSize()
	if len(raw) <= nonceSize {
		return Session{}, oops.Code("TOKEN_MALFORMED").
			With("reason", "truncated").
			Wrap(ErrTokenMalformed)
	}

	plaintext, err := c.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		// Tampering, wrong key, or corruption are indistinguishable here.
		return Session{}, oops.Code("TOKEN_MALFORMED").
			With("reason", "authentication failed").
			Wrap(ErrTokenMalformed)
	}

	var claims tokenClaims
	if err := json.Unmarshal(plaintext, &claims); err != nil {
		return Session{}, oops.Code("TOKEN_MALFORMED").
			With("reason", "invalid claims").
			Wrap(ErrTokenMalformed)
	}

	if claims.ExpiresAt <= now.Unix() {
		return Session{}, oops.Code("TOKEN_EXPIRED").Wrap(ErrTokenExpired)
	}

	return Session{AccountID: claims.AccountID}, nil
}
