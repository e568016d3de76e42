// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"

	"github.com/askboard/askboard/internal/auth"
	"github.com/askboard/askboard/internal/qna"
	"github.com/askboard/askboard/pkg/errutil"
)

// respondError maps service errors onto HTTP statuses. Provider and
// storage failures collapse to a generic 500 so internal diagnostics
// never reach clients.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong email or password"})
	case errors.Is(err, qna.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, auth.ErrDuplicateEmail):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "account already exists"})
	case errors.Is(err, qna.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case isBadRequest(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		errutil.LogError(logger, "request failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// badRequestCodes are validation failures safe to surface verbatim.
var badRequestCodes = map[string]struct{}{
	"AUTH_INVALID_EMAIL":           {},
	"PAGINATION_MISSING_PARAMETER": {},
	"PAGINATION_PARSE_FAILED":      {},
}

func isBadRequest(err error) bool {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	code, ok := oopsErr.Code().(string)
	if !ok {
		return false
	}
	_, found := badRequestCodes[code]
	return found
}
