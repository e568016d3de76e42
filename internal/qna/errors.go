// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package qna

import "errors"

var (
	// ErrNotFound is returned when a requested question or answer does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the authenticated account does not
	// own the target resource. It is deliberately also returned when the
	// resource does not exist, so non-owners cannot probe for existence.
	ErrUnauthorized = errors.New("no permission to change the resource")
)
