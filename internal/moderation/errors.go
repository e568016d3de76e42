// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package moderation

import (
	"errors"
	"fmt"
)

// ClientError is a terminal 4xx response from the moderation provider:
// the request itself is at fault (bad payload, bad API key). Never
// retried.
type ClientError struct {
	Status  int
	Message string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("moderation client error: status %d: %s", e.Status, e.Message)
}

// ServerError is a 5xx response from the moderation provider. Treated as
// transient and retried until the budget is exhausted.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("moderation server error: status %d: %s", e.Status, e.Message)
}

// TransportError is a failure that never produced a response: DNS,
// connection refused, timeout. Treated as transient.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("moderation transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransient reports whether a moderation failure belongs to a class
// that is expected to be retried.
func IsTransient(err error) bool {
	var serverErr *ServerError
	var transportErr *TransportError
	return errors.As(err, &serverErr) || errors.As(err, &transportErr)
}
