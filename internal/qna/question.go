// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package qna

import (
	"context"

	"github.com/askboard/askboard/internal/auth"
)

// QuestionID identifies a question, assigned by the store.
type QuestionID int64

// Question is the canonical stored representation of a question.
type Question struct {
	ID      QuestionID `json:"id"`
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Tags    []string   `json:"tags,omitempty"`
}

// NewQuestion is the payload for creating a question. Title and content
// pass through moderation before persistence.
type NewQuestion struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// QuestionRepository manages question persistence.
type QuestionRepository interface {
	// List returns questions ordered by id, honoring pagination.
	List(ctx context.Context, p Pagination) ([]Question, error)

	// Create stores a new question owned by the account and returns the
	// stored row with its assigned ID.
	Create(ctx context.Context, q NewQuestion, owner auth.AccountID) (*Question, error)

	// Update modifies a question owned by the account and returns the
	// stored row. Returns ErrNotFound if no matching owned row exists.
	Update(ctx context.Context, id QuestionID, q NewQuestion, owner auth.AccountID) (*Question, error)

	// Delete removes a question owned by the account. Returns ErrNotFound
	// if no matching owned row exists.
	Delete(ctx context.Context, id QuestionID, owner auth.AccountID) error

	// ExistsWithOwner reports whether the question exists AND belongs to
	// the account. A missing question and a foreign-owned question are
	// both false.
	ExistsWithOwner(ctx context.Context, id QuestionID, owner auth.AccountID) (bool, error)
}
