// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package qna

import (
	"context"

	"github.com/askboard/askboard/internal/auth"
)

// AnswerID identifies an answer, assigned by the store.
type AnswerID int64

// Answer is the canonical stored representation of an answer.
type Answer struct {
	ID         AnswerID   `json:"id"`
	Content    string     `json:"content"`
	QuestionID QuestionID `json:"question_id"`
}

// NewAnswer is the payload for answering a question. Content passes
// through moderation before persistence.
type NewAnswer struct {
	Content    string     `json:"content"`
	QuestionID QuestionID `json:"question_id"`
}

// AnswerRepository manages answer persistence.
type AnswerRepository interface {
	// Create stores a new answer owned by the account and returns the
	// stored row with its assigned ID. Returns ErrNotFound if the target
	// question does not exist.
	Create(ctx context.Context, a NewAnswer, owner auth.AccountID) (*Answer, error)
}
