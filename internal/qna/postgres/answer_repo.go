// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/askboard/askboard/internal/auth"
	"github.com/askboard/askboard/internal/qna"
)

// AnswerRepository implements qna.AnswerRepository using PostgreSQL.
type AnswerRepository struct {
	pool poolIface
}

// NewAnswerRepository creates a new AnswerRepository.
func NewAnswerRepository(pool poolIface) *AnswerRepository {
	return &AnswerRepository{pool: pool}
}

// Create stores a new answer owned by the account. A foreign-key
// violation on question_id means the target question does not exist.
func (r *AnswerRepository) Create(ctx context.Context, na qna.NewAnswer, owner auth.AccountID) (*qna.Answer, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO answers (content, question_id, account_id)
		VALUES ($1, $2, $3)
		RETURNING id, content, question_id
	`, na.Content, int64(na.QuestionID), int64(owner))

	var (
		id         int64
		questionID int64
		answer     qna.Answer
	)
	if err := row.Scan(&id, &answer.Content, &questionID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, oops.Code("ANSWER_QUESTION_NOT_FOUND").
				With("question_id", int64(na.QuestionID)).
				Wrap(qna.ErrNotFound)
		}
		return nil, oops.Code("ANSWER_CREATE_FAILED").
			With("operation", "insert answer").
			Wrap(err)
	}
	answer.ID = qna.AnswerID(id)
	answer.QuestionID = qna.QuestionID(questionID)
	return &answer, nil
}
