// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

// Package postgres implements qna repositories using PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/askboard/askboard/internal/auth"
	"github.com/askboard/askboard/internal/qna"
)

// poolIface is the subset of pgxpool.Pool the repositories need. It is an
// interface so pgxmock can stand in during unit tests.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QuestionRepository implements qna.QuestionRepository using PostgreSQL.
type QuestionRepository struct {
	pool poolIface
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool poolIface) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// List returns questions ordered by id. A nil limit means no limit;
// LIMIT NULL is valid PostgreSQL and returns all rows.
func (r *QuestionRepository) List(ctx context.Context, p qna.Pagination) ([]qna.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, content, tags
		FROM questions
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, p.Limit, p.Offset)
	if err != nil {
		return nil, oops.Code("QUESTION_LIST_FAILED").
			With("operation", "query questions").
			Wrap(err)
	}
	defer rows.Close()

	questions := []qna.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, oops.Code("QUESTION_LIST_FAILED").
				With("operation", "scan question row").
				Wrap(err)
		}
		questions = append(questions, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("QUESTION_LIST_FAILED").
			With("operation", "iterate questions").
			Wrap(err)
	}
	return questions, nil
}

// Create stores a new question owned by the account.
func (r *QuestionRepository) Create(ctx context.Context, nq qna.NewQuestion, owner auth.AccountID) (*qna.Question, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO questions (title, content, tags, account_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, content, tags
	`, nq.Title, nq.Content, nq.Tags, int64(owner))

	q, err := scanQuestion(row)
	if err != nil {
		return nil, oops.Code("QUESTION_CREATE_FAILED").
			With("operation", "insert question").
			Wrap(err)
	}
	return q, nil
}

// Update modifies an owned question. The owner predicate is part of the
// statement, so a non-owned row is simply not matched.
func (r *QuestionRepository) Update(ctx context.Context, id qna.QuestionID, nq qna.NewQuestion, owner auth.AccountID) (*qna.Question, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE questions
		SET title = $1, content = $2, tags = $3
		WHERE id = $4 AND account_id = $5
		RETURNING id, title, content, tags
	`, nq.Title, nq.Content, nq.Tags, int64(id), int64(owner))

	q, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("QUESTION_NOT_FOUND").
			With("id", int64(id)).
			Wrap(qna.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("QUESTION_UPDATE_FAILED").
			With("operation", "update question").
			With("id", int64(id)).
			Wrap(err)
	}
	return q, nil
}

// Delete removes an owned question.
func (r *QuestionRepository) Delete(ctx context.Context, id qna.QuestionID, owner auth.AccountID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM questions WHERE id = $1 AND account_id = $2
	`, int64(id), int64(owner))
	if err != nil {
		return oops.Code("QUESTION_DELETE_FAILED").
			With("operation", "delete question").
			With("id", int64(id)).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("QUESTION_NOT_FOUND").
			With("id", int64(id)).
			Wrap(qna.ErrNotFound)
	}
	return nil
}

// ExistsWithOwner reports whether the question exists and belongs to the
// account.
func (r *QuestionRepository) ExistsWithOwner(ctx context.Context, id qna.QuestionID, owner auth.AccountID) (bool, error) {
	var one int
	err := r.pool.QueryRow(ctx, `
		SELECT 1 FROM questions WHERE id = $1 AND account_id = $2
	`, int64(id), int64(owner)).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, oops.Code("QUESTION_OWNER_CHECK_FAILED").
			With("operation", "check question owner").
			With("id", int64(id)).
			Wrap(err)
	}
	return true, nil
}

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*qna.Question, error) {
	var (
		id int64
		q  qna.Question
	)
	if err := row.Scan(&id, &q.Title, &q.Content, &q.Tags); err != nil {
		return nil, err
	}
	q.ID = qna.QuestionID(id)
	return &q, nil
}
