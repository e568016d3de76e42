// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package qna

import (
	"context"

	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"

	"github.com/askboard/askboard/internal/auth"
)

// Moderator sends free text to the content-moderation service and returns
// the censored version.
type Moderator interface {
	Censor(ctx context.Context, text string) (string, error)
}

// Service orchestrates question/answer writes: ownership check for
// mutations, moderation of submitted text, then persistence. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	questions QuestionRepository
	answers   AnswerRepository
	moderator Moderator
}

// NewService creates a new Service.
func NewService(questions QuestionRepository, answers AnswerRepository, moderator Moderator) (*Service, error) {
	if questions == nil {
		return nil, oops.Code("QNA_SERVICE_INVALID").Errorf("questions repository is required")
	}
	if answers == nil {
		return nil, oops.Code("QNA_SERVICE_INVALID").Errorf("answers repository is required")
	}
	if moderator == nil {
		return nil, oops.Code("QNA_SERVICE_INVALID").Errorf("moderator is required")
	}
	return &Service{questions: questions, answers: answers, moderator: moderator}, nil
}

// ListQuestions returns stored questions. No authentication required.
func (s *Service) ListQuestions(ctx context.Context, p Pagination) ([]Question, error) {
	questions, err := s.questions.List(ctx, p)
	if err != nil {
		return nil, oops.Code("QNA_LIST_FAILED").Wrap(err)
	}
	return questions, nil
}

// CreateQuestion moderates title and content, then persists the question
// owned by the session's account. The two moderation calls run
// concurrently; if either fails the other result is discarded and the
// question is not persisted.
func (s *Service) CreateQuestion(ctx context.Context, session auth.Session, nq NewQuestion) (*Question, error) {
	title, content, err := s.moderatePair(ctx, nq.Title, nq.Content)
	if err != nil {
		return nil, err
	}
	nq.Title = title
	nq.Content = content

	question, err := s.questions.Create(ctx, nq, session.AccountID)
	if err != nil {
		return nil, oops.Code("QNA_CREATE_FAILED").Wrap(err)
	}
	return question, nil
}

// UpdateQuestion checks ownership, moderates the replacement text, and
// persists it. The ownership check runs strictly before moderation so an
// unauthorized caller never triggers a moderation call.
func (s *Service) UpdateQuestion(ctx context.Context, session auth.Session, id QuestionID, nq NewQuestion) (*Question, error) {
	if err := s.authorizeOwner(ctx, id, session.AccountID); err != nil {
		return nil, err
	}

	title, content, err := s.moderatePair(ctx, nq.Title, nq.Content)
	if err != nil {
		return nil, err
	}
	nq.Title = title
	nq.Content = content

	question, err := s.questions.Update(ctx, id, nq, session.AccountID)
	if err != nil {
		return nil, oops.Code("QNA_UPDATE_FAILED").Wrap(err)
	}
	return question, nil
}

// DeleteQuestion checks ownership and removes the question.
func (s *Service) DeleteQuestion(ctx context.Context, session auth.Session, id QuestionID) error {
	if err := s.authorizeOwner(ctx, id, session.AccountID); err != nil {
		return err
	}
	if err := s.questions.Delete(ctx, id, session.AccountID); err != nil {
		return oops.Code("QNA_DELETE_FAILED").Wrap(err)
	}
	return nil
}

// CreateAnswer moderates the answer content and persists it owned by the
// session's account. No ownership check applies to creation; the account
// becomes the owner of the new answer.
func (s *Service) CreateAnswer(ctx context.Context, session auth.Session, na NewAnswer) (*Answer, error) {
	content, err := s.moderator.Censor(ctx, na.Content)
	if err != nil {
		return nil, oops.Code("QNA_MODERATION_FAILED").Wrap(err)
	}
	na.Content = content

	answer, err := s.answers.Create(ctx, na, session.AccountID)
	if err != nil {
		return nil, oops.Code("QNA_ANSWER_CREATE_FAILED").Wrap(err)
	}
	return answer, nil
}

// authorizeOwner fails with ErrUnauthorized when the question is missing
// or owned by someone else; the two cases are indistinguishable to the
// caller.
func (s *Service) authorizeOwner(ctx context.Context, id QuestionID, owner auth.AccountID) error {
	owned, err := s.questions.ExistsWithOwner(ctx, id, owner)
	if err != nil {
		return oops.Code("QNA_OWNERSHIP_CHECK_FAILED").
			With("question_id", int64(id)).
			Wrap(err)
	}
	if !owned {
		return oops.Code("QNA_UNAUTHORIZED").Wrap(ErrUnauthorized)
	}
	return nil
}

// moderatePair runs moderation for title and content as two concurrent
// calls, failing fast on the first error. ctx cancellation propagates to
// the surviving call.
func (s *Service) moderatePair(ctx context.Context, title, content string) (string, string, error) {
	g, ctx := errgroup.WithContext(ctx)

	var censoredTitle, censoredContent string
	g.Go(func() error {
		t, err := s.moderator.Censor(ctx, title)
		if err != nil {
			return err
		}
		censoredTitle = t
		return nil
	})
	g.Go(func() error {
		c, err := s.moderator.Censor(ctx, content)
		if err != nil {
			return err
		}
		censoredContent = c
		return nil
	})

	if err := g.Wait(); err != nil {
		return "", "", oops.Code("QNA_MODERATION_FAILED").Wrap(err)
	}
	return censoredTitle, censoredContent, nil
}
