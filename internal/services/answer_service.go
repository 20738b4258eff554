// Package services – AnswerService
//
// This file implements AnswerService, which attaches answers to questions and
// keeps the idempotency ledger that lets clients retry an attachment safely.
//
// The existence check on the question and the insert of the answer are not
// one atomic step: a question deleted between them still receives the answer.
// Deleting a question never removes its answers.
package services

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-qa-backend/internal/domain"
	"github.com/tbourn/go-qa-backend/internal/repo"
)

// ParamContent is the form parameter carrying the answer text.
const ParamContent = "content"

// AnswerRepo is the storage contract required by AnswerService.
// *repo.Store satisfies it.
type AnswerRepo interface {
	// CreateAnswer mints an answer for qid, or fails with repo.ErrQuestionNotFound.
	CreateAnswer(qid domain.QuestionID, content string) (domain.Answer, error)
}

// AnswerService implements answer attachment.
type AnswerService struct {
	// Repo is the record store.
	Repo AnswerRepo
	// Ledger records completed attachments by Idempotency-Key. When nil,
	// keys are neither recorded nor replayed.
	Ledger *repo.Ledger
	// IdempotencyTTL is how long a recorded key is replayable.
	IdempotencyTTL time.Duration
}

// Add attaches a new answer to qid using the "content" entry of params.
//
// Errors:
//   - *MissingParameterError{Name: "content"} when content is absent;
//   - ErrQuestionNotFound when qid does not exist at check time.
func (s *AnswerService) Add(ctx context.Context, qid domain.QuestionID, params map[string]string) (*domain.Answer, error) {
	_, span := otel.Tracer("services/AnswerService").Start(ctx, "Add",
		trace.WithAttributes(attribute.String("question.id", qid.String())),
	)
	defer span.End()

	content, ok := params[ParamContent]
	if !ok {
		return nil, &MissingParameterError{Name: ParamContent}
	}

	a, err := s.Repo.CreateAnswer(qid, content)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	span.SetAttributes(attribute.String("answer.id", a.ID.String()))
	return &a, nil
}

// Replayed reports whether key was already used for a completed attachment
// to qid within the TTL. Ledger failures are treated as "not replayed".
func (s *AnswerService) Replayed(ctx context.Context, qid domain.QuestionID, key string, now time.Time) bool {
	if s.Ledger == nil || key == "" {
		return false
	}
	rec, err := s.Ledger.Lookup(ctx, qid, key, now)
	return err == nil && rec.Live(now)
}

// Remember records that key produced answerID for qid and drops records whose
// TTL has elapsed. A concurrent request that recorded the same key first wins;
// that is not an error.
func (s *AnswerService) Remember(ctx context.Context, qid domain.QuestionID, key string, answerID domain.AnswerID) error {
	if s.Ledger == nil || key == "" {
		return nil
	}
	ctx, span := otel.Tracer("services/AnswerService").Start(ctx, "Remember",
		trace.WithAttributes(attribute.String("question.id", qid.String())),
	)
	defer span.End()

	now := time.Now().UTC()
	if _, err := s.Ledger.Purge(ctx, now); err != nil {
		return err
	}
	_, err := s.Ledger.Record(ctx, qid, key, answerID, now, s.ttl())
	if err != nil && !errors.Is(err, repo.ErrDuplicate) {
		return err
	}
	return nil
}

func (s *AnswerService) ttl() time.Duration {
	if s.IdempotencyTTL > 0 {
		return s.IdempotencyTTL
	}
	return 24 * time.Hour
}
