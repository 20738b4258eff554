// Package services – QuestionService
//
// This file implements QuestionService, which owns the question use-cases:
// listing (optionally paginated), create, full-replace update, and delete.
// Store sentinels are translated into ErrQuestionNotFound so handlers can map
// results to HTTP outcomes via Classify.
//
// Observability: all public methods are OpenTelemetry-instrumented.
package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-qa-backend/internal/domain"
)

// QuestionRepo is the storage contract required by QuestionService.
// *repo.Store satisfies it.
type QuestionRepo interface {
	// ListQuestions returns a detached snapshot in a stable order.
	ListQuestions() []domain.Question
	// CreateQuestion inserts or overwrites by id.
	CreateQuestion(q domain.Question)
	// UpdateQuestion replaces the record at id, or fails with repo.ErrNotFound.
	UpdateQuestion(id domain.QuestionID, q domain.Question) error
	// DeleteQuestion removes the record at id, or fails with repo.ErrNotFound.
	DeleteQuestion(id domain.QuestionID) error
}

// QuestionService provides question lifecycle operations.
type QuestionService struct {
	Repo QuestionRepo
}

// NewQuestionService constructs a QuestionService over r.
func NewQuestionService(r QuestionRepo) *QuestionService {
	return &QuestionService{Repo: r}
}

// List returns every question, or the [start, end) window described by the
// "start"/"end" entries of params. A window that falls outside the list is
// clamped and may be empty; malformed or partial parameters fail with
// *ParseError or *MissingParameterError.
func (s *QuestionService) List(ctx context.Context, params map[string]string) ([]domain.Question, error) {
	_, span := otel.Tracer("services/QuestionService").Start(ctx, "List")
	defer span.End()

	p, err := ExtractPagination(params)
	if err != nil {
		return nil, err
	}

	res := s.Repo.ListQuestions()
	if p == nil {
		span.SetAttributes(attribute.Int("questions.count", len(res)))
		return res, nil
	}

	start, end := p.Bounds(len(res))
	span.SetAttributes(
		attribute.Int("page.start", start),
		attribute.Int("page.end", end),
		attribute.Int("questions.count", end-start),
	)
	return res[start:end], nil
}

// Create stores q, overwriting any question with the same id.
func (s *QuestionService) Create(ctx context.Context, q domain.Question) error {
	_, span := otel.Tracer("services/QuestionService").Start(ctx, "Create",
		trace.WithAttributes(attribute.String("question.id", q.ID.String())),
	)
	defer span.End()

	s.Repo.CreateQuestion(q)
	return nil
}

// Update replaces the question stored under id with q.
// Returns ErrQuestionNotFound when id is absent.
func (s *QuestionService) Update(ctx context.Context, id domain.QuestionID, q domain.Question) error {
	_, span := otel.Tracer("services/QuestionService").Start(ctx, "Update",
		trace.WithAttributes(attribute.String("question.id", id.String())),
	)
	defer span.End()

	return mapStoreErr(s.Repo.UpdateQuestion(id, q))
}

// Delete removes the question stored under id. Its answers are kept.
// Returns ErrQuestionNotFound when id is absent.
func (s *QuestionService) Delete(ctx context.Context, id domain.QuestionID) error {
	_, span := otel.Tracer("services/QuestionService").Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("question.id", id.String())),
	)
	defer span.End()

	return mapStoreErr(s.Repo.DeleteQuestion(id))
}
