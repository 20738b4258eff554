// Question HTTP handlers.
//
// This file exposes REST endpoints for question resources:
//   - GET    /questions        (list, optional start/end window)
//   - POST   /questions        (create or overwrite)
//   - PUT    /questions/{id}   (full replace)
//   - DELETE /questions/{id}   (remove; answers are kept)
//
// Handlers are transport-thin: they decode input, call application services,
// and hand every failure to Reject, which maps it to a status by kind.
package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-qa-backend/internal/domain"
	"github.com/tbourn/go-qa-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// QuestionService defines question lifecycle operations consumed by HTTP
// handlers. Implementations must be safe for concurrent use.
type QuestionService interface {
	// List returns all questions, or the window named by start/end in params.
	List(ctx context.Context, params map[string]string) ([]domain.Question, error)
	// Create inserts or overwrites q.
	Create(ctx context.Context, q domain.Question) error
	// Update replaces the question stored under id.
	Update(ctx context.Context, id domain.QuestionID, q domain.Question) error
	// Delete removes the question stored under id.
	Delete(ctx context.Context, id domain.QuestionID) error
}

// AnswerService defines answer attachment consumed by HTTP handlers.
type AnswerService interface {
	// Add attaches an answer built from params["content"] to qid.
	Add(ctx context.Context, qid domain.QuestionID, params map[string]string) (*domain.Answer, error)
	// Remember records an idempotency key for a completed attachment.
	Remember(ctx context.Context, qid domain.QuestionID, key string, answerID domain.AnswerID) error
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for questions and answers.
type Handlers struct {
	qSvc QuestionService
	aSvc AnswerService
}

// New constructs a Handlers instance bound to the given services.
func New(qSvc QuestionService, aSvc AnswerService) *Handlers {
	return &Handlers{qSvc: qSvc, aSvc: aSvc}
}

// Confirmation texts returned on success.
const (
	MsgQuestionAdded   = "Question added"
	MsgQuestionUpdated = "Question updated"
	MsgQuestionRemoved = "Question removed"
	MsgAnswerAdded     = "Answer added"
)

//
// DTOs
//

// QuestionRequest is the JSON payload for creating or replacing a question.
// Every field except Tags must be present; empty strings are accepted.
type QuestionRequest struct {
	ID      *domain.QuestionID `json:"id"             binding:"required" swaggertype:"string" example:"1"`
	Title   *string            `json:"title"          binding:"required" example:"First question"`
	Content *string            `json:"content"        binding:"required" example:"Content of question"`
	Tags    []domain.Tag       `json:"tags,omitempty" swaggertype:"array,string" example:"faq,go"`
}

func (r QuestionRequest) toDomain() domain.Question {
	return domain.Question{ID: *r.ID, Title: *r.Title, Content: *r.Content, Tags: r.Tags}
}

// bindQuestion decodes the request body, reporting any failure as a
// *services.MalformedBodyError.
func bindQuestion(c *gin.Context) (domain.Question, error) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return domain.Question{}, &services.MalformedBodyError{Err: err}
	}
	return req.toDomain(), nil
}

// queryParams flattens the query string to its first value per key.
func queryParams(c *gin.Context) map[string]string {
	q := c.Request.URL.Query()
	out := make(map[string]string, len(q))
	for k, v := range q {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

//
// Handlers
//

// ListQuestions godoc
// @ID          listQuestions
// @Summary     List questions
// @Description Returns every question in insertion order. When both start and end
// @Description are given, only the [start, end) window is returned; the window is
// @Description clamped to the list and may be empty.
// @Tags        Questions
// @Produce     json
//
// @Param       start  query  int  false  "Window start (inclusive)"  minimum(0)
// @Param       end    query  int  false  "Window end (exclusive)"    minimum(0)
//
// @Success     200  {array}   domain.Question
// @Failure     422  {object}  handlers.ErrorResponse  "Missing or unparsable start/end"
// @Router      /questions [get]
func (h *Handlers) ListQuestions(c *gin.Context) {
	res, err := h.qSvc.List(c.Request.Context(), queryParams(c))
	if err != nil {
		Reject(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CreateQuestion godoc
// @ID          createQuestion
// @Summary     Create a question
// @Description Stores the question under its id, overwriting any existing one.
// @Tags        Questions
// @Accept      json
// @Produce     plain
//
// @Param       body  body  handlers.QuestionRequest  true  "Question payload"
//
// @Success     200  {string}  string                  "Question added"
// @Failure     422  {object}  handlers.ErrorResponse  "Malformed body"
// @Router      /questions [post]
func (h *Handlers) CreateQuestion(c *gin.Context) {
	q, err := bindQuestion(c)
	if err != nil {
		Reject(c, err)
		return
	}
	if err := h.qSvc.Create(c.Request.Context(), q); err != nil {
		Reject(c, err)
		return
	}
	confirm(c, MsgQuestionAdded)
}

// UpdateQuestion godoc
// @ID          updateQuestion
// @Summary     Replace a question
// @Description Replaces the question stored under id. The body id must equal the path id.
// @Tags        Questions
// @Accept      json
// @Produce     plain
//
// @Param       id    path  string                    true  "Question ID"
// @Param       body  body  handlers.QuestionRequest  true  "Question payload"
//
// @Success     200  {string}  string                  "Question updated"
// @Failure     416  {object}  handlers.ErrorResponse  "Question not found"
// @Failure     422  {object}  handlers.ErrorResponse  "Malformed body"
// @Router      /questions/{id} [put]
func (h *Handlers) UpdateQuestion(c *gin.Context) {
	id, err := domain.ParseQuestionID(c.Param("id"))
	if err != nil {
		Reject(c, services.ErrRouteNotFound)
		return
	}
	q, err := bindQuestion(c)
	if err != nil {
		Reject(c, err)
		return
	}
	if q.ID != id {
		Reject(c, &services.MalformedBodyError{
			Err: fmt.Errorf("body id %q does not match path id %q", q.ID, id),
		})
		return
	}
	if err := h.qSvc.Update(c.Request.Context(), id, q); err != nil {
		Reject(c, err)
		return
	}
	confirm(c, MsgQuestionUpdated)
}

// DeleteQuestion godoc
// @ID          deleteQuestion
// @Summary     Delete a question
// @Description Removes the question stored under id. Answers attached to it are kept.
// @Tags        Questions
// @Produce     plain
//
// @Param       id  path  string  true  "Question ID"
//
// @Success     200  {string}  string                  "Question removed"
// @Failure     416  {object}  handlers.ErrorResponse  "Question not found"
// @Router      /questions/{id} [delete]
func (h *Handlers) DeleteQuestion(c *gin.Context) {
	id, err := domain.ParseQuestionID(c.Param("id"))
	if err != nil {
		Reject(c, services.ErrRouteNotFound)
		return
	}
	if err := h.qSvc.Delete(c.Request.Context(), id); err != nil {
		Reject(c, err)
		return
	}
	confirm(c, MsgQuestionRemoved)
}
