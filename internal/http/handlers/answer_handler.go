// Answer HTTP handlers.
//
// This file exposes the answer attachment endpoint:
//   - POST /questions/{id}/answers   (form-encoded, field "content")
//
// Idempotency:
// If the client supplies an Idempotency-Key header that was already used for
// a completed attachment to the same question, the request is acknowledged
// without creating a second answer and the response carries
// `Idempotency-Replayed: true`.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-qa-backend/internal/domain"
	"github.com/tbourn/go-qa-backend/internal/http/middleware"
	"github.com/tbourn/go-qa-backend/internal/services"
)

// HeaderIdempotencyReplayed marks a response served from the idempotency ledger.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

// formParams flattens the urlencoded request body to its first value per key.
// A body that cannot be parsed yields no parameters.
func formParams(c *gin.Context) map[string]string {
	out := map[string]string{}
	if err := c.Request.ParseForm(); err != nil {
		middleware.LoggerFrom(c).Debug().Err(err).Msg("form parse failed")
		return out
	}
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// AddAnswer godoc
// @ID          addAnswer
// @Summary     Attach an answer to a question
// @Description Creates an answer with the given content for the question.
// @Description Supports idempotency via the Idempotency-Key header (same key → no second answer).
// @Tags        Answers
// @Accept      x-www-form-urlencoded
// @Produce     plain
//
// @Param       Idempotency-Key  header    string  false  "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       id               path      string  true   "Question ID"
// @Param       content          formData  string  true   "Answer text"
//
// @Success     200  {string}  string                  "Answer added"
// @Failure     416  {object}  handlers.ErrorResponse  "Question not found"
// @Failure     422  {object}  handlers.ErrorResponse  "Missing content"
// @Router      /questions/{id}/answers [post]
func (h *Handlers) AddAnswer(c *gin.Context) {
	ctx := c.Request.Context()

	qid, err := domain.ParseQuestionID(c.Param("id"))
	if err != nil {
		Reject(c, services.ErrRouteNotFound)
		return
	}

	if middleware.IsReplay(c) {
		c.Header(HeaderIdempotencyReplayed, "true")
		confirm(c, MsgAnswerAdded)
		return
	}

	a, err := h.aSvc.Add(ctx, qid, formParams(c))
	if err != nil {
		Reject(c, err)
		return
	}
	middleware.ObserveAnswerAdded()

	// best effort: a ledger failure only costs the client its replay
	if key, has := middleware.GetIdempotencyKey(c); has {
		if err := h.aSvc.Remember(ctx, qid, key, a.ID); err != nil {
			middleware.LoggerFrom(c).Warn().
				Err(err).
				Str("question_id", qid.String()).
				Msg("idempotency record failed")
		}
	}

	confirm(c, MsgAnswerAdded)
}
