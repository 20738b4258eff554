package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-qa-backend/internal/http/middleware"
	"github.com/tbourn/go-qa-backend/internal/services"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Code      string `json:"code" example:"question_not_found"`
	Message   string `json:"message" example:"Question not found"`
}

// Reject classifies err, writes the matching ErrorResponse and aborts the
// chain. Errors of no known kind are answered as an unmatched route; their
// cause only reaches the log.
func Reject(c *gin.Context, err error) {
	kind := services.Classify(err)
	status, code := StatusFor(kind)

	msg := services.Message(err)
	if kind == services.KindUnknown {
		if err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("unclassified rejection")
		}
		msg = services.ErrRouteNotFound.Error()
	}
	abortWith(c, status, code, msg)
}

func abortWith(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().Int("status", status).Str("code", code).Msg(msg)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// confirm answers a successful mutation with its plain-text message.
func confirm(c *gin.Context, text string) {
	c.String(http.StatusOK, text)
}
