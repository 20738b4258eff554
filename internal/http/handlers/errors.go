// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes the symbolic error codes returned in the `code` field
// of ErrorResponse and the table that maps a services.Kind to its HTTP status.
// Clients are expected to branch on these codes; the `message` field carries
// the error's own description.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "question_not_found",
//	  "message": "Question not found"
//	}
package handlers

import (
	"net/http"

	"github.com/tbourn/go-qa-backend/internal/services"
)

const (
	ErrCodeInvalidParameter = "invalid_parameter"
	ErrCodeMissingParameter = "missing_parameter"
	ErrCodeQuestionNotFound = "question_not_found"
	ErrCodeMalformedBody    = "malformed_body"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
)

// StatusFor returns the HTTP status and error code for a failure kind.
// Anything unclassified falls back to 404.
func StatusFor(k services.Kind) (int, string) {
	switch k {
	case services.KindParse:
		return http.StatusUnprocessableEntity, ErrCodeInvalidParameter
	case services.KindMissingParameter:
		return http.StatusUnprocessableEntity, ErrCodeMissingParameter
	case services.KindQuestionNotFound:
		return http.StatusRequestedRangeNotSatisfiable, ErrCodeQuestionNotFound
	case services.KindMalformedBody:
		return http.StatusUnprocessableEntity, ErrCodeMalformedBody
	case services.KindCORSForbidden:
		return http.StatusForbidden, ErrCodeForbidden
	default:
		return http.StatusNotFound, ErrCodeNotFound
	}
}
