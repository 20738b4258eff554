// Package services defines the business logic for questions and answers.
// This file holds the closed error taxonomy of the service. Every failure a
// request can end in is one of the kinds below; Classify maps an error to its
// kind so the HTTP layer can pick a status without inspecting messages.
//
// Errors render the client-facing description via Error(). Translation into
// status codes is performed at the handler layer (see handlers.StatusFor).
package services

import (
	"errors"
	"fmt"

	"github.com/tbourn/go-qa-backend/internal/repo"
)

// Kind is the classification of a failure.
type Kind int

const (
	// KindUnknown covers anything not produced by this service.
	KindUnknown Kind = iota
	// KindParse: a query parameter is not a valid non-negative integer.
	KindParse
	// KindMissingParameter: a required parameter is absent.
	KindMissingParameter
	// KindQuestionNotFound: the addressed question does not exist.
	KindQuestionNotFound
	// KindMalformedBody: the request body could not be decoded (transport).
	KindMalformedBody
	// KindCORSForbidden: the request violates the cross-origin policy (transport).
	KindCORSForbidden
	// KindRouteNotFound: no route matched (transport).
	KindRouteNotFound
)

// String returns a stable lowercase name for k.
func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse_error"
	case KindMissingParameter:
		return "missing_parameter"
	case KindQuestionNotFound:
		return "question_not_found"
	case KindMalformedBody:
		return "malformed_body"
	case KindCORSForbidden:
		return "cors_forbidden"
	case KindRouteNotFound:
		return "route_not_found"
	default:
		return "unknown"
	}
}

var (
	// ErrQuestionNotFound is returned when an update, delete, or answer
	// attachment addresses a question that does not exist.
	ErrQuestionNotFound = errors.New("Question not found")

	// ErrRouteNotFound is used for requests that match no route.
	ErrRouteNotFound = errors.New("Route not found")
)

// ParseError reports a query parameter that is not a non-negative integer.
type ParseError struct {
	Param string // parameter name, e.g. "start"
	Value string // offending text
	Err   error  // underlying strconv failure
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Cannot parse parameter: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingParameterError reports a required parameter that was not supplied.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("Missing parameter: '%s'", e.Name)
}

// MalformedBodyError wraps a request body decoding failure.
type MalformedBodyError struct {
	Err error
}

func (e *MalformedBodyError) Error() string {
	return fmt.Sprintf("Request body deserialize error: %v", e.Err)
}

func (e *MalformedBodyError) Unwrap() error { return e.Err }

// CORSForbiddenError reports a request rejected by the cross-origin policy.
// Reason is one of "origin not allowed", "request-method not allowed", or
// "header not allowed: <name>".
type CORSForbiddenError struct {
	Reason string
}

func (e *CORSForbiddenError) Error() string {
	return "CORS request forbidden: " + e.Reason
}

// Classify maps err to its Kind. Store sentinels are folded into
// KindQuestionNotFound so callers may pass repo errors through unchanged.
func Classify(err error) Kind {
	var (
		pe *ParseError
		me *MissingParameterError
		be *MalformedBodyError
		ce *CORSForbiddenError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &pe):
		return KindParse
	case errors.As(err, &me):
		return KindMissingParameter
	case errors.Is(err, ErrQuestionNotFound),
		errors.Is(err, repo.ErrNotFound),
		errors.Is(err, repo.ErrQuestionNotFound):
		return KindQuestionNotFound
	case errors.As(err, &be):
		return KindMalformedBody
	case errors.As(err, &ce):
		return KindCORSForbidden
	case errors.Is(err, ErrRouteNotFound):
		return KindRouteNotFound
	default:
		return KindUnknown
	}
}

// Message renders the client-facing description of err. Store sentinels are
// rendered as ErrQuestionNotFound.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if Classify(err) == KindQuestionNotFound {
		return ErrQuestionNotFound.Error()
	}
	return err.Error()
}

// mapStoreErr translates store sentinels into service errors.
func mapStoreErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) || errors.Is(err, repo.ErrQuestionNotFound) {
		return ErrQuestionNotFound
	}
	return err
}
