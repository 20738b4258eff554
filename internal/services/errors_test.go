package services

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tbourn/go-qa-backend/internal/repo"
)

func TestClassify(t *testing.T) {
	_, numErr := strconv.ParseUint("x", 10, 63)

	cases := []struct {
		err  error
		want Kind
	}{
		{nil, KindUnknown},
		{errors.New("boom"), KindUnknown},
		{&ParseError{Param: "start", Value: "x", Err: numErr}, KindParse},
		{&MissingParameterError{Name: "content"}, KindMissingParameter},
		{ErrQuestionNotFound, KindQuestionNotFound},
		{repo.ErrNotFound, KindQuestionNotFound},
		{repo.ErrQuestionNotFound, KindQuestionNotFound},
		{fmt.Errorf("wrapped: %w", ErrQuestionNotFound), KindQuestionNotFound},
		{&MalformedBodyError{Err: errors.New("unexpected EOF")}, KindMalformedBody},
		{&CORSForbiddenError{Reason: "origin not allowed"}, KindCORSForbidden},
		{ErrRouteNotFound, KindRouteNotFound},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.err), "Classify(%v)", tc.err)
	}
}

func TestMessages(t *testing.T) {
	_, numErr := strconv.ParseUint("x", 10, 63)

	assert.Equal(t, "Missing parameter: 'content'", (&MissingParameterError{Name: "content"}).Error())
	assert.Equal(t, `Cannot parse parameter: strconv.ParseUint: parsing "x": invalid syntax`,
		(&ParseError{Param: "start", Value: "x", Err: numErr}).Error())
	assert.Equal(t, "Question not found", ErrQuestionNotFound.Error())
	assert.Equal(t, "Route not found", ErrRouteNotFound.Error())
	assert.Equal(t, "Request body deserialize error: EOF", (&MalformedBodyError{Err: errors.New("EOF")}).Error())
	assert.Equal(t, "CORS request forbidden: origin not allowed", (&CORSForbiddenError{Reason: "origin not allowed"}).Error())

	// store sentinels render as the service message
	assert.Equal(t, "Question not found", Message(repo.ErrNotFound))
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "boom", Message(errors.New("boom")))
}

func TestKind_String(t *testing.T) {
	seen := map[string]bool{}
	for k := KindUnknown; k <= KindRouteNotFound; k++ {
		s := k.String()
		assert.NotEmpty(t, s)
		assert.False(t, seen[s], "duplicate name %q", s)
		seen[s] = true
	}
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("cause")
	assert.ErrorIs(t, &ParseError{Err: cause}, cause)
	assert.ErrorIs(t, &MalformedBodyError{Err: cause}, cause)
}
