// Package domain defines the core records of the Q&A service: questions,
// answers, and the identifier types that key them in the store. These types
// are shared across the repository, service, and HTTP layers.
package domain

import (
	"encoding/json"
	"errors"
)

// ErrEmptyID is returned when an identifier is constructed from an empty string.
var ErrEmptyID = errors.New("empty id")

// QuestionID is the unique, client-supplied key of a Question.
// The zero value is not a valid id; use ParseQuestionID to construct one.
type QuestionID string

// ParseQuestionID validates s and returns it as a QuestionID.
// It fails with ErrEmptyID when s is empty.
func ParseQuestionID(s string) (QuestionID, error) {
	if s == "" {
		return "", ErrEmptyID
	}
	return QuestionID(s), nil
}

// String returns the textual form of the id.
func (id QuestionID) String() string { return string(id) }

// UnmarshalJSON rejects empty ids so a payload without a usable id is
// reported as a malformed body.
func (id *QuestionID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseQuestionID(s)
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// Tag is a free-form label attached to a question.
type Tag string

// String renders the tag in hashtag form (e.g. "#go").
func (t Tag) String() string { return "#" + string(t) }

// Question is a top-level record with a title, content, and optional tags.
//
// Fields:
//   - ID: immutable key, supplied by the client on creation.
//   - Title / Content: free text, replaced wholesale on update.
//   - Tags: optional ordered labels; nil when absent.
type Question struct {
	ID      QuestionID `json:"id"               example:"1"`
	Title   string     `json:"title"            example:"First question"`
	Content string     `json:"content"          example:"Content of question"`
	Tags    []Tag      `json:"tags,omitempty"   swaggertype:"array,string" example:"faq,go"`
}

// Clone returns a copy of q that shares no mutable state with it.
func (q Question) Clone() Question {
	if q.Tags != nil {
		tags := make([]Tag, len(q.Tags))
		copy(tags, q.Tags)
		q.Tags = tags
	}
	return q
}
