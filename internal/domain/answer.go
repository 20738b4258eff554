package domain

import "github.com/google/uuid"

// AnswerID is the store-minted key of an Answer. Clients never supply it.
type AnswerID string

// NewAnswerID mints a fresh random AnswerID (UUIDv4).
func NewAnswerID() AnswerID { return AnswerID(uuid.NewString()) }

// String returns the textual form of the id.
func (id AnswerID) String() string { return string(id) }

// Answer is free-text content attached to exactly one question. The
// referenced question is checked only when the answer is created; deleting
// the question later leaves the answer in place.
type Answer struct {
	ID         AnswerID   `json:"id"          example:"7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab"`
	QuestionID QuestionID `json:"question_id" example:"1"`
	Content    string     `json:"content"     example:"An answer"`
}
