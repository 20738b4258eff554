package domain

import "time"

// Idempotency is one completed answer attachment made under a client supplied
// Idempotency-Key. At most one live record exists per (question, key).
type Idempotency struct {
	ID         string     `gorm:"type:TEXT NOT NULL;primaryKey"`
	QuestionID QuestionID `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_idem_question_key,priority:1"`
	Key        string     `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_idem_question_key,priority:2"`
	AnswerID   AnswerID   `gorm:"type:TEXT NOT NULL"`
	CreatedAt  time.Time  `gorm:"type:DATETIME NOT NULL"`
	ExpiresAt  time.Time  `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency_keys" }

// Live reports whether the record can still be replayed at now.
func (r Idempotency) Live(now time.Time) bool { return now.Before(r.ExpiresAt) }
