package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-qa-backend/internal/domain"
)

// ErrDuplicate is returned by Ledger.Record when a live record already holds
// the (question, key) pair.
var ErrDuplicate = errors.New("duplicate idempotency key")

// Ledger persists completed answer attachments keyed by (question, key) so a
// retried request can be recognised within its TTL.
type Ledger struct {
	db *gorm.DB
}

// NewLedger returns a ledger over db. The schema must already be migrated.
func NewLedger(db *gorm.DB) *Ledger { return &Ledger{db: db} }

// Lookup returns the live record for (qid, key) at now, or ErrNotFound.
func (l *Ledger) Lookup(ctx context.Context, qid domain.QuestionID, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(qid.String()) == "" || key == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := l.db.WithContext(ctx).
		Where("question_id = ? AND key = ? AND expires_at > ?", qid, key, now).
		First(&rec).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, err
	}
	return &rec, nil
}

// Record stores that key produced aid for qid, valid for ttl from now.
func (l *Ledger) Record(ctx context.Context, qid domain.QuestionID, key string, aid domain.AnswerID, now time.Time, ttl time.Duration) (*domain.Idempotency, error) {
	rec := &domain.Idempotency{
		ID:         uuid.NewString(),
		QuestionID: qid,
		Key:        key,
		AnswerID:   aid,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
	if err := l.db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// Purge deletes records expired at now and reports how many went.
func (l *Ledger) Purge(ctx context.Context, now time.Time) (int64, error) {
	res := l.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.Idempotency{})
	return res.RowsAffected, res.Error
}

// isUniqueViolation matches gorm's translated error as well as the plain-text
// form the pure-Go sqlite driver returns.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "constraint failed: unique")
}
