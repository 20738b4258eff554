package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-qa-backend/internal/domain"
	"github.com/tbourn/go-qa-backend/internal/repo"
)

func newLedger(t *testing.T) *repo.Ledger {
	t.Helper()
	db, err := repo.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, repo.AutoMigrate(db))
	return repo.NewLedger(db)
}

type fakeAnswerRepo struct {
	gotQID     domain.QuestionID
	gotContent string
	err        error
}

func (f *fakeAnswerRepo) CreateAnswer(qid domain.QuestionID, content string) (domain.Answer, error) {
	f.gotQID, f.gotContent = qid, content
	if f.err != nil {
		return domain.Answer{}, f.err
	}
	return domain.Answer{ID: "a1", QuestionID: qid, Content: content}, nil
}

func TestAnswerService_Add(t *testing.T) {
	st := repo.New(map[domain.QuestionID]domain.Question{"1": {ID: "1", Title: "t"}}, nil)
	svc := &AnswerService{Repo: st}
	ctx := context.Background()

	a, err := svc.Add(ctx, "1", map[string]string{"content": "hello"})
	require.NoError(t, err)
	assert.Equal(t, domain.QuestionID("1"), a.QuestionID)
	assert.Equal(t, "hello", a.Content)
	stored, ok := st.GetAnswer(a.ID)
	require.True(t, ok)
	assert.Equal(t, *a, stored)

	// empty content is still content
	_, err = svc.Add(ctx, "1", map[string]string{"content": ""})
	require.NoError(t, err)

	_, err = svc.Add(ctx, "missing", map[string]string{"content": "x"})
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestAnswerService_Add_MissingContent_SkipsStore(t *testing.T) {
	f := &fakeAnswerRepo{}
	svc := &AnswerService{Repo: f}

	_, err := svc.Add(context.Background(), "1", map[string]string{"other": "x"})
	var me *MissingParameterError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "content", me.Name)
	assert.Empty(t, f.gotQID, "store must not be called")
}

func TestAnswerService_Add_PropagatesUnknownErrors(t *testing.T) {
	boom := errors.New("boom")
	svc := &AnswerService{Repo: &fakeAnswerRepo{err: boom}}
	_, err := svc.Add(context.Background(), "1", map[string]string{"content": "x"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, KindUnknown, Classify(err))
}

func TestAnswerService_Ledger(t *testing.T) {
	svc := &AnswerService{Repo: &fakeAnswerRepo{}, Ledger: newLedger(t), IdempotencyTTL: time.Hour}
	ctx := context.Background()
	now := time.Now().UTC()

	assert.False(t, svc.Replayed(ctx, "1", "k1", now))
	require.NoError(t, svc.Remember(ctx, "1", "k1", "a1"))
	assert.True(t, svc.Replayed(ctx, "1", "k1", now))

	// scoped per question
	assert.False(t, svc.Replayed(ctx, "2", "k1", now))

	// recording the same key twice is fine
	require.NoError(t, svc.Remember(ctx, "1", "k1", "a2"))

	// past the TTL the key is free again
	assert.False(t, svc.Replayed(ctx, "1", "k1", now.Add(2*time.Hour)))
}

func TestAnswerService_Ledger_Disabled(t *testing.T) {
	svc := &AnswerService{Repo: &fakeAnswerRepo{}}
	ctx := context.Background()
	assert.NoError(t, svc.Remember(ctx, "1", "k", "a"))
	assert.False(t, svc.Replayed(ctx, "1", "k", time.Now()))

	withDB := &AnswerService{Repo: &fakeAnswerRepo{}, Ledger: newLedger(t)}
	assert.NoError(t, withDB.Remember(ctx, "1", "", "a"))
	assert.False(t, withDB.Replayed(ctx, "1", "", time.Now()))
	assert.Equal(t, 24*time.Hour, withDB.ttl())
}
