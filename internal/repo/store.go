// Package repo implements the data layer of the Q&A service. This file
// contains Store, the process-wide in-memory record store for questions and
// answers.
//
// Concurrency:
//   - Each collection has its own sync.RWMutex. Reads share the lock, writes
//     hold it exclusively, and no method holds a lock beyond its own body.
//   - Operations on one collection are linearizable with respect to each
//     other. Operations spanning both collections are not jointly atomic:
//     CreateAnswer checks the question under the question lock, releases it,
//     then inserts under the answer lock. A question deleted in between still
//     gets its answer. This race is accepted.
//
// Ordering:
//   - Questions are listed in insertion order; overwriting an existing id
//     keeps its original slot. Seeded questions are inserted in ascending
//     key order so a fresh process always lists the same sequence.
//
// Deleting a question never removes its answers.
package repo

import (
	"errors"
	"sort"
	"sync"

	"github.com/tbourn/go-qa-backend/internal/domain"
)

var (
	// ErrNotFound is returned by UpdateQuestion and DeleteQuestion when the id
	// is absent.
	ErrNotFound = errors.New("record not found")

	// ErrQuestionNotFound is returned by CreateAnswer when the target question
	// does not exist at check time.
	ErrQuestionNotFound = errors.New("question not found")
)

// Store owns the question and answer collections. The zero value is not
// usable; construct with New. A single Store is meant to be shared by every
// request handler for the lifetime of the process.
type Store struct {
	qmu       sync.RWMutex
	questions map[domain.QuestionID]domain.Question
	qorder    []domain.QuestionID

	amu     sync.RWMutex
	answers map[domain.AnswerID]domain.Answer

	// newAnswerID mints answer keys; swapped in tests.
	newAnswerID func() domain.AnswerID
}

// New builds a Store pre-populated with the given collections. Either map may
// be nil. Records are copied; the caller keeps ownership of the maps.
func New(questions map[domain.QuestionID]domain.Question, answers map[domain.AnswerID]domain.Answer) *Store {
	s := &Store{
		questions:   make(map[domain.QuestionID]domain.Question, len(questions)),
		answers:     make(map[domain.AnswerID]domain.Answer, len(answers)),
		newAnswerID: domain.NewAnswerID,
	}

	qids := make([]domain.QuestionID, 0, len(questions))
	for id := range questions {
		qids = append(qids, id)
	}
	sort.Slice(qids, func(i, j int) bool { return qids[i] < qids[j] })
	for _, id := range qids {
		s.questions[id] = questions[id].Clone()
		s.qorder = append(s.qorder, id)
	}

	for id, a := range answers {
		s.answers[id] = a
	}
	return s
}

// ListQuestions returns a snapshot of all questions in insertion order.
// The returned slice is never nil and shares no state with the store.
func (s *Store) ListQuestions() []domain.Question {
	s.qmu.RLock()
	defer s.qmu.RUnlock()

	out := make([]domain.Question, 0, len(s.qorder))
	for _, id := range s.qorder {
		out = append(out, s.questions[id].Clone())
	}
	return out
}

// GetQuestion returns the question stored under id.
func (s *Store) GetQuestion(id domain.QuestionID) (domain.Question, bool) {
	s.qmu.RLock()
	defer s.qmu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.Question{}, false
	}
	return q.Clone(), true
}

// CreateQuestion inserts q, overwriting any question with the same id.
// It never fails.
func (s *Store) CreateQuestion(q domain.Question) {
	s.qmu.Lock()
	defer s.qmu.Unlock()
	if _, exists := s.questions[q.ID]; !exists {
		s.qorder = append(s.qorder, q.ID)
	}
	s.questions[q.ID] = q.Clone()
}

// UpdateQuestion replaces the question stored under id with q. It returns
// ErrNotFound, leaving the collection untouched, when id is absent.
// q.ID is expected to equal id; the store does not re-check it.
func (s *Store) UpdateQuestion(id domain.QuestionID, q domain.Question) error {
	s.qmu.Lock()
	defer s.qmu.Unlock()
	if _, exists := s.questions[id]; !exists {
		return ErrNotFound
	}
	s.questions[id] = q.Clone()
	return nil
}

// DeleteQuestion removes the question stored under id, or returns ErrNotFound.
func (s *Store) DeleteQuestion(id domain.QuestionID) error {
	s.qmu.Lock()
	defer s.qmu.Unlock()
	if _, exists := s.questions[id]; !exists {
		return ErrNotFound
	}
	delete(s.questions, id)
	for i, v := range s.qorder {
		if v == id {
			s.qorder = append(s.qorder[:i], s.qorder[i+1:]...)
			break
		}
	}
	return nil
}

// QuestionExists reports whether id is present at the time of the call.
func (s *Store) QuestionExists(id domain.QuestionID) bool {
	s.qmu.RLock()
	defer s.qmu.RUnlock()
	_, ok := s.questions[id]
	return ok
}

// CreateAnswer attaches a new answer with content to the question qid and
// returns it. It fails with ErrQuestionNotFound when qid is absent at check
// time. The new answer gets a freshly minted id that is unique among the
// stored answers.
func (s *Store) CreateAnswer(qid domain.QuestionID, content string) (domain.Answer, error) {
	if !s.QuestionExists(qid) {
		return domain.Answer{}, ErrQuestionNotFound
	}

	s.amu.Lock()
	defer s.amu.Unlock()

	id := s.newAnswerID()
	for {
		if _, taken := s.answers[id]; !taken {
			break
		}
		id = s.newAnswerID()
	}
	a := domain.Answer{ID: id, QuestionID: qid, Content: content}
	s.answers[id] = a
	return a, nil
}

// GetAnswer returns the answer stored under id.
func (s *Store) GetAnswer(id domain.AnswerID) (domain.Answer, bool) {
	s.amu.RLock()
	defer s.amu.RUnlock()
	a, ok := s.answers[id]
	return a, ok
}

// Counts returns the current number of questions and answers. The two
// numbers are read under separate locks and may not describe one instant.
func (s *Store) Counts() (questions, answers int) {
	s.qmu.RLock()
	questions = len(s.questions)
	s.qmu.RUnlock()

	s.amu.RLock()
	answers = len(s.answers)
	s.amu.RUnlock()
	return questions, answers
}
