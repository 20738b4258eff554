// Package repo implements the data layer of the Q&A service. This file loads
// the seed documents that populate the Store at process start.
//
// Each document is a JSON object keyed by record id:
//
//	{
//	  "1": { "id": "1", "title": "First question", "content": "...", "tags": ["faq"] }
//	}
//
// Answers use the same layout keyed by answer id. A key that disagrees with
// the id inside its record is rejected, as is a record with an empty id.
package repo

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tbourn/go-qa-backend/internal/domain"
)

// LoadSeed reads the question and answer seed documents. An empty path yields
// an empty collection; a missing or malformed file is an error.
func LoadSeed(questionsPath, answersPath string) (map[domain.QuestionID]domain.Question, map[domain.AnswerID]domain.Answer, error) {
	questions := map[domain.QuestionID]domain.Question{}
	if err := readJSON(questionsPath, &questions); err != nil {
		return nil, nil, fmt.Errorf("read questions: %w", err)
	}
	for k, q := range questions {
		if k != q.ID {
			return nil, nil, fmt.Errorf("read questions: key %q does not match id %q", k, q.ID)
		}
	}

	answers := map[domain.AnswerID]domain.Answer{}
	if err := readJSON(answersPath, &answers); err != nil {
		return nil, nil, fmt.Errorf("read answers: %w", err)
	}
	for k, a := range answers {
		if k == "" || k != a.ID {
			return nil, nil, fmt.Errorf("read answers: key %q does not match id %q", k, a.ID)
		}
	}
	return questions, answers, nil
}

// NewSeeded loads the seed documents and builds a Store from them.
func NewSeeded(questionsPath, answersPath string) (*Store, error) {
	qs, as, err := LoadSeed(questionsPath, answersPath)
	if err != nil {
		return nil, err
	}
	return New(qs, as), nil
}

func readJSON(path string, dst any) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
