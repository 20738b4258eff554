package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-qa-backend/internal/domain"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadSeed_OK(t *testing.T) {
	dir := t.TempDir()
	qp := writeFile(t, dir, "questions.json", `{
		"2": {"id":"2","title":"Second","content":"b"},
		"1": {"id":"1","title":"First","content":"a","tags":["faq","go"]}
	}`)
	ap := writeFile(t, dir, "answers.json", `{
		"x": {"id":"x","question_id":"1","content":"yes"}
	}`)

	qs, as, err := LoadSeed(qp, ap)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, []domain.Tag{"faq", "go"}, qs["1"].Tags)
	assert.Nil(t, qs["2"].Tags)
	require.Len(t, as, 1)
	assert.Equal(t, domain.QuestionID("1"), as["x"].QuestionID)

	s, err := NewSeeded(qp, ap)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(s.ListQuestions()))
}

func TestLoadSeed_EmptyPaths(t *testing.T) {
	qs, as, err := LoadSeed("", "  ")
	require.NoError(t, err)
	assert.Empty(t, qs)
	assert.Empty(t, as)
}

func TestLoadSeed_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "ok.json", `{}`)

	cases := map[string]struct{ q, a string }{
		"missing questions file": {filepath.Join(dir, "nope.json"), good},
		"missing answers file":   {good, filepath.Join(dir, "nope.json")},
		"malformed questions":    {writeFile(t, dir, "bad.json", `{"1":`), good},
		"empty question id":      {writeFile(t, dir, "empty.json", `{"":{"id":"","title":"t","content":"c"}}`), good},
		"question key mismatch":  {writeFile(t, dir, "mismatch.json", `{"1":{"id":"2","title":"t","content":"c"}}`), good},
		"answer key mismatch":    {good, writeFile(t, dir, "amismatch.json", `{"a":{"id":"b","question_id":"1","content":"c"}}`)},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := LoadSeed(tc.q, tc.a)
			assert.Error(t, err)
			_, err = NewSeeded(tc.q, tc.a)
			assert.Error(t, err)
		})
	}
}
