package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func captureLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	return &buf
}

// logLines decodes the JSON lines written to buf.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	var seen any
	r.GET("/questions", func(c *gin.Context) {
		seen, _ = c.Get(requestIDKey)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/questions", nil))
	gen := w.Header().Get(requestIDHeader)
	if gen == "" || seen != gen {
		t.Fatalf("generated id: header=%q ctx=%v", gen, seen)
	}

	for _, name := range []string{requestIDHeader, strings.ToLower(requestIDHeader)} {
		w = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/questions", nil)
		req.Header.Set(name, "rid-7")
		r.ServeHTTP(w, req)
		if got := w.Header().Get(requestIDHeader); got != "rid-7" || seen != "rid-7" {
			t.Fatalf("%s: propagated header=%q ctx=%v", name, got, seen)
		}
	}
}

func TestLogger_Levels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		path   string
		level  string
		logged string
	}{
		{"ok", "/questions/q1", "info", "/questions/:id"},
		{"client error", "/questions/missing", "warn", "/questions/:id"},
		{"gin error", "/questions/broken", "error", "/questions/:id"},
		{"server error", "/questions/panic", "error", "/questions/:id"},
		{"no route", "/nope", "warn", "/nope"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := captureLogger(t)
			r := gin.New()
			r.Use(RequestID(), Logger())
			r.GET("/questions/:id", func(c *gin.Context) {
				switch c.Param("id") {
				case "missing":
					c.Status(http.StatusRequestedRangeNotSatisfiable)
				case "broken":
					_ = c.Error(errSentinel{})
					c.Status(http.StatusUnprocessableEntity)
				case "panic":
					c.Status(http.StatusInternalServerError)
				default:
					c.String(http.StatusOK, "ok")
				}
			})
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path+"?start=0&end=1", nil))

			lines := logLines(t, buf)
			if len(lines) != 1 {
				t.Fatalf("want one access line, got %d", len(lines))
			}
			l := lines[0]
			if l["level"] != tc.level || l["path"] != tc.logged || l["query"] != "start=0&end=1" {
				t.Fatalf("unexpected access line: %v", l)
			}
			if l["request_id"] == "" || l["message"] != "request" {
				t.Fatalf("missing fields: %v", l)
			}
		})
	}
}

func TestLogger_MarksReplay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)
	r := gin.New()
	r.Use(Logger())
	r.POST("/questions/:id/answers", func(c *gin.Context) {
		c.Set(ctxKeyIdempotency, idempotencyState{key: "k", replay: true})
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/questions/1/answers", nil))

	if l := logLines(t, buf)[0]; l["replayed"] != true {
		t.Fatalf("expected replayed=true, got %v", l)
	}
}

type errSentinel struct{}

func (errSentinel) Error() string { return "boom" }

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("before write", func(t *testing.T) {
		buf := captureLogger(t)
		r := gin.New()
		r.Use(RequestID(), Logger(), Recovery())
		r.GET("/questions", func(*gin.Context) { panic("kaboom") })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/questions", nil))
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status=%d", w.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("json: %v", err)
		}
		if body["code"] != "internal_error" || body["request_id"] != w.Header().Get(requestIDHeader) {
			t.Fatalf("unexpected body: %v", body)
		}
		if !strings.Contains(buf.String(), "panic recovered") || !strings.Contains(buf.String(), `"path":"/questions"`) {
			t.Fatalf("expected scoped panic log, got:\n%s", buf.String())
		}
	})

	t.Run("after write", func(t *testing.T) {
		buf := captureLogger(t)
		r := gin.New()
		r.Use(RequestID(), Logger(), Recovery())
		r.GET("/questions", func(c *gin.Context) {
			c.String(http.StatusOK, "partial")
			panic("late kaboom")
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/questions", nil))
		if strings.Contains(w.Body.String(), "internal_error") {
			t.Fatalf("error body written after partial response: %q", w.Body.String())
		}
		if !strings.Contains(buf.String(), "panic recovered") {
			t.Fatalf("expected panic log, got:\n%s", buf.String())
		}
	})
}

func TestLoggerFrom(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, withLogger := range []bool{false, true} {
		buf := captureLogger(t)
		r := gin.New()
		r.Use(RequestID())
		if withLogger {
			r.Use(Logger())
		}
		r.GET("/questions", func(c *gin.Context) {
			LoggerFrom(c).Info().Msg("custom")
			c.Status(http.StatusOK)
		})
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/questions", nil))

		custom := logLines(t, buf)[0]
		if custom["message"] != "custom" {
			t.Fatalf("first line = %v", custom)
		}
		if _, has := custom["request_id"]; has != withLogger {
			t.Fatalf("withLogger=%v: request_id present=%v", withLogger, has)
		}
	}
}

func TestHelpers_asString_truncate(t *testing.T) {
	if asString("x") != "x" || asString(123) != "" || asString(nil) != "" {
		t.Fatalf("asString failed")
	}
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"abcdefgh", 5, "abcde…"},
		{"abc", 0, "abc"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.max); got != tc.want {
			t.Fatalf("truncate(%q,%d)=%q want %q", tc.in, tc.max, got, tc.want)
		}
	}
}
