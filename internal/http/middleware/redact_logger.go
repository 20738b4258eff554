// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the access logger used in production.
// It scrubs emails, phone numbers and UUIDs from the query string and header
// values and masks sensitive headers outright. Bodies are never logged, so
// question and answer text stays out of the logs.
package middleware

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RedactOptions configures RedactingLogger.
type RedactOptions struct {
	// MaskHeaders names extra headers (case-insensitive) whose values are
	// replaced with "[REDACTED]", on top of Authorization, Cookie and
	// Set-Cookie.
	MaskHeaders []string
}

// UUIDs go first: the phone pattern would otherwise eat their digit groups.
var redactions = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`), "[REDACTED:id]"},
	{regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`), "[REDACTED:email]"},
	// "+1 212-555-1212", "(212) 555-1212"
	{regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`), "[REDACTED:phone]"},
}

func scrub(s string) string {
	for _, r := range redactions {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return s
}

type redactor struct {
	masked map[string]bool
}

func newRedactor(extra []string) redactor {
	m := map[string]bool{"authorization": true, "cookie": true, "set-cookie": true}
	for _, h := range extra {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			m[h] = true
		}
	}
	return redactor{masked: m}
}

func (rd redactor) headers(in http.Header) map[string]string {
	out := make(map[string]string, len(in))
	for k, vv := range in {
		if rd.masked[strings.ToLower(k)] {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = scrub(strings.Join(vv, ", "))
	}
	return out
}

// RedactingLogger is Logger with scrubbing: the same levels, the same
// request-scoped logger for LoggerFrom, plus the redacted request headers.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	rd := newRedactor(opts.MaskHeaders)

	return func(c *gin.Context) {
		start := time.Now()

		v, _ := c.Get(requestIDKey)
		rid := asString(v)
		if rid == "" {
			rid = c.GetHeader(requestIDHeader)
		}
		scoped := log.With().
			Str("request_id", rid).
			Str("method", c.Request.Method).
			Str("path", routeOf(c)).
			Logger()
		c.Set(loggerKey, &scoped)

		c.Next()

		status := c.Writer.Status()
		ev := levelFor(&scoped, status, len(c.Errors) > 0).
			Str("remote_ip", c.ClientIP()).
			Str("query", truncate(scrub(c.Request.URL.RawQuery), maxQueryLogLength)).
			Int("status", status).
			Int("bytes_out", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", rd.headers(c.Request.Header))
		if IsReplay(c) {
			ev = ev.Bool("replayed", true)
		}
		ev.Msg("request")
	}
}
