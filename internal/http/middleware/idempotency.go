package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header that carries an idempotency key.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	ctxKeyIdempotency = "idempotency"
	defaultKeyMaxLen  = 200
)

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// idempotencyState is what IdempotencyValidator learned about the request.
type idempotencyState struct {
	key    string
	replay bool
}

func idempotencyOf(c *gin.Context) idempotencyState {
	v, _ := c.Get(ctxKeyIdempotency)
	st, _ := v.(idempotencyState)
	return st
}

// GetIdempotencyKey returns the validated Idempotency-Key of the request, if
// it carried one.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	k := idempotencyOf(c).key
	return k, k != ""
}

// IsReplay reports whether the request's key already completed the operation
// it addresses.
func IsReplay(c *gin.Context) bool { return idempotencyOf(c).replay }

// IdempotencyOptions configures IdempotencyValidator.
type IdempotencyOptions struct {
	MaxLen     int            // <= 0 means 200
	Pattern    *regexp.Regexp // nil means [A-Za-z0-9._~-:]+
	ScopeParam string         // route param scoping keys; empty means "id"
}

// IdempotencyLookup reports whether a live record exists for (scope, key) at
// now. An error never blocks the request; it is logged and treated as a miss.
type IdempotencyLookup func(ctx context.Context, scope, key string, now time.Time) (exists bool, err error)

// IdempotencyValidator checks the Idempotency-Key header and records it for
// handlers. Requests without the header pass untouched; a key that is too
// long or has characters outside the pattern gets 400 bad_idempotency_key.
// For POST requests lookup decides whether this is a replay, in which case
// the request also skips the rate limiter.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	if opts.MaxLen <= 0 {
		opts.MaxLen = defaultKeyMaxLen
	}
	if opts.Pattern == nil {
		opts.Pattern = defaultKeyPattern
	}
	if opts.ScopeParam == "" {
		opts.ScopeParam = "id"
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > opts.MaxLen || !opts.Pattern.MatchString(key) {
			rid, _ := c.Get(requestIDKey)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": asString(rid),
				"code":       "bad_idempotency_key",
				"message":    "invalid Idempotency-Key",
			})
			return
		}

		st := idempotencyState{key: key}
		if lookup != nil && c.Request.Method == http.MethodPost {
			exists, err := lookup(c.Request.Context(), c.Param(opts.ScopeParam), key, time.Now().UTC())
			if err != nil {
				LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
			}
			st.replay = exists
		}
		c.Set(ctxKeyIdempotency, st)
		if st.replay {
			c.Set(ctxKeyRateBypass, true)
			metrics.answerReplays.Inc()
		}

		c.Next()
	}
}
