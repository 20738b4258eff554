// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides SecurityHeaders: hardening headers for a JSON/text API
// plus the Access-Control-Expose-Headers list browser clients need to read
// correlation and replay headers.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultHSTSMaxAge = 180 * 24 * time.Hour

// SecurityOptions configures SecurityHeaders.
type SecurityOptions struct {
	EnableHSTS   bool          // only when traffic is HTTPS end-to-end
	HSTSMaxAge   time.Duration // <= 0 selects 180 days
	NoStore      bool          // Cache-Control: no-store, Pragma, Expires
	EnablePolicy bool          // Permissions-Policy, CSP and cross-domain policy

	// Expose lists response headers merged into Access-Control-Expose-Headers.
	// Empty exposes X-Request-ID only.
	Expose []string
}

type header struct{ name, value string }

// SecurityHeaders returns a middleware that sets the hardening headers before
// the handler runs.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	static := []header{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "no-referrer"},
	}
	if opt.EnablePolicy {
		static = append(static,
			header{"Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()"},
			header{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
			header{"X-Permitted-Cross-Domain-Policies", "none"},
		)
	}
	if opt.NoStore {
		static = append(static,
			header{"Cache-Control", "no-store"},
			header{"Pragma", "no-cache"},
			header{"Expires", "0"},
		)
	}

	maxAge := opt.HSTSMaxAge
	if maxAge <= 0 {
		maxAge = defaultHSTSMaxAge
	}
	hsts := "max-age=" + strconv.Itoa(int(maxAge.Seconds())) + "; includeSubDomains; preload"

	expose := opt.Expose
	if len(expose) == 0 {
		expose = []string{requestIDHeader}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		for _, kv := range static {
			h.Set(kv.name, kv.value)
		}
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}
		mergeExpose(h, expose)
		c.Next()
	}
}

// mergeExpose appends names missing from Access-Control-Expose-Headers.
// Matching is per token and case-insensitive.
func mergeExpose(h http.Header, names []string) {
	const key = "Access-Control-Expose-Headers"
	cur := h.Get(key)
	have := map[string]bool{}
	for _, tok := range strings.Split(cur, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			have[strings.ToLower(tok)] = true
		}
	}
	out := cur
	for _, n := range names {
		if have[strings.ToLower(n)] {
			continue
		}
		have[strings.ToLower(n)] = true
		if out == "" {
			out = n
		} else {
			out += ", " + n
		}
	}
	if out != cur {
		h.Set(key, out)
	}
}

// isHTTPS reports whether the request arrived over TLS directly or through a
// proxy that set X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
