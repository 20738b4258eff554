// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides CORSGuard, which enforces the cross-origin policy before
// gin-contrib/cors writes the Access-Control-* headers. gin-contrib/cors
// rejects with a bare status; the guard lets the caller answer violations
// with the API's own error envelope.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Reasons passed to a CORSReject callback.
const (
	CORSReasonOrigin = "origin not allowed"
	CORSReasonMethod = "request-method not allowed"
	CORSReasonHeader = "header not allowed: "
)

// CORSOptions is the cross-origin policy enforced by CORSGuard.
type CORSOptions struct {
	// AllowedOrigins lists exact origins. Empty allows any origin.
	AllowedOrigins []string
	// AllowedMethods lists methods a preflight may request.
	AllowedMethods []string
	// AllowedHeaders lists request headers a preflight may request
	// (case-insensitive).
	AllowedHeaders []string
}

// CORSReject answers a request that violates the policy. It must abort c.
type CORSReject func(c *gin.Context, reason string)

// CORSGuard returns a middleware that checks the Origin of cross-origin
// requests and, for preflights, the requested method and headers. Requests
// without an Origin header pass untouched.
func CORSGuard(opts CORSOptions, reject CORSReject) gin.HandlerFunc {
	origins := make(map[string]struct{}, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		origins[o] = struct{}{}
	}
	methods := make(map[string]struct{}, len(opts.AllowedMethods))
	for _, m := range opts.AllowedMethods {
		methods[strings.ToUpper(m)] = struct{}{}
	}
	headers := make(map[string]struct{}, len(opts.AllowedHeaders))
	for _, h := range opts.AllowedHeaders {
		headers[strings.ToLower(h)] = struct{}{}
	}
	if reject == nil {
		reject = func(c *gin.Context, reason string) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    "forbidden",
				"message": "CORS request forbidden: " + reason,
			})
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}
		if len(origins) > 0 {
			if _, ok := origins[origin]; !ok {
				reject(c, CORSReasonOrigin)
				return
			}
		}

		reqMethod := c.GetHeader("Access-Control-Request-Method")
		if c.Request.Method == http.MethodOptions && reqMethod != "" {
			if _, ok := methods[strings.ToUpper(reqMethod)]; !ok {
				reject(c, CORSReasonMethod)
				return
			}
			for _, h := range strings.Split(c.GetHeader("Access-Control-Request-Headers"), ",") {
				h = strings.ToLower(strings.TrimSpace(h))
				if h == "" {
					continue
				}
				if _, ok := headers[h]; !ok {
					reject(c, CORSReasonHeader+h)
					return
				}
			}
		}

		c.Next()
	}
}
