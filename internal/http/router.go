// Package httpapi wires the HTTP transport (Gin) to the question and answer
// services, middleware, and route handlers. It centralizes tracing,
// correlation IDs, access logging, panic recovery, metrics, CORS, security
// headers, idempotency, and rate limiting.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-qa-backend/internal/config"
	_ "github.com/tbourn/go-qa-backend/internal/docs"
	"github.com/tbourn/go-qa-backend/internal/domain"
	"github.com/tbourn/go-qa-backend/internal/http/handlers"
	"github.com/tbourn/go-qa-backend/internal/http/middleware"
	"github.com/tbourn/go-qa-backend/internal/repo"
	"github.com/tbourn/go-qa-backend/internal/services"
)

var (
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}
	corsHeaders = []string{"Origin", "Content-Type", "Accept", middleware.HeaderIdempotencyKey}
)

// RegisterRoutes attaches all middleware and endpoints to r. st is the record
// store; db holds the idempotency ledger and may be nil to disable replays.
//
// Middleware order matters:
//  1. OpenTelemetry
//  2. RequestID
//  3. access logger (redacting unless disabled)
//  4. Recovery, after the logger so panics are logged with the request id
//  5. body size limit
//  6. metrics and store gauges
//  7. CORS guard, then gin-contrib/cors headers
//  8. idempotency validator, before the rate limiter so replays bypass it
//  9. rate limiter
//  10. security headers
func RegisterRoutes(r *gin.Engine, st *repo.Store, db *gorm.DB, cfg config.Config) {
	// a known path with the wrong method is an unknown route
	r.HandleMethodNotAllowed = false

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	if cfg.LogRedact {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{
			MaskHeaders: []string{middleware.HeaderIdempotencyKey},
		}))
	} else {
		r.Use(middleware.Logger())
	}
	r.Use(middleware.Recovery())

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	r.Use(limitBody(maxBody))

	r.Use(middleware.Metrics())
	r.Use(middleware.StoreGauges(st.Counts))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.GzipEnabled {
		r.Use(gzip.Gzip(gzip.DefaultCompression))
	}

	r.Use(middleware.CORSGuard(middleware.CORSOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: corsMethods,
		AllowedHeaders: corsHeaders,
	}, func(c *gin.Context, reason string) {
		handlers.Reject(c, &services.CORSForbiddenError{Reason: reason})
	}))
	r.Use(corsHeadersFor(cfg.CORS))

	aSvc := &services.AnswerService{Repo: st, IdempotencyTTL: cfg.IdempotencyTTL}
	if db != nil {
		aSvc.Ledger = repo.NewLedger(db)
	}
	qSvc := services.NewQuestionService(st)

	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, scope, key string, now time.Time) (bool, error) {
			return aSvc.Replayed(ctx, domain.QuestionID(scope), key, now), nil
		},
	))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
		Expose:       []string{"X-Request-ID", handlers.HeaderIdempotencyReplayed},
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Reject(c, services.ErrRouteNotFound)
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(qSvc, aSvc)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.GET("/questions", h.ListQuestions)
		api.POST("/questions", h.CreateQuestion)
		api.PUT("/questions/:id", h.UpdateQuestion)
		api.DELETE("/questions/:id", h.DeleteQuestion)

		api.POST("/questions/:id/answers", h.AddAnswer)
	}
}

// corsHeadersFor writes the Access-Control-* response headers. With no
// allowlist every origin is accepted and ACAO is "*" even without an Origin
// header; otherwise an allowed origin is echoed back.
func corsHeadersFor(cc config.CORSConfig) gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     append([]string{http.MethodOptions}, corsMethods...),
		AllowHeaders:     corsHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length", handlers.HeaderIdempotencyReplayed},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if len(cc.AllowedOrigins) == 0 {
		base.AllowAllOrigins = true
		corsMW := cors.New(base)
		return func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			corsMW(c)
		}
	}

	base.AllowOrigins = cc.AllowedOrigins
	return cors.New(base)
}

// limitBody caps the request body at maxBytes. Reads past the cap fail, which
// handlers report as a malformed body.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
