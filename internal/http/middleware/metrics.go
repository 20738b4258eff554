package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// sizeBuckets spans an empty list page up to the default body cap.
var sizeBuckets = prometheus.ExponentialBuckets(64, 4, 8)

// collectors is every Prometheus series the HTTP layer exports.
type collectors struct {
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	inflight    prometheus.Gauge
	respSize    *prometheus.HistogramVec
	rateLimited prometheus.Counter

	questions     prometheus.Gauge
	answers       prometheus.Gauge
	answersAdded  prometheus.Counter
	answerReplays prometheus.Counter
}

func newCollectors(reg prometheus.Registerer) *collectors {
	f := promauto.With(reg)
	route := []string{"method", "path"}
	return &collectors{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		}, route),
		inflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		}),
		respSize: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "Size of HTTP responses in bytes.",
			Buckets: sizeBuckets,
		}, route),
		rateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
		questions: f.NewGauge(prometheus.GaugeOpts{
			Name: "qa_store_questions",
			Help: "Number of questions currently held in the store.",
		}),
		answers: f.NewGauge(prometheus.GaugeOpts{
			Name: "qa_store_answers",
			Help: "Number of answers currently held in the store.",
		}),
		answersAdded: f.NewCounter(prometheus.CounterOpts{
			Name: "qa_answers_added_total",
			Help: "Answers attached to questions since process start.",
		}),
		answerReplays: f.NewCounter(prometheus.CounterOpts{
			Name: "qa_answer_replays_total",
			Help: "Answer attachments answered from the idempotency ledger.",
		}),
	}
}

var metrics = newCollectors(prometheus.DefaultRegisterer)

// Metrics records request count, latency and response size per method and
// route pattern, plus the in-flight gauge. Unmatched requests are labelled
// with their raw path.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.inflight.Inc()
		defer metrics.inflight.Dec()

		c.Next()

		method, path := c.Request.Method, routeOf(c)
		metrics.requests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.latency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		// -1 when nothing was written
		if size := c.Writer.Size(); size >= 0 {
			metrics.respSize.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}

// StoreCounts reports the current number of questions and answers.
type StoreCounts func() (questions, answers int)

// StoreGauges refreshes the qa_store_* gauges once the request is handled.
// A nil counts makes it a no-op.
func StoreGauges(counts StoreCounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if counts == nil {
			return
		}
		q, a := counts()
		metrics.questions.Set(float64(q))
		metrics.answers.Set(float64(a))
	}
}

// ObserveAnswerAdded counts one successful answer attachment.
func ObserveAnswerAdded() { metrics.answersAdded.Inc() }
