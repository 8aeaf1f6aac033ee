package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// DocumentActions counts document and editor actions by type. Outcome is
	// "applied" or "noop".
	DocumentActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authoring_actions_total",
			Help: "Authoring actions dispatched, by target, action type and outcome",
		},
		[]string{"target", "type", "outcome"},
	)

	QuestionCommits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authoring_question_commits_total",
			Help: "Question commits by outcome",
		},
		[]string{"outcome"},
	)

	ImageTransfers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authoring_image_transfers_total",
			Help: "Image uploads and deletes by outcome",
		},
		[]string{"op", "outcome"},
	)

	OpenSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "authoring_open_sessions",
			Help: "Drafts currently held in memory",
		},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			DocumentActions,
			QuestionCommits,
			ImageTransfers,
			OpenSessions,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Outcome maps an error to a metric label.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
