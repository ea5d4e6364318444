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
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	TasksCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codequest_tasks_completed_total",
			Help: "Task completions by difficulty",
		},
		[]string{"difficulty"},
	)

	TasksUncompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "codequest_tasks_uncompleted_total",
			Help: "Task completions reverted",
		},
	)

	XPGranted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codequest_xp_granted_total",
			Help: "XP granted by source",
		},
		[]string{"source"},
	)

	GoldGranted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codequest_gold_granted_total",
			Help: "Gold granted by source",
		},
		[]string{"source"},
	)

	GoldSpent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codequest_gold_spent_total",
			Help: "Gold spent in the shop by item",
		},
		[]string{"item"},
	)

	BossesDefeated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "codequest_bosses_defeated_total",
			Help: "Quest bosses brought to zero HP",
		},
	)

	ReviewsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codequest_reviews_submitted_total",
			Help: "Spaced-repetition reviews by outcome",
		},
		[]string{"outcome"},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codequest_curriculum_cache_lookups_total",
			Help: "Curriculum cache lookups by result",
		},
		[]string{"result"},
	)

	initOnce sync.Once
)

// Init 注册全部指标，可重复调用
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			TasksCompleted,
			TasksUncompleted,
			XPGranted,
			GoldGranted,
			GoldSpent,
			BossesDefeated,
			ReviewsSubmitted,
			CacheLookups,
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
