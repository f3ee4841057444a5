package observability

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce        sync.Once
	adminRequestsTotal  *prometheus.CounterVec
	adminLatencySeconds *prometheus.HistogramVec
	adminErrorsTotal    *prometheus.CounterVec
	attendanceMarked    prometheus.Counter
	classworkSubmitted  prometheus.Counter
	examSubmissions     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the portal.
func RegisterMetrics() {
	registerOnce.Do(func() {
		adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_requests_total",
			Help: "Total number of admin API requests served.",
		}, []string{"method", "route", "status"})

		adminLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_latency_seconds",
			Help:    "Latency distribution for admin API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		adminErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_errors_total",
			Help: "Total number of error responses returned by admin endpoints.",
		}, []string{"method", "route", "status"})

		attendanceMarked = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_attendance_marked_total",
			Help: "Total number of attendance records created.",
		})

		classworkSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_classwork_submissions_total",
			Help: "Total number of classwork submissions accepted.",
		})

		examSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_exam_submissions_total",
			Help: "Total number of completed exam attempts, by submission mode.",
		}, []string{"mode"})

		prometheus.MustRegister(
			adminRequestsTotal,
			adminLatencySeconds,
			adminErrorsTotal,
			attendanceMarked,
			classworkSubmitted,
			examSubmissions,
		)
	})
}

// MetricsHandler serves the registered collectors on a Fiber route so
// Prometheus can scrape them.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}

// AdminRequests exposes the counter for admin requests.
func AdminRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return adminRequestsTotal
}

// AdminLatency exposes the latency histogram for admin requests.
func AdminLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return adminLatencySeconds
}

// AdminErrors exposes the counter for admin error responses.
func AdminErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return adminErrorsTotal
}

// AttendanceMarked exposes the counter for created attendance records.
func AttendanceMarked() prometheus.Counter {
	RegisterMetrics()
	return attendanceMarked
}

// ClassworkSubmitted exposes the counter for accepted classwork submissions.
func ClassworkSubmitted() prometheus.Counter {
	RegisterMetrics()
	return classworkSubmitted
}

// ExamSubmissions exposes the counter for completed exam attempts.
// Mode is "manual" or "auto".
func ExamSubmissions() *prometheus.CounterVec {
	RegisterMetrics()
	return examSubmissions
}
