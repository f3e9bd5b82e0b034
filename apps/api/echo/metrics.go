package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sigeas_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	gradeScoreHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sigeas_grade_score",
			Help:    "Distribution of recorded grade scores",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
		[]string{"class"},
	)

	attendanceRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sigeas_attendance_rows_total",
			Help: "Total number of attendance rows written by roll calls",
		},
		[]string{"class"},
	)
)

// metricsMiddleware observes the duration of every request, labelled by route path.
func metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			if err := next(ctx); err != nil {
				// the error response is written here so its status gets observed
				ctx.Error(err)
			}

			apiRequestDuration.WithLabelValues(
				ctx.Path(),
				ctx.Request().Method,
				strconv.Itoa(ctx.Response().Status),
			).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
