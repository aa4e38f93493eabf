// Package metrics exposes Prometheus instrumentation for database access.
//
// Metrics:
//   - lightbnb_db_query_duration_seconds{operation}: query latency histogram
//   - lightbnb_db_query_errors_total{operation,error_type}: failed queries
//
// operation is the leading SQL keyword in lower case (select, insert, ...).
package metrics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lightbnb_db_query_duration_seconds",
			Help:    "Duration of PostgreSQL queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lightbnb_db_query_errors_total",
			Help: "Total number of failed PostgreSQL queries",
		},
		[]string{"operation", "error_type"},
	)
)

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, ErrorType(err)).Inc()
	}
}

// ErrorType buckets an error into a low-cardinality label value.
// PostgreSQL errors use their SQLSTATE class.
func ErrorType(err error) string {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		if len(pgErr.Code) >= 2 {
			return "sqlstate_" + pgErr.Code[:2]
		}
		return "sqlstate"
	case errors.Is(err, pgx.ErrNoRows):
		return "no_rows"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case pgconn.SafeToRetry(err), pgconn.Timeout(err):
		return "connection"
	default:
		return "other"
	}
}

// Operation extracts the leading SQL keyword of a statement.
func Operation(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}
