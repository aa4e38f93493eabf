package database

import (
	"context"
	"time"

	"github.com/deppfellow/lightbnb/internal/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type queryStartKey struct{}

type queryStart struct {
	at        time.Time
	operation string
}

// queryTracer records per-query metrics and logs statements that exceed
// the slow query threshold. A zero threshold disables slow query logs.
type queryTracer struct {
	log       *zerolog.Logger
	threshold time.Duration
	now       func() time.Time
}

func newQueryTracer(log *zerolog.Logger, threshold time.Duration) *queryTracer {
	return &queryTracer{log: log, threshold: threshold, now: time.Now}
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{
		at:        t.now(),
		operation: metrics.Operation(data.SQL),
	})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}

	elapsed := t.now().Sub(start.at)
	metrics.RecordDBQuery(start.operation, elapsed, data.Err)

	if t.threshold > 0 && elapsed >= t.threshold {
		t.log.Warn().
			Str("operation", start.operation).
			Dur("duration", elapsed).
			Dur("threshold", t.threshold).
			Str("command_tag", data.CommandTag.String()).
			Msg("slow query")
	}
}
