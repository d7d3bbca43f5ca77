// Package observe provides approuter.Observer implementations backed by
// zerolog and prometheus.
package observe

import (
	"context"
	"time"

	"github.com/danmuck/approuter"
	"github.com/rs/zerolog"
)

type logObserver struct {
	logger zerolog.Logger
}

// NewLogObserver logs every dispatch: debug on success, error on failure.
func NewLogObserver(logger zerolog.Logger) approuter.Observer {
	return &logObserver{logger: logger}
}

func (o *logObserver) RouteStarted(ctx context.Context, _ string, _ approuter.RouteKey) context.Context {
	return ctx
}

func (o *logObserver) RouteFinished(_ context.Context, table string, key approuter.RouteKey, elapsed time.Duration, err error) {
	event := o.logger.Debug()
	if err != nil {
		event = o.logger.Error().Err(err)
	}
	event.
		Str("table", table).
		Str("source_type", typeLabel(key.Source)).
		Str("message_type", typeLabel(key.Message)).
		Str("response_type", typeLabel(key.Response)).
		Dur("duration", elapsed).
		Msg("route_dispatched")
}
