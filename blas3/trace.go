package blas3

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/katalvlaran/lvdist/blas3"

var (
	tracerOnce sync.Once
	tracer     trace.Tracer
)

// getTracer returns the package tracer, created lazily from the global
// provider (a no-op until the application installs one).
func getTracer() trace.Tracer {
	tracerOnce.Do(func() {
		tracer = otel.Tracer(tracerName)
	})
	return tracer
}

// fail records err on span and returns it.
func fail(span trace.Span, err error, msg string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}
