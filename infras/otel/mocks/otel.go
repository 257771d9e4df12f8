package mocks

import (
	"barber/infras/otel"
	"context"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// otelImpl hands out real scopes over non-recording spans, so code under
// test exercises the same Scope implementation as production.
type otelImpl struct {
	tracer oteltrace.Tracer
}

// NewScope implements otel.Otel.
func (o *otelImpl) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	ctx, span := o.tracer.Start(ctx, spanName)

	return ctx, otel.NewScope(span)
}

// Shutdown implements otel.Otel.
func (o *otelImpl) Shutdown(_ context.Context) error {
	return nil
}

func NewOtel() otel.Otel {
	return &otelImpl{tracer: noop.NewTracerProvider().Tracer("mocks")}
}
