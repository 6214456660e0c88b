package tracing

import (
	"context"
	"fmt"

	"github.com/honeycombio/honeycomb-opentelemetry-go"
	"github.com/honeycombio/otel-config-go/otelconfig"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var GlobalTracer = otel.Tracer("fitlog")

// HoneycombSetup configures the global otel providers to export to honeycomb.
// The API key is read by the exporter from HONEYCOMB_API_KEY.
// The returned func flushes and shuts the exporters down.
func HoneycombSetup(enabled bool, serviceName string) (func(), error) {
	if !enabled {
		log.Debugln("honeycomb tracing disabled")
		return func() {}, nil
	}

	bsp := honeycomb.NewBaggageSpanProcessor()
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(serviceName),
		otelconfig.WithSpanProcessor(bsp),
	)
	if err != nil {
		return nil, fmt.Errorf("configure open telemetry: %w", err)
	}

	log.Infof("honeycomb tracing enabled for %s", serviceName)
	return otelShutdown, nil
}

// EndSpanWithErrCheck sets the span status from err and ends it.
// Use it deferred, with a named error result:
//
//	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
func EndSpanWithErrCheck(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "ok")
	}
	span.End()
}

// StartSpan is a shorthand for GlobalTracer.Start.
func StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return GlobalTracer.Start(ctx, name)
}
