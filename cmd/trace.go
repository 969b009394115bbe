// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/luthersystems/jml/jml"
	"github.com/luthersystems/jml/jml/x/profiler"
	octrace "go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// newTracer returns the profiler selected by --trace for the program in src,
// or nil when tracing is disabled.  The profiler is completed when the
// command finishes.
func (c *cli) newTracer(ctx context.Context, file string, src []byte) (jml.Profiler, error) {
	opts := []profiler.Option{
		profiler.WithSource(file, src),
		profiler.WithLocationLabeler(),
	}
	var p jml.Profiler
	switch mode := c.v.GetString("trace"); mode {
	case "", "none":
		return nil, nil
	case "otel":
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(&otelLogExporter{logger: c.logger}),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		)
		otel.SetTracerProvider(tp)
		c.cleanup = append(c.cleanup, func() error {
			return tp.Shutdown(context.Background())
		})
		p = profiler.NewOpenTelemetryAnnotator(nil, ctx, opts...)
	case "opencensus":
		exporter := &ocLogExporter{logger: c.logger}
		octrace.ApplyConfig(octrace.Config{DefaultSampler: octrace.AlwaysSample()})
		octrace.RegisterExporter(exporter)
		c.cleanup = append(c.cleanup, func() error {
			octrace.UnregisterExporter(exporter)
			return nil
		})
		p = profiler.NewOpenCensusAnnotator(nil, ctx, opts...)
	case "pprof":
		p = profiler.NewPprofAnnotator(nil, ctx, opts...)
	case "callgrind":
		cg := profiler.NewCallgrindProfiler(nil, opts...)
		if err := cg.SetFile(c.v.GetString("trace-file")); err != nil {
			return nil, fmt.Errorf("callgrind output: %w", err)
		}
		p = cg
	default:
		return nil, fmt.Errorf("unknown trace mode: %q", mode)
	}
	c.cleanup = append(c.cleanup, func() error {
		if !p.IsEnabled() {
			return nil
		}
		return p.Complete()
	})
	return p, nil
}

// otelLogExporter writes finished OpenTelemetry spans to the debug log.
type otelLogExporter struct {
	logger *slog.Logger
}

func (e *otelLogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		e.logger.LogAttrs(ctx, slog.LevelInfo, "span",
			slog.String("name", span.Name()),
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("span_id", span.SpanContext().SpanID().String()),
			slog.String("parent_id", span.Parent().SpanID().String()),
			slog.Duration("duration", span.EndTime().Sub(span.StartTime())))
	}
	return nil
}

func (e *otelLogExporter) Shutdown(ctx context.Context) error {
	return nil
}

// ocLogExporter writes finished OpenCensus spans to the debug log.
type ocLogExporter struct {
	logger *slog.Logger
}

func (e *ocLogExporter) ExportSpan(sd *octrace.SpanData) {
	e.logger.LogAttrs(context.Background(), slog.LevelInfo, "span",
		slog.String("name", sd.Name),
		slog.String("trace_id", sd.TraceID.String()),
		slog.String("span_id", sd.SpanID.String()),
		slog.String("parent_id", sd.ParentSpanID.String()),
		slog.Duration("duration", sd.EndTime.Sub(sd.StartTime)))
}
