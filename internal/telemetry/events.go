package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "vidshare/domain"

// StartSpan opens an internal span for a domain operation
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// TraceRecordView spans the write half of a video view
func TraceRecordView(ctx context.Context, viewerID, videoID string) (context.Context, trace.Span) {
	return StartSpan(ctx, "history.record_view",
		attribute.String("video.id", videoID),
		attribute.Bool("viewer.anonymous", viewerID == ""),
	)
}

// TraceAggregation spans a composed read view
func TraceAggregation(ctx context.Context, view, resourceID string) (context.Context, trace.Span) {
	return StartSpan(ctx, "engagement."+view,
		attribute.String("resource.id", resourceID),
	)
}

// TraceToggle spans a like or subscription toggle
func TraceToggle(ctx context.Context, kind, subjectID string) (context.Context, trace.Span) {
	return StartSpan(ctx, "social.toggle",
		attribute.String("toggle.kind", kind),
		attribute.String("subject.id", subjectID),
	)
}

// MarkPartial flags a span whose view fell back to neutral values
func MarkPartial(span trace.Span, partial bool) {
	span.SetAttributes(attribute.Bool("engagement.partial", partial))
}

// RecordError marks span failed with err. A nil err is a no-op.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}
