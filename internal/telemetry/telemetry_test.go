package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidshare/backend/internal/config"
	"github.com/vidshare/backend/internal/database"
	"github.com/vidshare/backend/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := NewTracerProvider(Config{SamplingRate: 1}, sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return recorder
}

func attr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestInitTracerDisabled(t *testing.T) {
	tp, err := InitTracer(Config{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, tp)
	assert.NoError(t, Shutdown(context.Background(), nil))
}

func TestFromAppConfig(t *testing.T) {
	cfg := FromAppConfig(config.AppConfig{
		Environment: "production",
		Telemetry: config.TelemetryConfig{
			Enabled:      true,
			Endpoint:     "tempo:4318",
			SamplingRate: 0.5,
			ServiceName:  "vidshare-backend",
		},
	})
	assert.Equal(t, Config{
		ServiceName:  "vidshare-backend",
		Environment:  "production",
		OTLPEndpoint: "tempo:4318",
		Enabled:      true,
		SamplingRate: 0.5,
	}, cfg)
}

func TestDomainSpans(t *testing.T) {
	recorder := newRecorder(t)

	_, span := TraceRecordView(context.Background(), "", "v1")
	span.End()
	_, span = TraceAggregation(context.Background(), "video_detail", "v1")
	MarkPartial(span, true)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "history.record_view", ended[0].Name())
	anonymous, ok := attr(ended[0], "viewer.anonymous")
	require.True(t, ok)
	assert.True(t, anonymous.AsBool())

	assert.Equal(t, "engagement.video_detail", ended[1].Name())
	partial, ok := attr(ended[1], "engagement.partial")
	require.True(t, ok)
	assert.True(t, partial.AsBool())
}

func TestRecordExternalCallError(t *testing.T) {
	recorder := newRecorder(t)

	_, span := TraceExternalCall(context.Background(), ExternalServiceCallAttrs{Service: "s3", Operation: "put_object", ResourceID: "videos/a.mp4"})
	RecordExternalCallError(span, errors.New("access denied"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "s3.put_object", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
}

func TestGORMTracingPlugin(t *testing.T) {
	recorder := newRecorder(t)
	db := database.NewTestDB(t)
	require.NoError(t, db.Use(GORMTracingPlugin()))

	user := &models.User{Username: "traced", Email: "traced@example.com", FullName: "Traced"}
	require.NoError(t, db.WithContext(context.Background()).Create(user).Error)

	var missing models.User
	err := db.WithContext(context.Background()).Where("id = ?", "nope").First(&missing).Error
	require.Error(t, err)

	var insert, query sdktrace.ReadOnlySpan
	for _, span := range recorder.Ended() {
		switch span.Name() {
		case "db.insert":
			insert = span
		case "db.select":
			query = span
		}
	}
	require.NotNil(t, insert)
	require.NotNil(t, query)

	system, _ := attr(insert, dbSystemKey)
	assert.Equal(t, "sqlite", system.AsString())
	table, _ := attr(insert, dbTableKey)
	assert.Equal(t, "users", table.AsString())

	assert.NotEqual(t, codes.Error, query.Status().Code, "missing rows are not span errors")
}
