package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracerUsesGlobalProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	_, span := Tracer("loader").Start(context.Background(), "loader.process_input")
	span.End()

	spans := recorder.Ended()
	if assert.Len(t, spans, 1) {
		assert.Equal(t, "loader.process_input", spans[0].Name())
		assert.Equal(t, serviceName+"/loader", spans[0].InstrumentationScope().Name)
	}
}

func TestResourceNamesModel(t *testing.T) {
	res, err := newResource(context.Background(), "gemini-2.5-pro")
	require.NoError(t, err)

	attrs := res.Set()
	model, ok := attrs.Value(attribute.Key("gen_ai.request.model"))
	require.True(t, ok)
	assert.Equal(t, "gemini-2.5-pro", model.AsString())

	system, ok := attrs.Value(attribute.Key("gen_ai.system"))
	require.True(t, ok)
	assert.Equal(t, genAISystem, system.AsString())

	name, ok := attrs.Value(attribute.Key("service.name"))
	require.True(t, ok)
	assert.Equal(t, serviceName, name.AsString())
}
