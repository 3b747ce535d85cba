// internal/common/observability/metrics_test.go
package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestObservability_StartSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	o := NewWithRegisterer("test", promclient.NewRegistry(), sdktrace.WithSpanProcessor(recorder))
	defer o.Shutdown()

	ctx, parent := o.StartSpan(context.Background(), "pipeline.run", attribute.String("runId", "r1"))
	_, child := o.StartSpan(ctx, "pipeline.score")
	child.End()
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "pipeline.score", spans[0].Name())
	assert.Equal(t, "pipeline.run", spans[1].Name())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestObservability_RecordRunExported(t *testing.T) {
	reg := promclient.NewRegistry()
	o := NewWithRegisterer("test", reg)
	defer o.Shutdown()

	o.RecordRun(context.Background(), 120*time.Millisecond, "success")
	o.RecordStage(context.Background(), "score", time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	found := false
	for _, f := range families {
		names = append(names, f.GetName())
		if strings.HasPrefix(f.GetName(), "pipeline_runs") {
			found = true
		}
	}
	assert.True(t, found, "got %v", names)
}

func TestObservability_NilIsNoop(t *testing.T) {
	var o *Observability

	ctx, span := o.StartSpan(context.Background(), "x")
	span.End()
	o.RecordRun(ctx, time.Second, "success")
	o.RecordStage(ctx, "score", time.Second)
	o.Shutdown()

	assert.False(t, span.SpanContext().IsValid())
}
