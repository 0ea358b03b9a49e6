package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewResource(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.ServiceVersion = "1.0.0"

	attrs := map[string]string{}
	for _, attr := range newResource(cfg).Attributes() {
		attrs[string(attr.Key)] = attr.Value.AsString()
	}
	assert.Equal(t, "braindump", attrs["service.name"])
	assert.Equal(t, "1.0.0", attrs["service.version"])
}

func TestOptions(t *testing.T) {
	o := &options{}
	assert.Nil(t, o.traceExporter)
	assert.Nil(t, o.metricExporter)

	exp := tracetest.NewInMemoryExporter()
	WithTraceExporter(exp)(o)
	assert.Equal(t, trace.SpanExporter(exp), o.traceExporter)
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, sampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, sampler(0.5).Description(), "TraceIDRatioBased")
	assert.Contains(t, sampler(0.5).Description(), "ParentBased")
}

func TestStripScheme(t *testing.T) {
	assert.Equal(t, "otel:4318", stripScheme("https://otel:4318"))
	assert.Equal(t, "otel:4318", stripScheme("http://otel:4318"))
	assert.Equal(t, "otel:4318", stripScheme("otel:4318"))
}

func TestTLSConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Nil(t, tlsConfig(cfg))

	cfg.TLSSkipVerify = true
	tc := tlsConfig(cfg)
	if assert.NotNil(t, tc) {
		assert.True(t, tc.InsecureSkipVerify)
	}
}
