package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/tbourn/go-rank-tracker/internal/config"
)

func keepGlobals(t *testing.T) {
	t.Helper()
	tp, prop := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(prop)
	})
}

func enabled(name string, insecure bool) config.OTELConfig {
	return config.OTELConfig{Enabled: true, Insecure: insecure, Endpoint: "localhost:4317", ServiceName: name, SampleRatio: 1}
}

func TestSetupOTel_DisabledIsNoop(t *testing.T) {
	keepGlobals(t)
	before := otel.GetTracerProvider()

	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: false}, "v0")
	if err != nil || shutdown == nil {
		t.Fatalf("SetupOTel: shutdown=%v err=%v", shutdown != nil, err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
	if otel.GetTracerProvider() != before {
		t.Fatalf("disabled setup replaced the tracer provider")
	}
}

func TestSetupOTel_InstallsProviderAndPropagator(t *testing.T) {
	for _, insecure := range []bool{true, false} {
		keepGlobals(t)
		shutdown, err := SetupOTel(context.Background(), enabled("rank-tracker-test", insecure), "v1.0.0")
		if err != nil {
			t.Fatalf("insecure=%v: %v", insecure, err)
		}
		if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
			t.Fatalf("insecure=%v: sdk tracer provider not installed", insecure)
		}

		ctx, span := otel.Tracer("refresh").Start(context.Background(), "Refresh")
		carrier := propagation.MapCarrier{}
		otel.GetTextMapPropagator().Inject(ctx, carrier)
		span.End()
		if carrier.Get("traceparent") == "" {
			t.Fatalf("insecure=%v: traceparent not propagated", insecure)
		}
		_ = shutdown(context.Background())
	}
}

func TestSetupOTel_ErrorsLeaveGlobalsIntact(t *testing.T) {
	keepGlobals(t)
	origExp, origRes := newExporter, newResource
	t.Cleanup(func() { newExporter, newResource = origExp, origRes })

	prevTP := otel.GetTracerProvider()

	newExporter = func(context.Context, ...otlptracegrpc.Option) (*otlptrace.Exporter, error) {
		return nil, errors.New("exporter down")
	}
	if _, err := SetupOTel(context.Background(), enabled("svc", true), "v0"); err == nil {
		t.Fatalf("expected exporter error")
	}

	newExporter = origExp
	newResource = func(context.Context, string, string) (*resource.Resource, error) {
		return nil, errors.New("bad resource")
	}
	if _, err := SetupOTel(context.Background(), enabled("svc", true), "v0"); err == nil {
		t.Fatalf("expected resource error")
	}
	if otel.GetTracerProvider() != prevTP {
		t.Fatalf("tracer provider changed on failure")
	}
}

func TestClampRatio(t *testing.T) {
	for in, want := range map[float64]float64{-1: 0, 0: 0, 0.25: 0.25, 1: 1, 3: 1} {
		if got := clampRatio(in); got != want {
			t.Fatalf("clampRatio(%v) = %v; want %v", in, got, want)
		}
	}
}
