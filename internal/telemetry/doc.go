// Package telemetry exports braindump traces and metrics over OTLP.
//
// Export is off by default; extraction spans and HTTP metrics then go to
// the global no-op providers. When enabled, New installs an SDK trace and
// meter provider globally:
//
//	tel, err := telemetry.New(ctx, telemetry.ConfigFrom(cfg.Telemetry, version))
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
// # Configuration
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  protocol: grpc          # or http/protobuf
//	  sample_rate: 1.0
//	  metrics: true
//	  export_interval: 15s
//
// Insecure (plain text) export is only allowed to loopback endpoints.
//
// # Testing
//
// NewTestTelemetry records spans in memory without touching globals:
//
//	tt := telemetry.NewTestTelemetry()
//	svc := braindump.NewService(reg, c, braindump.WithTracer(tt.Tracer("test")))
//	...
//	tt.AssertSpanExists(t, "braindump.ProcessText")
package telemetry
